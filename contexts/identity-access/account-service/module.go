package accountservice

import (
	"log/slog"

	httpadapter "threadmart/contexts/identity-access/account-service/adapters/http"
	"threadmart/contexts/identity-access/account-service/adapters/memory"
	"threadmart/contexts/identity-access/account-service/application"
	"threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Tokens      token.Codec
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Tokens: deps.Tokens,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(tokens token.Codec, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Tokens:      tokens,
		Logger:      logger,
	})
	module.Store = store
	return module
}
