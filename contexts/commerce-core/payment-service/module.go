package paymentservice

import (
	"log/slog"

	httpadapter "threadmart/contexts/commerce-core/payment-service/adapters/http"
	"threadmart/contexts/commerce-core/payment-service/adapters/memory"
	"threadmart/contexts/commerce-core/payment-service/application"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Service  application.Service
	Provider *memory.Provider
}

type Dependencies struct {
	Orders   ports.OrderGateway
	Provider ports.Provider
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Orders:   deps.Orders,
		Provider: deps.Provider,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(orders ports.OrderGateway, logger *slog.Logger) Module {
	provider := memory.NewProvider()
	module := NewModule(Dependencies{
		Orders:   orders,
		Provider: provider,
		Logger:   logger,
	})
	module.Provider = provider
	return module
}
