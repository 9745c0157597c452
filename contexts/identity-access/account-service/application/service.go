package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "threadmart/contexts/identity-access/account-service/domain/errors"
	"threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Tokens token.Codec
	Logger *slog.Logger
}

func (s Service) Register(ctx context.Context, input ports.RegisterInput) (ports.Identity, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.PhotoURL = strings.TrimSpace(input.PhotoURL)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))

	if input.Name == "" || input.Email == "" {
		return ports.Identity{}, domainerrors.ErrInvalidRequest
	}
	if !ports.IsValidRole(input.Role) {
		return ports.Identity{}, domainerrors.ErrUnknownRole
	}
	// Admin seats are granted by an existing admin, never self-assigned.
	if input.Role == ports.RoleAdmin {
		return ports.Identity{}, domainerrors.ErrUnknownRole
	}

	userID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Identity{}, err
	}

	identity, err := s.Repo.CreateUser(ctx, userID, input, s.now())
	if err != nil {
		return ports.Identity{}, err
	}

	ResolveLogger(s.Logger).Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", identity.UserID,
		"role", identity.Role,
	)
	return identity, nil
}

// Login resolves the account and issues a session credential.
// There is no password exchange here: the upstream identity provider has
// already authenticated the user before this endpoint is called.
func (s Service) Login(ctx context.Context, email string) (ports.Identity, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.Identity{}, "", domainerrors.ErrInvalidRequest
	}

	identity, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return ports.Identity{}, "", err
	}

	raw, err := s.Tokens.Issue(token.Claims{
		UserID: identity.UserID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   identity.Role,
	}, s.now())
	if err != nil {
		return ports.Identity{}, "", err
	}

	ResolveLogger(s.Logger).Info("account logged in",
		"event", "account_logged_in",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", identity.UserID,
	)
	return identity, raw, nil
}

// Resolve returns the stored identity for a credential subject. Role and
// status always come from the store so a change takes effect on the next
// request without re-login.
func (s Service) Resolve(ctx context.Context, userID string) (ports.Identity, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.Identity{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.FindByID(ctx, strings.TrimSpace(userID))
}

func (s Service) ResolveByEmail(ctx context.Context, email string) (ports.Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.Identity{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.FindByEmail(ctx, email)
}

func (s Service) ListUsers(ctx context.Context, filter ports.UserFilter) ([]ports.Identity, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Role != "" && !ports.IsValidRole(filter.Role) {
		return nil, 0, domainerrors.ErrUnknownRole
	}
	return s.Repo.ListUsers(ctx, filter)
}

func (s Service) UpdateRole(ctx context.Context, userID string, role string) (ports.Identity, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if strings.TrimSpace(userID) == "" {
		return ports.Identity{}, domainerrors.ErrInvalidRequest
	}
	if !ports.IsValidRole(role) {
		return ports.Identity{}, domainerrors.ErrUnknownRole
	}

	identity, err := s.Repo.UpdateRole(ctx, strings.TrimSpace(userID), role, s.now())
	if err != nil {
		return ports.Identity{}, err
	}

	ResolveLogger(s.Logger).Info("account role updated",
		"event", "account_role_updated",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", identity.UserID,
		"role", identity.Role,
	)
	return identity, nil
}

func (s Service) UpdateStatus(ctx context.Context, userID string, status string) (ports.Identity, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if strings.TrimSpace(userID) == "" {
		return ports.Identity{}, domainerrors.ErrInvalidRequest
	}
	if !ports.IsValidStatus(status) {
		return ports.Identity{}, domainerrors.ErrUnknownStatus
	}

	current, err := s.Repo.FindByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return ports.Identity{}, err
	}
	if !statusChangeAllowed(current.Status, status) {
		return ports.Identity{}, domainerrors.ErrInvalidStatusChange
	}

	identity, err := s.Repo.UpdateStatus(ctx, current.UserID, status, s.now())
	if err != nil {
		return ports.Identity{}, err
	}

	ResolveLogger(s.Logger).Info("account status updated",
		"event", "account_status_updated",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", identity.UserID,
		"status", identity.Status,
	)
	return identity, nil
}

// pending accounts can only be activated; active accounts can be suspended
// and suspended ones reinstated.
func statusChangeAllowed(from string, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case ports.StatusPending:
		return to == ports.StatusActive
	case ports.StatusActive:
		return to == ports.StatusSuspend
	case ports.StatusSuspend:
		return to == ports.StatusActive
	default:
		return false
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
