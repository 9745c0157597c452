package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"threadmart/contexts/identity-access/account-service/application"
	"threadmart/contexts/identity-access/account-service/ports"
	httptransport "threadmart/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.RegisterResponse, error) {
	identity, err := h.Service.Register(ctx, ports.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		PhotoURL: strings.TrimSpace(req.PhotoURL),
		Role:     strings.TrimSpace(req.Role),
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	resp := httptransport.RegisterResponse{Status: "success"}
	resp.Data.User = toUser(identity)
	return resp, nil
}

// LoginHandler returns the issued credential alongside the identity so the
// platform server can set the session cookie.
func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, string, error) {
	identity, raw, err := h.Service.Login(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return httptransport.LoginResponse{}, "", err
	}
	resp := httptransport.LoginResponse{Status: "success"}
	resp.Data.User = toUser(identity)
	return resp, raw, nil
}

func (h Handler) MeHandler(ctx context.Context, userID string) (httptransport.MeResponse, error) {
	identity, err := h.Service.Resolve(ctx, strings.TrimSpace(userID))
	if err != nil {
		return httptransport.MeResponse{}, err
	}
	resp := httptransport.MeResponse{Status: "success"}
	resp.Data.User = toUser(identity)
	return resp, nil
}

func (h Handler) ListUsersHandler(ctx context.Context, filter ports.UserFilter) (httptransport.ListUsersResponse, error) {
	users, total, err := h.Service.ListUsers(ctx, filter)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	resp := httptransport.ListUsersResponse{Status: "success"}
	resp.Data.Total = total
	for _, identity := range users {
		resp.Data.Users = append(resp.Data.Users, toUser(identity))
	}
	return resp, nil
}

func (h Handler) UpdateRoleHandler(ctx context.Context, userID string, req httptransport.UpdateRoleRequest) (httptransport.UpdateUserResponse, error) {
	identity, err := h.Service.UpdateRole(ctx, strings.TrimSpace(userID), strings.TrimSpace(req.Role))
	if err != nil {
		return httptransport.UpdateUserResponse{}, err
	}
	resp := httptransport.UpdateUserResponse{Status: "success"}
	resp.Data.User = toUser(identity)
	return resp, nil
}

func (h Handler) UpdateStatusHandler(ctx context.Context, userID string, req httptransport.UpdateStatusRequest) (httptransport.UpdateUserResponse, error) {
	identity, err := h.Service.UpdateStatus(ctx, strings.TrimSpace(userID), strings.TrimSpace(req.Status))
	if err != nil {
		return httptransport.UpdateUserResponse{}, err
	}
	resp := httptransport.UpdateUserResponse{Status: "success"}
	resp.Data.User = toUser(identity)
	return resp, nil
}

func toUser(identity ports.Identity) httptransport.User {
	return httptransport.User{
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		PhotoURL:  identity.PhotoURL,
		Role:      identity.Role,
		Status:    identity.Status,
		CreatedAt: identity.CreatedAt.UTC().Format(time.RFC3339),
	}
}
