package httpserver

import (
	"errors"
	"net/http"
	"time"

	accounterrors "threadmart/contexts/identity-access/account-service/domain/errors"
	accountports "threadmart/contexts/identity-access/account-service/ports"
	accounthttp "threadmart/contexts/identity-access/account-service/transport/http"
)

func writeAccountError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{Code: code, Message: message})
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrUserNotFound):
		writeAccountError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, accounterrors.ErrEmailTaken):
		writeAccountError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidRequest),
		errors.Is(err, accounterrors.ErrUnknownRole),
		errors.Is(err, accounterrors.ErrUnknownStatus):
		writeAccountError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidStatusChange):
		writeAccountError(w, http.StatusConflict, "invalid_status_change", err.Error())
	case errors.Is(err, accounterrors.ErrAccountSuspended):
		writeAccountError(w, http.StatusForbidden, "account_suspended", err.Error())
	default:
		writeAccountError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RegisterRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, raw, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		if errors.Is(err, accounterrors.ErrUserNotFound) {
			writeAccountError(w, http.StatusUnauthorized, "unknown_account", "no account for that email")
			return
		}
		writeAccountDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    raw,
		Path:     "/",
		Expires:  time.Now().UTC().Add(s.cookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeAccountError(w, http.StatusUnauthorized, "unauthorized", "authentication cookie is required")
		return
	}
	resp, err := s.accounts.Handler.MeHandler(r.Context(), claims.UserID)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, limit, ok := parsePagination(query)
	if !ok {
		writeAccountError(w, http.StatusBadRequest, "invalid_pagination", "skip and limit must be non-negative integers")
		return
	}
	resp, err := s.accounts.Handler.ListUsersHandler(r.Context(), accountports.UserFilter{
		Search: query.Get("search"),
		Role:   query.Get("role"),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.UpdateRoleRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.UpdateRoleHandler(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.UpdateStatusRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.UpdateStatusHandler(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
