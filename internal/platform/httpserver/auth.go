package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	accounterrors "threadmart/contexts/identity-access/account-service/domain/errors"
	accountports "threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"
)

type contextKey string

const (
	claimsContextKey   contextKey = "session_claims"
	identityContextKey contextKey = "resolved_identity"
)

func claimsFrom(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(token.Claims)
	return claims, ok
}

func identityFrom(ctx context.Context) (accountports.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(accountports.Identity)
	return identity, ok
}

// requireAuth gates a route on a valid session cookie. A missing cookie is
// 401; a cookie that fails verification is 403.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{
				Code:    "unauthorized",
				Message: "authentication cookie is required",
			})
			return
		}

		claims, err := s.tokens.Verify(cookie.Value, time.Now().UTC())
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, token.ErrTokenExpired) {
				code = "token_expired"
			}
			writeJSON(w, http.StatusForbidden, errorBody{
				Code:    code,
				Message: "authentication token was rejected",
			})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
	}
}

// requireRole re-resolves the caller from the account store on every request
// so role and status changes take effect immediately, whatever the credential
// still claims.
func (s *Server) requireRole(next http.HandlerFunc, allow ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{
				Code:    "unauthorized",
				Message: "authentication cookie is required",
			})
			return
		}

		identity, err := s.accounts.Service.Resolve(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, accounterrors.ErrUserNotFound) {
				writeJSON(w, http.StatusForbidden, errorBody{
					Code:    "forbidden",
					Message: "account no longer exists",
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorBody{
				Code:    "internal_error",
				Message: "internal server error",
			})
			return
		}

		permitted := false
		for _, role := range allow {
			if identity.Role == role {
				permitted = true
				break
			}
		}
		if !permitted {
			writeJSON(w, http.StatusForbidden, errorBody{
				Code:    "forbidden",
				Message: "role is not permitted on this route",
			})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), identityContextKey, identity)))
	}
}

// rejectSuspended guards commerce writes for accounts an admin has suspended.
func rejectSuspended(w http.ResponseWriter, identity accountports.Identity) bool {
	if identity.Status == accountports.StatusSuspend {
		writeJSON(w, http.StatusForbidden, errorBody{
			Code:    "account_suspended",
			Message: "account is suspended",
		})
		return false
	}
	return true
}
