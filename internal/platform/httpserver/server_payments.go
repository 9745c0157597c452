package httpserver

import (
	"errors"
	"net/http"

	paymenterrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	paymenthttp "threadmart/contexts/commerce-core/payment-service/transport/http"
)

func writePaymentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, paymenthttp.ErrorResponse{Code: code, Message: message})
}

func writePaymentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, paymenterrors.ErrOrderNotFound):
		writePaymentError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, paymenterrors.ErrSessionNotFound):
		writePaymentError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, paymenterrors.ErrNotOrderOwner):
		writePaymentError(w, http.StatusForbidden, "not_order_owner", err.Error())
	case errors.Is(err, paymenterrors.ErrOrderNotApproved):
		writePaymentError(w, http.StatusConflict, "order_not_approved", err.Error())
	case errors.Is(err, paymenterrors.ErrAlreadyProcessed):
		writePaymentError(w, http.StatusConflict, "already_processed", err.Error())
	case errors.Is(err, paymenterrors.ErrNoPaymentSession):
		writePaymentError(w, http.StatusConflict, "no_payment_session", err.Error())
	case errors.Is(err, paymenterrors.ErrPaymentIncomplete):
		writePaymentError(w, http.StatusConflict, "payment_incomplete", err.Error())
	case errors.Is(err, paymenterrors.ErrInvalidRequest):
		writePaymentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, paymenterrors.ErrProviderUnavailable):
		writePaymentError(w, http.StatusBadGateway, "provider_unavailable", err.Error())
	default:
		writePaymentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writePaymentError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	if !rejectSuspended(w, identity) {
		return
	}
	resp, err := s.payments.Handler.CreateSessionHandler(r.Context(), r.PathValue("order_id"), identity.Email)
	if err != nil {
		writePaymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleResolvePaymentSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writePaymentError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	if !rejectSuspended(w, identity) {
		return
	}
	resp, err := s.payments.Handler.ResolveSessionHandler(r.Context(), r.PathValue("order_id"), identity.Email)
	if err != nil {
		writePaymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
