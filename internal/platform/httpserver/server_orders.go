package httpserver

import (
	"errors"
	"net/http"
	"strings"

	ordererrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	orderhttp "threadmart/contexts/commerce-core/order-service/transport/http"
)

func writeOrderError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, orderhttp.ErrorResponse{Code: code, Message: message})
}

func writeOrderDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ordererrors.ErrOrderNotFound):
		writeOrderError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, ordererrors.ErrTrackingNotFound):
		writeOrderError(w, http.StatusNotFound, "tracking_not_found", err.Error())
	case errors.Is(err, ordererrors.ErrProductNotFound):
		writeOrderError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, ordererrors.ErrDuplicateActiveOrder):
		writeOrderError(w, http.StatusConflict, "duplicate_active_order", err.Error())
	case errors.Is(err, ordererrors.ErrInvalidTransition):
		writeOrderError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, ordererrors.ErrAlreadyProcessed):
		writeOrderError(w, http.StatusConflict, "already_processed", err.Error())
	case errors.Is(err, ordererrors.ErrIdempotencyConflict):
		writeOrderError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, ordererrors.ErrIdempotencyKeyRequired):
		writeOrderError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, ordererrors.ErrNotOrderOwner):
		writeOrderError(w, http.StatusForbidden, "not_order_owner", err.Error())
	case errors.Is(err, ordererrors.ErrUnknownStatus),
		errors.Is(err, ordererrors.ErrInvalidRequest):
		writeOrderError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeOrderError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireOrderIdempotencyKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		writeOrderError(w, http.StatusBadRequest, "idempotency_key_required", "Idempotency-Key header is required")
		return "", false
	}
	return key, true
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeOrderError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	if !rejectSuspended(w, identity) {
		return
	}
	key, ok := requireOrderIdempotencyKey(w, r)
	if !ok {
		return
	}
	var req orderhttp.PlaceOrderRequest
	if !s.decodeJSON(w, r, &req, writeOrderError) {
		return
	}
	resp, err := s.orders.Handler.PlaceOrderHandler(r.Context(), key, identity.Email, identity.Name, req)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListBuyerOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeOrderError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	query := r.URL.Query()
	skip, limit, ok := parsePagination(query)
	if !ok {
		writeOrderError(w, http.StatusBadRequest, "invalid_pagination", "skip and limit must be non-negative integers")
		return
	}
	resp, err := s.orders.Handler.ListBuyerOrdersHandler(
		r.Context(),
		identity.Email,
		query.Get("view"),
		query.Get("status"),
		skip,
		limit,
	)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, limit, ok := parsePagination(query)
	if !ok {
		writeOrderError(w, http.StatusBadRequest, "invalid_pagination", "skip and limit must be non-negative integers")
		return
	}
	resp, err := s.orders.Handler.ListAllOrdersHandler(r.Context(), query.Get("status"), skip, limit)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := requireOrderIdempotencyKey(w, r)
	if !ok {
		return
	}
	resp, err := s.orders.Handler.ApproveOrderHandler(r.Context(), key, r.PathValue("order_id"))
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := requireOrderIdempotencyKey(w, r)
	if !ok {
		return
	}
	resp, err := s.orders.Handler.RejectOrderHandler(r.Context(), key, r.PathValue("order_id"))
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAppendTracking(w http.ResponseWriter, r *http.Request) {
	key, ok := requireOrderIdempotencyKey(w, r)
	if !ok {
		return
	}
	var req orderhttp.AppendTrackingRequest
	if !s.decodeJSON(w, r, &req, writeOrderError) {
		return
	}
	resp, err := s.orders.Handler.AppendTrackingHandler(r.Context(), key, r.PathValue("order_id"), req)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTracking(w http.ResponseWriter, r *http.Request) {
	resp, err := s.orders.Handler.GetTrackingHandler(r.Context(), r.PathValue("order_id"))
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
