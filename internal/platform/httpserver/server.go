package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	catalogservice "threadmart/contexts/commerce-core/catalog-service"
	orderservice "threadmart/contexts/commerce-core/order-service"
	paymentservice "threadmart/contexts/commerce-core/payment-service"
	accountservice "threadmart/contexts/identity-access/account-service"
	accountports "threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "threadmart/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	cookie    string
	cookieTTL time.Duration
	tokens    *token.Codec
	accounts  accountservice.Module
	catalog   catalogservice.Module
	orders    orderservice.Module
	payments  paymentservice.Module
}

func New(
	accounts accountservice.Module,
	catalog catalogservice.Module,
	orders orderservice.Module,
	payments paymentservice.Module,
	tokens *token.Codec,
	cookieName string,
	cookieTTL time.Duration,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	if cookieName == "" {
		cookieName = "token"
	}
	if cookieTTL <= 0 {
		cookieTTL = token.DefaultTTL
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		cookie:    cookieName,
		cookieTTL: cookieTTL,
		tokens:    tokens,
		accounts:  accounts,
		catalog:   catalog,
		orders:    orders,
		payments:  payments,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /me", s.requireAuth(s.handleMe))

	s.mux.HandleFunc("GET /admin/users",
		s.requireAuth(s.requireRole(s.handleAdminListUsers, accountports.RoleAdmin)))
	s.mux.HandleFunc("PATCH /admin/users/{user_id}/role",
		s.requireAuth(s.requireRole(s.handleAdminUpdateRole, accountports.RoleAdmin)))
	s.mux.HandleFunc("PATCH /admin/users/{user_id}/status",
		s.requireAuth(s.requireRole(s.handleAdminUpdateStatus, accountports.RoleAdmin)))

	s.mux.HandleFunc("GET /products", s.handleListProducts)
	s.mux.HandleFunc("GET /products/{product_id}", s.handleGetProduct)
	s.mux.HandleFunc("POST /products",
		s.requireAuth(s.requireRole(s.handleCreateProduct, accountports.RoleManager, accountports.RoleAdmin)))
	s.mux.HandleFunc("PUT /products/{product_id}",
		s.requireAuth(s.requireRole(s.handleUpdateProduct, accountports.RoleManager, accountports.RoleAdmin)))
	s.mux.HandleFunc("DELETE /products/{product_id}",
		s.requireAuth(s.requireRole(s.handleDeleteProduct, accountports.RoleManager, accountports.RoleAdmin)))

	s.mux.HandleFunc("POST /orders",
		s.requireAuth(s.requireRole(s.handlePlaceOrder, accountports.RoleBuyer)))
	s.mux.HandleFunc("GET /orders",
		s.requireAuth(s.requireRole(s.handleListBuyerOrders, accountports.RoleBuyer)))
	s.mux.HandleFunc("GET /orders/all",
		s.requireAuth(s.requireRole(s.handleListAllOrders, accountports.RoleManager, accountports.RoleAdmin)))
	s.mux.HandleFunc("POST /orders/{order_id}/approve",
		s.requireAuth(s.requireRole(s.handleApproveOrder, accountports.RoleManager, accountports.RoleAdmin)))
	s.mux.HandleFunc("POST /orders/{order_id}/reject",
		s.requireAuth(s.requireRole(s.handleRejectOrder, accountports.RoleManager, accountports.RoleAdmin)))
	s.mux.HandleFunc("POST /orders/{order_id}/tracking",
		s.requireAuth(s.requireRole(s.handleAppendTracking, accountports.RoleManager, accountports.RoleAdmin)))
	s.mux.HandleFunc("GET /orders/{order_id}/tracking",
		s.requireAuth(s.handleGetTracking))

	s.mux.HandleFunc("POST /orders/{order_id}/payment-session",
		s.requireAuth(s.requireRole(s.handleCreatePaymentSession, accountports.RoleBuyer)))
	s.mux.HandleFunc("POST /orders/{order_id}/payment-session/resolve",
		s.requireAuth(s.requireRole(s.handleResolvePaymentSession, accountports.RoleBuyer)))

	s.mux.HandleFunc("/", s.handleNotFound)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Code:    "not_found",
		Message: "route not found: " + r.Method + " " + r.URL.Path,
	})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) decodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	target any,
	writeError func(http.ResponseWriter, int, string, string),
) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parsePagination(query url.Values) (int64, int64, bool) {
	var skip, limit int64
	if raw := query.Get("skip"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return 0, 0, false
		}
		skip = value
	}
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return 0, 0, false
		}
		limit = value
	}
	return skip, limit, true
}
