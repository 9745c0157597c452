package httpserver

import (
	"errors"
	"net/http"

	catalogerrors "threadmart/contexts/commerce-core/catalog-service/domain/errors"
	catalogports "threadmart/contexts/commerce-core/catalog-service/ports"
	cataloghttp "threadmart/contexts/commerce-core/catalog-service/transport/http"
	accountports "threadmart/contexts/identity-access/account-service/ports"
)

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{Code: code, Message: message})
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		writeCatalogError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrNotProductOwner):
		writeCatalogError(w, http.StatusForbidden, "not_product_owner", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidRequest):
		writeCatalogError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, limit, ok := parsePagination(query)
	if !ok {
		writeCatalogError(w, http.StatusBadRequest, "invalid_pagination", "skip and limit must be non-negative integers")
		return
	}
	resp, err := s.catalog.Handler.ListProductsHandler(r.Context(), catalogports.ProductFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetProductHandler(r.Context(), r.PathValue("product_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeCatalogError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	var req cataloghttp.ProductRequest
	if !s.decodeJSON(w, r, &req, writeCatalogError) {
		return
	}
	resp, err := s.catalog.Handler.CreateProductHandler(r.Context(), identity.Email, req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeCatalogError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	var req cataloghttp.ProductRequest
	if !s.decodeJSON(w, r, &req, writeCatalogError) {
		return
	}
	resp, err := s.catalog.Handler.UpdateProductHandler(
		r.Context(),
		r.PathValue("product_id"),
		identity.Email,
		identity.Role == accountports.RoleAdmin,
		req,
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeCatalogError(w, http.StatusForbidden, "forbidden", "resolved identity is required")
		return
	}
	resp, err := s.catalog.Handler.DeleteProductHandler(
		r.Context(),
		r.PathValue("product_id"),
		identity.Email,
		identity.Role == accountports.RoleAdmin,
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
