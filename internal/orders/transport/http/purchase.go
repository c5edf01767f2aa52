package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/service/models/purchase"
	"github.com/go-chi/chi/v5"
)

type createPurchaseRequest struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

func (h *HTTPTransport) createPurchase(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookID == 0 || req.Quantity == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")

		return
	}

	p, b, err := h.service.CreatePurchase(r.Context(), caller, req.BookID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"purchase": p,
		"book":     b,
	})
}

func (h *HTTPTransport) listPurchases(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	purchases, err := h.service.ListPurchases(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err)

		return
	}
	if purchases == nil {
		purchases = []purchase.Purchase{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"purchases": purchases,
		"total":     len(purchases),
	})
}

func (h *HTTPTransport) getPurchase(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Purchase not found")

		return
	}

	p, err := h.service.GetPurchase(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"purchase": p})
}
