package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/go-chi/chi/v5"
)

type createPaymentRequest struct {
	PurchaseID    int64  `json:"purchase_id"`
	PaymentMethod string `json:"payment_method"`
}

func (h *HTTPTransport) createPayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PurchaseID == 0 || req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")

		return
	}

	pay, err := h.service.CreatePayment(r.Context(), caller, req.PurchaseID, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"payment": pay})
}

func (h *HTTPTransport) getPayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	purchaseID, err := strconv.ParseInt(chi.URLParam(r, "purchase_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Payment not found")

		return
	}

	pay, err := h.service.GetPayment(r.Context(), caller, purchaseID)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"payment": pay})
}
