package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/service/models/provider"
	"github.com/go-chi/chi/v5"
)

func (h *HTTPTransport) listProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.ListProviders(r.Context())
	if err != nil {
		writeServiceError(w, err)

		return
	}
	if providers == nil {
		providers = []provider.DeliveryProvider{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"providers": providers})
}

type createDeliveryRequest struct {
	PurchaseID int64  `json:"purchase_id"`
	ProviderID int64  `json:"provider_id"`
	Address    string `json:"address"`
}

func (h *HTTPTransport) createDelivery(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	var req createDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PurchaseID == 0 || req.ProviderID == 0 || req.Address == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")

		return
	}

	d, err := h.service.CreateDelivery(r.Context(), caller, req.PurchaseID, req.ProviderID, req.Address)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"delivery": d})
}

func (h *HTTPTransport) getDelivery(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	purchaseID, err := strconv.ParseInt(chi.URLParam(r, "purchase_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Delivery not found")

		return
	}

	d, err := h.service.GetDelivery(r.Context(), caller, purchaseID)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"delivery": d})
}
