package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eventip/internal/middleware"
	"eventip/internal/models"
)

// CatalogHandler serves the home screen and the event dialogs
type CatalogHandler struct {
	catalog CatalogReader
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Home handles GET / and GET /events
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Home(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, catalog)
}

// Preview handles GET /events/{id}
func (h *CatalogHandler) Preview(w http.ResponseWriter, r *http.Request) {
	card, err := h.catalog.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, card)
}

// PurchaseOptions handles GET /events/{id}/purchase
func (h *CatalogHandler) PurchaseOptions(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())

	opts, err := h.catalog.PurchaseOptions(r.Context(), chi.URLParam(r, "id"), identity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, opts)
}

// DiscountResponse is the discount for a given quantity
type DiscountResponse struct {
	EventID  string  `json:"event_id"`
	Quantity int     `json:"quantity"`
	Discount float64 `json:"discount"`
}

// Discount handles GET /events/{id}/discount?quantity=
func (h *CatalogHandler) Discount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	quantity := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: quantity must be a number", models.ErrInvalidInput))
			return
		}
		quantity = n
	}

	discount, err := h.catalog.Discount(r.Context(), id, quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSONStatus(w, http.StatusOK, DiscountResponse{
		EventID:  id,
		Quantity: quantity,
		Discount: discount,
	})
}
