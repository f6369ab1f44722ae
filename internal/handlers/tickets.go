package handlers

import (
	"errors"
	"net/http"

	"eventip/internal/middleware"
	"eventip/internal/models"
	"eventip/internal/services"
)

// TicketsHandler serves the "my tickets" search
type TicketsHandler struct {
	lookup TicketLookup
}

// NewTicketsHandler creates a new tickets handler
func NewTicketsHandler(lookup TicketLookup) *TicketsHandler {
	return &TicketsHandler{lookup: lookup}
}

type ticketSearchRequest struct {
	Email string `json:"email"`
}

// MyTickets handles GET /my-tickets?email= and POST /my-tickets.
// Without an explicit email the signed-in buyer's email is searched.
func (h *TicketsHandler) MyTickets(w http.ResponseWriter, r *http.Request) {
	var explicit string
	switch {
	case r.Method == http.MethodGet:
		explicit = r.URL.Query().Get("email")
	case isJSONRequest(r):
		var req ticketSearchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
		explicit = req.Email
	default:
		explicit = r.FormValue("email")
	}

	email := services.ResolveEmail(explicit, middleware.GetIdentityFromContext(r.Context()))

	result, err := h.lookup.Lookup(r.Context(), email)
	if err != nil {
		if errors.Is(err, models.ErrEmailRequired) && result != nil {
			writeJSONStatus(w, http.StatusBadRequest, result)
			return
		}
		respondError(w, r, err)
		return
	}

	writeJSONStatus(w, http.StatusOK, result)
}
