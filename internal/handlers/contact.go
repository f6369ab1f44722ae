package handlers

import (
	"net/http"

	"eventip/internal/models"
)

// ContactHandler accepts contact form messages
type ContactHandler struct {
	contact ContactSubmitter
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contact ContactSubmitter) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if isJSONRequest(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	} else {
		req = models.ContactRequest{
			Name:    r.FormValue("name"),
			Email:   r.FormValue("email"),
			Subject: r.FormValue("subject"),
			Message: r.FormValue("message"),
		}
	}

	if _, err := h.contact.Submit(r.Context(), req); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, MessageResponse{Message: models.ContactSuccessMessage})
}
