package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eventip/internal/services"
)

// PrivateTicketHandler serves the private event ticket viewer
type PrivateTicketHandler struct {
	tickets PrivateTicketReader
}

// NewPrivateTicketHandler creates a new private ticket handler
func NewPrivateTicketHandler(tickets PrivateTicketReader) *PrivateTicketHandler {
	return &PrivateTicketHandler{tickets: tickets}
}

// View handles GET /private-tickets?id= and GET /private-tickets/{id}
func (h *PrivateTicketHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.tickets.View(r.Context(), ticketID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, view)
}

// DownloadQR handles GET /private-tickets/{id}/qr?format=png|jpeg
func (h *PrivateTicketHandler) DownloadQR(w http.ResponseWriter, r *http.Request) {
	format, err := services.ParseQRFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	img, err := h.tickets.QRImage(r.Context(), ticketID(r), format)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", img.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

// ticketID prefers the path parameter over ?id=
func ticketID(r *http.Request) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}
