package handlers

import (
	"log"
	"net/http"

	"eventip/internal/models"
)

// AuthHandler signs buyers and admins in and out
type AuthHandler struct {
	sessions SessionManager
	admins   AdminAuthenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionManager, admins AdminAuthenticator) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		admins:   admins,
	}
}

type sessionRequest struct {
	Email string `json:"email"`
}

// StartSession handles POST /session. The buyer profile is looked up by email
// and kept in the session.
func (h *AuthHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if isJSONRequest(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	} else {
		req.Email = r.FormValue("email")
	}

	identity, err := h.sessions.ResolveUser(r.Context(), w, r, req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, identity)
}

// EndSession handles DELETE /session
func (h *AuthHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.signOut(w, r)
}

// AdminLogin handles POST /admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if isJSONRequest(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	} else {
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}

	admin, err := h.admins.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	identity, err := h.sessions.SetAdmin(w, r, admin)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, identity)
}

// AdminLogout handles POST /admin/logout
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.signOut(w, r)
}

func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("Failed to clear session: %v", err)
		writeError(w, http.StatusInternalServerError, genericErrMessage)
		return
	}
	writeJSONStatus(w, http.StatusOK, MessageResponse{Message: "Signed out"})
}
