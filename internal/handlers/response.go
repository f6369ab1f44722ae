package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"eventip/internal/models"
	"eventip/internal/services"
)

const (
	maxJSONBody       = 1 << 20
	genericErrMessage = "Something went wrong. Please try again."
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a request that has no other payload
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSONStatus writes a JSON response with a status code
func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSONStatus(w, status, ErrorResponse{Error: message})
}

// respondError maps a service error to its status. Unexpected errors are logged
// and answered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeError(w, status, message)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrEmailRequired):
		return http.StatusBadRequest, services.MessageEmailRequired
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, inputMessage(err)
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, models.ErrTicketNotFound):
		return http.StatusNotFound, "Ticket not found or has been removed"
	case errors.Is(err, models.ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, models.ErrNewsPostNotFound):
		return http.StatusNotFound, "Article not found"
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, "No account found for this email address"
	case errors.Is(err, models.ErrAdminNotFound):
		return http.StatusNotFound, "Admin not found"
	default:
		return http.StatusInternalServerError, genericErrMessage
	}
}

// inputMessage turns "invalid input: title is required" into "Title is required"
func inputMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, models.ErrInvalidInput.Error()+": "); i >= 0 {
		msg = msg[i+len(models.ErrInvalidInput.Error())+2:]
	}
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return "Invalid input"
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// isJSONRequest reports whether the body is JSON rather than form data
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrInvalidInput)
	}
	return nil
}
