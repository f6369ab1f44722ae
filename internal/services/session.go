package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	appconfig "eventip/internal/config"
	"eventip/internal/models"
)

const (
	// SessionName is the cookie that carries the signed-in identity
	SessionName = "eventip_session"

	identityKey   = "identity"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// NewCookieStore creates the signed cookie store used for sessions
func NewCookieStore(cfg appconfig.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionService keeps the signed-in identity in the session cookie
type SessionService struct {
	store sessions.Store
	users UserRepository
}

// NewSessionService creates a new session service
func NewSessionService(store sessions.Store, users UserRepository) *SessionService {
	return &SessionService{
		store: store,
		users: users,
	}
}

// Current returns the identity stored in the request's session, or nil
func (s *SessionService) Current(r *http.Request) *models.Identity {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// undecodable cookies are treated as signed out
		return nil
	}

	raw, ok := session.Values[identityKey].(string)
	if !ok || raw == "" {
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		log.Printf("Discarding malformed session identity: %v", err)
		return nil
	}
	return &identity
}

// SetUser signs a ticket buyer in
func (s *SessionService) SetUser(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Identity, error) {
	identity := models.IdentityFromUser(user)
	return identity, s.save(w, r, identity)
}

// SetAdmin signs an admin in
func (s *SessionService) SetAdmin(w http.ResponseWriter, r *http.Request, admin *models.Admin) (*models.Identity, error) {
	identity := models.IdentityFromAdmin(admin)
	return identity, s.save(w, r, identity)
}

// Clear signs the current identity out
func (s *SessionService) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, identityKey)
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ResolveUser returns the buyer for this request. A session user whose email
// matches (or no email given) is returned as is. Otherwise the profile is
// looked up by email and stored in the session.
func (s *SessionService) ResolveUser(ctx context.Context, w http.ResponseWriter, r *http.Request, email string) (*models.Identity, error) {
	email = strings.TrimSpace(email)

	if current := s.Current(r); current.IsUser() && (email == "" || current.Email == email) {
		return current, nil
	}

	if email == "" {
		return nil, models.ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return s.SetUser(w, r, user)
}

func (s *SessionService) save(w http.ResponseWriter, r *http.Request, identity *models.Identity) error {
	session, _ := s.store.Get(r, SessionName)

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	session.Values[identityKey] = string(data)

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
