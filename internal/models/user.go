package models

import (
	"strings"
	"time"
)

// User is the read-only profile of a ticket buyer
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FullName returns the user's full name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Admin is a back-office account allowed to manage news
type Admin struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// FullName returns "first last", used as the default news author
func (a *Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IdentityKind tells a buyer session from an admin session
type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityAdmin IdentityKind = "admin"
)

// Identity is the signed-in principal persisted in the session cookie
type Identity struct {
	Kind      IdentityKind `json:"kind"`
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
}

// IsAdmin reports whether the identity belongs to an admin
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Kind == IdentityAdmin
}

// IsUser reports whether the identity belongs to a ticket buyer
func (i *Identity) IsUser() bool {
	return i != nil && i.Kind == IdentityUser
}

// FullName returns the identity's display name
func (i *Identity) FullName() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// IdentityFromUser builds a session identity for a buyer
func IdentityFromUser(u *User) *Identity {
	return &Identity{
		Kind:      IdentityUser,
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// IdentityFromAdmin builds a session identity for an admin
func IdentityFromAdmin(a *Admin) *Identity {
	return &Identity{
		Kind:      IdentityAdmin,
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// AdminLoginRequest is the admin sign-in form
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
