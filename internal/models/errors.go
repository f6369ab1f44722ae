package models

import "errors"

// Common errors used throughout the application
var (
	ErrEmailRequired      = errors.New("email address is required")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrNewsPostNotFound   = errors.New("news post not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized access")
)
