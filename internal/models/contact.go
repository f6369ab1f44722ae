package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ContactStatusUnread is the initial status of every stored message
const ContactStatusUnread = "unread"

// ContactSuccessMessage is shown after a message is stored
const ContactSuccessMessage = "Thank you for contacting us. We will review your message and get back to you soon. Please check your email for further communications."

// ContactMessage represents a row of the contact_messages table
type ContactMessage struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactRequest is the contact form submission
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate trims the fields and checks that all are present
func (req *ContactRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return fmt.Errorf("%w: please fill in all required fields", ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: please enter a valid email address", ErrInvalidInput)
	}

	return nil
}
