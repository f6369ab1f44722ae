package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	appconfig "eventip/internal/config"
	"eventip/internal/models"
)

const resendAPIURL = "https://api.resend.com/emails"

// ResendEmailService handles email sending via Resend API
type ResendEmailService struct {
	config   appconfig.ResendConfig
	client   *http.Client
	endpoint string
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config appconfig.ResendConfig) *ResendEmailService {
	return &ResendEmailService{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint: resendAPIURL,
	}
}

// ResendEmailRequest represents the request structure for Resend API
type ResendEmailRequest struct {
	From    string      `json:"from"`
	To      []string    `json:"to"`
	Subject string      `json:"subject"`
	HTML    string      `json:"html,omitempty"`
	Text    string      `json:"text,omitempty"`
	ReplyTo string      `json:"reply_to,omitempty"`
	Tags    []ResendTag `json:"tags,omitempty"`
}

// ResendTag represents a tag for email categorization
type ResendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// getFromField constructs the from field properly
func (s *ResendEmailService) getFromField() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

var contactAckHTML = template.Must(template.New("contact_ack").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>We received your message</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <p>Hi {{.Name}},</p>
        <p>Thank you for contacting us. We will review your message and get back to you soon.</p>
        <p><strong>Subject:</strong> {{.Subject}}</p>
        <blockquote style="border-left: 3px solid #F59E0B; padding-left: 12px; color: #555;">{{.Message}}</blockquote>
        <p style="color: #666; font-size: 12px;">Eventip Support</p>
    </div>
</body>
</html>`))

// SendContactAcknowledgement confirms receipt of a contact form message to its sender
func (s *ResendEmailService) SendContactAcknowledgement(ctx context.Context, msg *models.ContactMessage) error {
	var html bytes.Buffer
	if err := contactAckHTML.Execute(&html, msg); err != nil {
		return fmt.Errorf("failed to render contact acknowledgement: %w", err)
	}

	text := fmt.Sprintf(`Hi %s,

Thank you for contacting us. We will review your message and get back to you soon.

Subject: %s

%s

Eventip Support`, msg.Name, msg.Subject, msg.Message)

	return s.sendEmail(ctx, ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{msg.Email},
		Subject: "We received your message: " + msg.Subject,
		HTML:    html.String(),
		Text:    text,
		ReplyTo: s.config.FromEmail,
		Tags: []ResendTag{
			{Name: "category", Value: "contact_ack"},
		},
	})
}

// sendEmail sends an email via Resend API
func (s *ResendEmailService) sendEmail(ctx context.Context, request ResendEmailRequest) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResp ResendErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil || errorResp.Message == "" {
			return fmt.Errorf("failed to send email, status: %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to send email: %s", errorResp.Message)
	}

	var response ResendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
