package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"eventip/internal/models"
)

// RoutingKeyContactReceived is the routing key of ContactReceivedEvent
const RoutingKeyContactReceived = "contact.received"

// ContactReceivedEvent is emitted for every stored contact message
type ContactReceivedEvent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}

// contactAckTimeout bounds one acknowledgement send
const contactAckTimeout = 30 * time.Second

// ContactService stores contact form messages
type ContactService struct {
	messages  ContactRepository
	publisher EventPublisher
	mailer    ContactMailer

	// pending tracks acknowledgement mails still being sent
	pending sync.WaitGroup
}

// NewContactService creates a new contact service. publisher and mailer may be nil.
func NewContactService(messages ContactRepository, publisher EventPublisher, mailer ContactMailer) *ContactService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &ContactService{
		messages:  messages,
		publisher: publisher,
		mailer:    mailer,
	}
}

// Submit validates and stores a message. The acknowledgement mail is sent in
// the background; notification failures are logged and do not fail the submission.
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactStatusUnread,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	log.Printf("Contact message %s received from %s", msg.ID, msg.Email)

	event := ContactReceivedEvent{
		ID:         msg.ID,
		Name:       msg.Name,
		Email:      msg.Email,
		Subject:    msg.Subject,
		ReceivedAt: msg.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, RoutingKeyContactReceived, event); err != nil {
		log.Printf("Failed to publish %s for %s: %v", RoutingKeyContactReceived, msg.ID, err)
	}

	if s.mailer != nil {
		ack := *msg
		s.pending.Add(1)
		go s.acknowledge(context.WithoutCancel(ctx), &ack)
	}

	return msg, nil
}

func (s *ContactService) acknowledge(ctx context.Context, msg *models.ContactMessage) {
	defer s.pending.Done()

	ctx, cancel := context.WithTimeout(ctx, contactAckTimeout)
	defer cancel()

	if err := s.mailer.SendContactAcknowledgement(ctx, msg); err != nil {
		log.Printf("Failed to send contact acknowledgement to %s: %v", msg.Email, err)
	}
}

// Wait blocks until every acknowledgement started by Submit has finished
func (s *ContactService) Wait() {
	s.pending.Wait()
}
