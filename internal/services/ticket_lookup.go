package services

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eventip/internal/models"
)

// LookupState summarizes the outcome of a ticket search
type LookupState string

const (
	LookupFound         LookupState = "found"
	LookupNoTickets     LookupState = "no_tickets_found"
	LookupUnavailable   LookupState = "unavailable"
	LookupEmailRequired LookupState = "email_required"
)

const (
	MessageEmailRequired = "Please enter an email address to search"
	MessageUnavailable   = "Error fetching your tickets. Please try again."
	MessageNoTickets     = "No tickets found for this email address"
)

// TicketLookupResult holds the tickets found for one search. A fresh value is
// built for every call.
type TicketLookupResult struct {
	Email        string                        `json:"email"`
	State        LookupState                   `json:"state"`
	Message      string                        `json:"message,omitempty"`
	All          []models.TicketView           `json:"all"`
	Paid         []*models.PaidTicket          `json:"paid"`
	Free         []*models.FreeTicket          `json:"free"`
	SourceErrors map[models.TicketSource]error `json:"-"`
}

// FailedSources lists the sources that could not be read
func (r *TicketLookupResult) FailedSources() []models.TicketSource {
	var failed []models.TicketSource
	for _, src := range []models.TicketSource{models.SourcePaid, models.SourceFree} {
		if r.SourceErrors[src] != nil {
			failed = append(failed, src)
		}
	}
	return failed
}

// TicketLookupService aggregates paid and free tickets for an email
type TicketLookupService struct {
	tickets       TicketRepository
	sourceTimeout time.Duration
}

// NewTicketLookupService creates a new ticket lookup service. A zero timeout
// leaves the caller's deadline in charge.
func NewTicketLookupService(tickets TicketRepository, sourceTimeout time.Duration) *TicketLookupService {
	return &TicketLookupService{
		tickets:       tickets,
		sourceTimeout: sourceTimeout,
	}
}

// ResolveEmail picks the search email: an explicit value wins over the session
// buyer. An admin session never supplies an email.
func ResolveEmail(explicit string, identity *models.Identity) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if identity.IsUser() {
		return identity.Email
	}
	return ""
}

// Lookup queries both ticket sources concurrently. A failing source is recorded
// in SourceErrors without discarding the other source's rows.
func (s *TicketLookupService) Lookup(ctx context.Context, email string) (*TicketLookupResult, error) {
	if strings.TrimSpace(email) == "" {
		return &TicketLookupResult{
			State:   LookupEmailRequired,
			Message: MessageEmailRequired,
			All:     []models.TicketView{},
		}, models.ErrEmailRequired
	}

	var (
		paid             []*models.PaidTicket
		free             []*models.FreeTicket
		paidErr, freeErr error
	)

	// Goroutines never return an error so one source failing does not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		qctx, cancel := s.sourceContext(ctx)
		defer cancel()
		paid, paidErr = s.tickets.ListPaidByEmail(qctx, email)
		return nil
	})
	g.Go(func() error {
		qctx, cancel := s.sourceContext(ctx)
		defer cancel()
		free, freeErr = s.tickets.ListFreeByEmail(qctx, email)
		return nil
	})
	_ = g.Wait()

	result := &TicketLookupResult{
		Email:        email,
		All:          []models.TicketView{},
		Paid:         []*models.PaidTicket{},
		Free:         []*models.FreeTicket{},
		SourceErrors: map[models.TicketSource]error{},
	}

	if paidErr != nil {
		log.Printf("Error fetching paid tickets: %v", paidErr)
		result.SourceErrors[models.SourcePaid] = paidErr
	} else if paid != nil {
		result.Paid = paid
	}

	if freeErr != nil {
		log.Printf("Error fetching free tickets: %v", freeErr)
		result.SourceErrors[models.SourceFree] = freeErr
	} else if free != nil {
		result.Free = free
	}

	for _, t := range result.Paid {
		result.All = append(result.All, t.View())
	}
	for _, t := range result.Free {
		result.All = append(result.All, t.View())
	}

	switch {
	case paidErr != nil && freeErr != nil:
		result.State = LookupUnavailable
		result.Message = MessageUnavailable
	case len(result.All) == 0:
		result.State = LookupNoTickets
		result.Message = MessageNoTickets
	default:
		result.State = LookupFound
	}

	return result, nil
}

func (s *TicketLookupService) sourceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.sourceTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.sourceTimeout)
}
