package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"eventip/internal/models"
)

// PrivateTicketRepository reads private event tickets
type PrivateTicketRepository struct {
	db *sql.DB
}

// NewPrivateTicketRepository creates a new private ticket repository
func NewPrivateTicketRepository(db *sql.DB) *PrivateTicketRepository {
	return &PrivateTicketRepository{db: db}
}

// GetByID retrieves a private ticket and decodes its event snapshot
func (r *PrivateTicketRepository) GetByID(ctx context.Context, id string) (*models.PrivateEventTicket, error) {
	if !isUUID(id) {
		return nil, models.ErrTicketNotFound
	}

	query := `
		SELECT id, ticket_code, reference, status, quantity, buyer_name, buyer_email,
			customer_email, is_paid, event_data, created_at
		FROM private_event_tickets
		WHERE id = $1`

	var (
		ticket    models.PrivateEventTicket
		eventData []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.TicketCode,
		&ticket.Reference,
		&ticket.Status,
		&ticket.Quantity,
		&ticket.BuyerName,
		&ticket.BuyerEmail,
		&ticket.CustomerEmail,
		&ticket.IsPaid,
		&eventData,
		&ticket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get private ticket: %w", err)
	}

	if len(eventData) > 0 {
		if err := json.Unmarshal(eventData, &ticket.EventData); err != nil {
			return nil, fmt.Errorf("failed to decode event data: %w", err)
		}
	}

	return &ticket, nil
}
