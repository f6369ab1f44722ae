package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"eventip/internal/models"
)

// TicketRepository reads paid and free tickets by buyer email
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const paidTicketsByEmailQuery = `
	SELECT t.id, t.event_id, t.ticket_tier_id, t.user_id, t.customer_email, t.price_paid::text,
		t.ticket_code, t.ticket_type, t.reference, t.transaction_id, t.status, t.is_used,
		t.checked_in_at, t.checked_in_by, t.purchase_date, t.created_at, t.updated_at,
		e.id, e.name, e.event_date, e.start_time, e.city, e.state, e.address
	FROM tickets t
	LEFT JOIN events e ON e.id = t.event_id
	WHERE t.customer_email = $1
	ORDER BY t.purchase_date DESC`

const freeTicketsByEmailQuery = `
	SELECT id, user_id, event_id, reference, customer_email, customer_name, customer_phone,
		event_title, event_date, event_time, event_location, ticket_type, price_paid::text,
		status, is_used, purchase_date, created_at, updated_at
	FROM free_tickets
	WHERE customer_email = $1
	ORDER BY purchase_date DESC`

// ListPaidByEmail returns the paid tickets whose customer_email equals email exactly,
// newest purchase first, with the joined event summary when the event still exists
func (r *TicketRepository) ListPaidByEmail(ctx context.Context, email string) ([]*models.PaidTicket, error) {
	rows, err := r.db.QueryContext(ctx, paidTicketsByEmailQuery, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*models.PaidTicket{}
	for rows.Next() {
		var (
			t                                        models.PaidTicket
			eventID, tierID, userID, checkedInBy     sql.NullString
			joinedID, name, startTime, city, state   sql.NullString
			address                                  sql.NullString
			checkedInAt, purchased, created, updated sql.NullTime
			eventDate                                sql.NullTime
		)

		err := rows.Scan(
			&t.ID,
			&eventID,
			&tierID,
			&userID,
			&t.CustomerEmail,
			&t.PricePaid,
			&t.TicketCode,
			&t.TicketType,
			&t.Reference,
			&t.TransactionID,
			&t.Status,
			&t.IsUsed,
			&checkedInAt,
			&checkedInBy,
			&purchased,
			&created,
			&updated,
			&joinedID,
			&name,
			&eventDate,
			&startTime,
			&city,
			&state,
			&address,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan paid ticket: %w", err)
		}

		t.EventID = stringOrEmpty(eventID)
		t.TicketTierID = stringOrEmpty(tierID)
		t.UserID = stringOrEmpty(userID)
		t.CheckedInBy = stringOrEmpty(checkedInBy)
		t.CheckedInAt = timePtr(checkedInAt)
		t.PurchaseDate = timePtr(purchased)
		t.CreatedAt = timePtr(created)
		t.UpdatedAt = timePtr(updated)

		if joinedID.Valid {
			t.Event = &models.EventSummary{
				Name:      stringOrEmpty(name),
				EventDate: timePtr(eventDate),
				StartTime: stringOrEmpty(startTime),
				City:      stringOrEmpty(city),
				State:     stringOrEmpty(state),
				Address:   stringOrEmpty(address),
			}
		}

		tickets = append(tickets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate paid tickets: %w", err)
	}

	return tickets, nil
}

// ListFreeByEmail returns the free tickets whose customer_email equals email exactly,
// newest purchase first
func (r *TicketRepository) ListFreeByEmail(ctx context.Context, email string) ([]*models.FreeTicket, error) {
	rows, err := r.db.QueryContext(ctx, freeTicketsByEmailQuery, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query free tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*models.FreeTicket{}
	for rows.Next() {
		var (
			t                                 models.FreeTicket
			userID, eventID                   sql.NullString
			eventDate, purchased, created, up sql.NullTime
		)

		err := rows.Scan(
			&t.ID,
			&userID,
			&eventID,
			&t.Reference,
			&t.CustomerEmail,
			&t.CustomerName,
			&t.CustomerPhone,
			&t.EventTitle,
			&eventDate,
			&t.EventTime,
			&t.EventLocation,
			&t.TicketType,
			&t.PricePaid,
			&t.Status,
			&t.IsUsed,
			&purchased,
			&created,
			&up,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan free ticket: %w", err)
		}

		t.UserID = stringOrEmpty(userID)
		t.EventID = stringOrEmpty(eventID)
		t.EventDate = timePtr(eventDate)
		t.PurchaseDate = timePtr(purchased)
		t.CreatedAt = timePtr(created)
		t.UpdatedAt = timePtr(up)

		tickets = append(tickets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate free tickets: %w", err)
	}

	return tickets, nil
}
