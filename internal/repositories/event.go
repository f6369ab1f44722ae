package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventip/internal/models"
)

// EventRepository handles event catalog reads
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `
	id, name, description, event_date, start_time, city, state, address,
	has_early_bird, early_bird_discount, early_bird_start_date, early_bird_end_date,
	has_multiple_buys, multiple_buys_discount, multiple_buys_min_tickets, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e                                    models.Event
		eventDate, ebStart, ebEnd, createdAt  sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&eventDate,
		&e.StartTime,
		&e.City,
		&e.State,
		&e.Address,
		&e.HasEarlyBird,
		&e.EarlyBirdDiscount,
		&ebStart,
		&ebEnd,
		&e.HasMultipleBuys,
		&e.MultipleBuysDiscount,
		&e.MultipleBuysMinTickets,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	e.EventDate = timePtr(eventDate)
	e.EarlyBirdStartDate = timePtr(ebStart)
	e.EarlyBirdEndDate = timePtr(ebEnd)
	e.CreatedAt = timePtr(createdAt)
	return &e, nil
}

// ListWithDetails returns all events with their images and ticket tiers loaded
func (r *EventRepository) ListWithDetails(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date DESC NULLS LAST, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	if err := r.attachDetails(ctx, events); err != nil {
		return nil, err
	}

	return events, nil
}

// GetWithDetails returns one event with its images and ticket tiers
func (r *EventRepository) GetWithDetails(ctx context.Context, id string) (*models.Event, error) {
	if !isUUID(id) {
		return nil, models.ErrEventNotFound
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := r.attachDetails(ctx, []*models.Event{e}); err != nil {
		return nil, err
	}

	return e, nil
}

// attachDetails loads images and tiers for all events with one query each
func (r *EventRepository) attachDetails(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]string, len(events))
	byID := make(map[string]*models.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		byID[e.ID] = e
		e.Images = []models.EventImage{}
		e.Tiers = []models.TicketTier{}
	}

	images, err := r.imagesFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, img := range images {
		if e, ok := byID[img.EventID]; ok {
			e.Images = append(e.Images, img)
		}
	}

	tiers, err := r.tiersFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, tier := range tiers {
		if e, ok := byID[tier.EventID]; ok {
			e.Tiers = append(e.Tiers, tier)
		}
	}

	return nil
}

func (r *EventRepository) imagesFor(ctx context.Context, eventIDs []string) ([]models.EventImage, error) {
	query := `
		SELECT id, event_id, image_url, is_cover
		FROM event_images
		WHERE event_id = ANY($1::uuid[])
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load event images: %w", err)
	}
	defer rows.Close()

	var images []models.EventImage
	for rows.Next() {
		var img models.EventImage
		if err := rows.Scan(&img.ID, &img.EventID, &img.ImageURL, &img.IsCover); err != nil {
			return nil, fmt.Errorf("failed to scan event image: %w", err)
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

func (r *EventRepository) tiersFor(ctx context.Context, eventIDs []string) ([]models.TicketTier, error) {
	query := `
		SELECT id, event_id, name, description, price, quantity, quantity_sold, paid_quantity_sold, is_premium
		FROM ticket_tiers
		WHERE event_id = ANY($1::uuid[])
		ORDER BY price ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket tiers: %w", err)
	}
	defer rows.Close()

	var tiers []models.TicketTier
	for rows.Next() {
		var t models.TicketTier
		err := rows.Scan(
			&t.ID,
			&t.EventID,
			&t.Name,
			&t.Description,
			&t.Price,
			&t.Quantity,
			&t.QuantitySold,
			&t.PaidQuantitySold,
			&t.IsPremium,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket tier: %w", err)
		}
		tiers = append(tiers, t)
	}

	return tiers, rows.Err()
}
