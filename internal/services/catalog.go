package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"eventip/internal/models"
)

// PurchaseOptions is the purchase dialog state for one event
type PurchaseOptions struct {
	EventID            string              `json:"event_id"`
	RequiresLogin      bool                `json:"requires_login"`
	Tiers              []models.TierOption `json:"tiers,omitempty"`
	HasEarlyBird       bool                `json:"has_early_bird"`
	EarlyBirdDiscount  float64             `json:"early_bird_discount"`
	EarlyBirdStartDate string              `json:"early_bird_start_date,omitempty"`
	EarlyBirdEndDate   string              `json:"early_bird_end_date,omitempty"`
	HasMultipleBuys    bool                `json:"has_multiple_buys"`
	MultipleBuysMin    int                 `json:"multiple_buys_min_tickets"`
	MultipleBuysOff    float64             `json:"multiple_buys_discount"`
	CurrentDiscount    float64             `json:"current_discount"`
}

// CatalogService builds the home screen catalog
type CatalogService struct {
	events EventRepository
	cache  CatalogCache
	now    func() time.Time
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(events EventRepository, cache CatalogCache) *CatalogService {
	return &CatalogService{
		events: events,
		cache:  cache,
		now:    time.Now,
	}
}

// Home returns the featured, trending and upcoming sections
func (s *CatalogService) Home(ctx context.Context) (*models.Catalog, error) {
	if s.cache != nil {
		catalog, err := s.cache.GetCatalog(ctx)
		if err != nil {
			log.Printf("Catalog cache read failed: %v", err)
		} else if catalog != nil {
			return catalog, nil
		}
	}

	events, err := s.events.ListWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	catalog := models.BuildCatalog(events)

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, catalog); err != nil {
			log.Printf("Catalog cache write failed: %v", err)
		}
	}

	return catalog, nil
}

// Preview returns the card of a single event
func (s *CatalogService) Preview(ctx context.Context, id string) (*models.EventCard, error) {
	event, err := s.events.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	card := event.Card()
	return &card, nil
}

// PurchaseOptions returns the purchasable tiers for an event. Buyers must be
// signed in before tiers are offered.
func (s *CatalogService) PurchaseOptions(ctx context.Context, id string, identity *models.Identity) (*PurchaseOptions, error) {
	event, err := s.events.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.IsUser() {
		return &PurchaseOptions{EventID: event.ID, RequiresLogin: true}, nil
	}

	opts := &PurchaseOptions{
		EventID:           event.ID,
		Tiers:             event.TierOptions(),
		HasEarlyBird:      event.HasEarlyBird,
		EarlyBirdDiscount: event.EarlyBirdDiscount,
		HasMultipleBuys:   event.HasMultipleBuys,
		MultipleBuysMin:   event.MinTicketsForMultipleBuys(),
		MultipleBuysOff:   event.MultipleBuysDiscount,
		CurrentDiscount:   event.Discount(1, s.now()),
	}
	if event.EarlyBirdStartDate != nil {
		opts.EarlyBirdStartDate = event.EarlyBirdStartDate.Format(time.RFC3339)
	}
	if event.EarlyBirdEndDate != nil {
		opts.EarlyBirdEndDate = event.EarlyBirdEndDate.Format(time.RFC3339)
	}

	return opts, nil
}

// Discount returns the discount percentage for buying quantity tickets of an event now
func (s *CatalogService) Discount(ctx context.Context, id string, quantity int) (float64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("%w: quantity must be at least 1", models.ErrInvalidInput)
	}

	event, err := s.events.GetWithDetails(ctx, id)
	if err != nil {
		return 0, err
	}

	return event.Discount(quantity, s.now()), nil
}
