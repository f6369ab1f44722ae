package models

import (
	"math"
	"sort"
	"strconv"
	"time"
)

const (
	PlaceholderEventImage = "/placeholder-event.jpg"

	untitledEvent          = "Untitled Event"
	dateTBA                = "Date TBA"
	timeTBA                = "Time TBA"
	soldOutLabel           = "No available ticket for this event"
	cardDateLayout         = "Monday, January 2"
	defaultMultipleBuysMin = 2
)

// Event represents a row of the events table with its related images and tiers
type Event struct {
	ID                     string       `json:"id" db:"id"`
	Name                   string       `json:"name" db:"name"`
	Description            string       `json:"description" db:"description"`
	EventDate              *time.Time   `json:"event_date,omitempty" db:"event_date"`
	StartTime              string       `json:"start_time" db:"start_time"`
	City                   string       `json:"city" db:"city"`
	State                  string       `json:"state" db:"state"`
	Address                string       `json:"address" db:"address"`
	HasEarlyBird           bool         `json:"has_early_bird" db:"has_early_bird"`
	EarlyBirdDiscount      float64      `json:"early_bird_discount" db:"early_bird_discount"`
	EarlyBirdStartDate     *time.Time   `json:"early_bird_start_date,omitempty" db:"early_bird_start_date"`
	EarlyBirdEndDate       *time.Time   `json:"early_bird_end_date,omitempty" db:"early_bird_end_date"`
	HasMultipleBuys        bool         `json:"has_multiple_buys" db:"has_multiple_buys"`
	MultipleBuysDiscount   float64      `json:"multiple_buys_discount" db:"multiple_buys_discount"`
	MultipleBuysMinTickets int          `json:"multiple_buys_min_tickets" db:"multiple_buys_min_tickets"`
	CreatedAt              *time.Time   `json:"created_at,omitempty" db:"created_at"`
	Images                 []EventImage `json:"images"`
	Tiers                  []TicketTier `json:"ticket_tiers"`
}

// EventImage represents a row of the event_images table
type EventImage struct {
	ID       string `json:"id" db:"id"`
	EventID  string `json:"event_id" db:"event_id"`
	ImageURL string `json:"image_url" db:"image_url"`
	IsCover  bool   `json:"is_cover" db:"is_cover"`
}

// TicketTier represents a row of the ticket_tiers table
type TicketTier struct {
	ID               string  `json:"id" db:"id"`
	EventID          string  `json:"event_id" db:"event_id"`
	Name             string  `json:"name" db:"name"`
	Description      string  `json:"description" db:"description"`
	Price            float64 `json:"price" db:"price"`
	Quantity         int     `json:"quantity" db:"quantity"`
	QuantitySold     int     `json:"quantity_sold" db:"quantity_sold"`
	PaidQuantitySold int     `json:"paid_quantity_sold" db:"paid_quantity_sold"`
	IsPremium        bool    `json:"is_premium" db:"is_premium"`
}

// AvailableQuantity returns the tickets left for purchase in this tier
func (t TicketTier) AvailableQuantity() int {
	return t.Quantity - t.PaidQuantitySold
}

// EventCard is the derived catalog entry for one event
type EventCard struct {
	ID                     string       `json:"id"`
	Title                  string       `json:"title"`
	Image                  string       `json:"image"`
	EventDate              *time.Time   `json:"event_date,omitempty"`
	Date                   string       `json:"date"`
	Time                   string       `json:"time"`
	Location               string       `json:"location"`
	Address                string       `json:"address"`
	Description            string       `json:"description"`
	LowestPrice            float64      `json:"lowest_price"`
	Price                  string       `json:"price"`
	AvailableTickets       int          `json:"available_tickets"`
	TicketCount            string       `json:"ticket_count"`
	IsSoldOut              bool         `json:"is_sold_out"`
	HasEarlyBird           bool         `json:"has_early_bird"`
	EarlyBirdDiscount      float64      `json:"early_bird_discount"`
	EarlyBirdStartDate     *time.Time   `json:"early_bird_start_date,omitempty"`
	EarlyBirdEndDate       *time.Time   `json:"early_bird_end_date,omitempty"`
	HasMultipleBuys        bool         `json:"has_multiple_buys"`
	MultipleBuysDiscount   float64      `json:"multiple_buys_discount"`
	MultipleBuysMinTickets int          `json:"multiple_buys_min_tickets"`
	HasDiscounts           bool         `json:"has_discounts"`
	DiscountAmount         float64      `json:"discount_amount"`
	TicketTiers            []TicketTier `json:"ticket_tiers"`
}

// Catalog groups the home screen sections
type Catalog struct {
	Featured []EventCard `json:"featured"`
	Trending []EventCard `json:"trending"`
	Upcoming []EventCard `json:"upcoming"`
}

// CoverImage returns the first cover image URL or the placeholder
func (e *Event) CoverImage() string {
	for _, img := range e.Images {
		if img.IsCover && img.ImageURL != "" {
			return img.ImageURL
		}
	}
	return PlaceholderEventImage
}

// LowestPrice returns the smallest positive tier price, or zero for free events
func (e *Event) LowestPrice() float64 {
	lowest := 0.0
	for _, tier := range e.Tiers {
		if tier.Price > 0 && (lowest == 0 || tier.Price < lowest) {
			lowest = tier.Price
		}
	}
	return lowest
}

// Availability sums the remaining tickets across the tiers that match the event's
// pricing. Paid events count paid tiers against paid_quantity_sold, free events
// count free tiers against quantity_sold.
func (e *Event) Availability() (remaining int, soldOut bool) {
	if len(e.Tiers) == 0 {
		return 0, false
	}

	paid := e.LowestPrice() > 0
	soldOut = true
	for _, tier := range e.Tiers {
		var sold int
		switch {
		case paid && tier.Price > 0:
			sold = tier.PaidQuantitySold
		case !paid && tier.Price == 0:
			sold = tier.QuantitySold
		default:
			continue
		}

		remaining += tier.Quantity - sold
		if tier.Quantity > sold {
			soldOut = false
		}
	}
	return remaining, soldOut
}

// Location formats the event location, skipping empty parts
func (e *Event) Location() string {
	return JoinNonEmpty(", ", e.Address, e.City, e.State)
}

// MinTicketsForMultipleBuys returns the multiple-buys threshold, defaulting to 2
func (e *Event) MinTicketsForMultipleBuys() int {
	if e.MultipleBuysMinTickets <= 0 {
		return defaultMultipleBuysMin
	}
	return e.MultipleBuysMinTickets
}

// Discount returns the percentage discount for buying quantity tickets at now.
// When both discounts apply the larger one wins.
func (e *Event) Discount(quantity int, now time.Time) float64 {
	discount := 0.0

	if e.HasEarlyBird && e.inEarlyBirdWindow(now) {
		discount = e.EarlyBirdDiscount
	}

	if e.HasMultipleBuys && quantity >= e.MinTicketsForMultipleBuys() {
		discount = math.Max(discount, e.MultipleBuysDiscount)
	}

	return discount
}

func (e *Event) inEarlyBirdWindow(now time.Time) bool {
	if e.EarlyBirdStartDate != nil && now.Before(*e.EarlyBirdStartDate) {
		return false
	}
	if e.EarlyBirdEndDate != nil && now.After(*e.EarlyBirdEndDate) {
		return false
	}
	return true
}

// Card derives the catalog entry for the event
func (e *Event) Card() EventCard {
	lowest := e.LowestPrice()
	remaining, soldOut := e.Availability()

	card := EventCard{
		ID:                     e.ID,
		Title:                  e.Name,
		Image:                  e.CoverImage(),
		EventDate:              e.EventDate,
		Date:                   dateTBA,
		Time:                   e.StartTime,
		Location:               e.Location(),
		Address:                e.Address,
		Description:            e.Description,
		LowestPrice:            lowest,
		Price:                  PriceLabel(lowest),
		AvailableTickets:       remaining,
		TicketCount:            strconv.Itoa(remaining),
		IsSoldOut:              soldOut,
		HasEarlyBird:           e.HasEarlyBird,
		EarlyBirdDiscount:      e.EarlyBirdDiscount,
		EarlyBirdStartDate:     e.EarlyBirdStartDate,
		EarlyBirdEndDate:       e.EarlyBirdEndDate,
		HasMultipleBuys:        e.HasMultipleBuys,
		MultipleBuysDiscount:   e.MultipleBuysDiscount,
		MultipleBuysMinTickets: e.MinTicketsForMultipleBuys(),
		HasDiscounts:           e.HasEarlyBird || e.HasMultipleBuys,
		DiscountAmount:         math.Max(e.EarlyBirdDiscount, e.MultipleBuysDiscount),
		TicketTiers:            e.Tiers,
	}

	if card.Title == "" {
		card.Title = untitledEvent
	}
	if e.EventDate != nil && !e.EventDate.IsZero() {
		card.Date = e.EventDate.Format(cardDateLayout)
	}
	if card.Time == "" {
		card.Time = timeTBA
	}
	if soldOut {
		card.TicketCount = soldOutLabel
	}
	if card.TicketTiers == nil {
		card.TicketTiers = []TicketTier{}
	}

	return card
}

// SortCardsByDate orders cards newest event first. Undated cards go last.
func SortCardsByDate(cards []EventCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].EventDate, cards[j].EventDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

// BuildCatalog derives and groups the home screen sections
func BuildCatalog(events []*Event) *Catalog {
	cards := make([]EventCard, 0, len(events))
	for _, e := range events {
		cards = append(cards, e.Card())
	}
	SortCardsByDate(cards)

	return &Catalog{
		Featured: headOf(cards, 3),
		Trending: headOf(cards, 2),
		Upcoming: cards,
	}
}

func headOf(cards []EventCard, n int) []EventCard {
	if len(cards) < n {
		n = len(cards)
	}
	out := make([]EventCard, n)
	copy(out, cards[:n])
	return out
}

// TierOption is a ticket tier as offered in the purchase dialog
type TierOption struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	PriceLabel        string  `json:"price_label"`
	Quantity          int     `json:"quantity"`
	AvailableQuantity int     `json:"available_quantity"`
	SoldOut           bool    `json:"sold_out"`
	IsPremium         bool    `json:"is_premium"`
}

// TierOptions returns the purchasable view of every tier
func (e *Event) TierOptions() []TierOption {
	options := make([]TierOption, 0, len(e.Tiers))
	for _, tier := range e.Tiers {
		available := tier.AvailableQuantity()
		options = append(options, TierOption{
			ID:                tier.ID,
			Name:              tier.Name,
			Description:       tier.Description,
			Price:             tier.Price,
			PriceLabel:        PriceLabel(tier.Price),
			Quantity:          tier.Quantity,
			AvailableQuantity: available,
			SoldOut:           available <= 0,
			IsPremium:         tier.IsPremium,
		})
	}
	return options
}
