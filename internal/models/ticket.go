package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TicketSource identifies the table a ticket was read from
type TicketSource string

const (
	SourcePaid TicketSource = "paid"
	SourceFree TicketSource = "free"
)

// TicketStatus represents the status of a ticket
type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketActive    TicketStatus = "active"
	TicketCompleted TicketStatus = "completed"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

const (
	unknownEventTitle  = "Unknown Event"
	dateNotAvailable   = "Date not available"
	ticketDateLayout   = "Monday, January 2, 2006"
	placeholderIDChars = 8
)

// EventSummary is the subset of event columns joined onto a paid ticket
type EventSummary struct {
	Name      string     `json:"name"`
	EventDate *time.Time `json:"event_date,omitempty"`
	StartTime string     `json:"start_time"`
	City      string     `json:"city"`
	State     string     `json:"state"`
	Address   string     `json:"address"`
}

// Location formats the event location as "address, city, state", skipping empty parts
func (e *EventSummary) Location() string {
	if e == nil {
		return ""
	}
	return JoinNonEmpty(", ", e.Address, e.City, e.State)
}

// PaidTicket represents a row of the tickets table
type PaidTicket struct {
	ID            string        `json:"id" db:"id"`
	EventID       string        `json:"event_id" db:"event_id"`
	TicketTierID  string        `json:"ticket_tier_id" db:"ticket_tier_id"`
	UserID        string        `json:"user_id" db:"user_id"`
	CustomerEmail string        `json:"customer_email" db:"customer_email"`
	PricePaid     string        `json:"price_paid" db:"price_paid"`
	TicketCode    string        `json:"ticket_code" db:"ticket_code"`
	TicketType    string        `json:"ticket_type" db:"ticket_type"`
	Reference     string        `json:"reference" db:"reference"`
	TransactionID string        `json:"transaction_id" db:"transaction_id"`
	Status        TicketStatus  `json:"status" db:"status"`
	IsUsed        bool          `json:"is_used" db:"is_used"`
	CheckedInAt   *time.Time    `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CheckedInBy   string        `json:"checked_in_by,omitempty" db:"checked_in_by"`
	PurchaseDate  *time.Time    `json:"purchase_date,omitempty" db:"purchase_date"`
	CreatedAt     *time.Time    `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty" db:"updated_at"`
	Event         *EventSummary `json:"event,omitempty"`
}

// FreeTicket represents a row of the free_tickets table. Event details are denormalized.
type FreeTicket struct {
	ID            string       `json:"id" db:"id"`
	UserID        string       `json:"user_id" db:"user_id"`
	EventID       string       `json:"event_id" db:"event_id"`
	Reference     string       `json:"reference" db:"reference"`
	CustomerEmail string       `json:"customer_email" db:"customer_email"`
	CustomerName  string       `json:"customer_name" db:"customer_name"`
	CustomerPhone string       `json:"customer_phone" db:"customer_phone"`
	EventTitle    string       `json:"event_title" db:"event_title"`
	EventDate     *time.Time   `json:"event_date,omitempty" db:"event_date"`
	EventTime     string       `json:"event_time" db:"event_time"`
	EventLocation string       `json:"event_location" db:"event_location"`
	TicketType    string       `json:"ticket_type" db:"ticket_type"`
	PricePaid     string       `json:"price_paid" db:"price_paid"`
	Status        TicketStatus `json:"status" db:"status"`
	IsUsed        bool         `json:"is_used" db:"is_used"`
	PurchaseDate  *time.Time   `json:"purchase_date,omitempty" db:"purchase_date"`
	CreatedAt     *time.Time   `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
}

// TicketView is the source-independent record shown in the ticket list
type TicketView struct {
	Source        TicketSource `json:"source"`
	ID            string       `json:"id"`
	EventID       string       `json:"event_id"`
	Title         string       `json:"title"`
	EventDate     *time.Time   `json:"event_date,omitempty"`
	DateLabel     string       `json:"date_label"`
	EventTime     string       `json:"event_time"`
	Location      string       `json:"location"`
	Email         string       `json:"email"`
	Name          string       `json:"name,omitempty"`
	TicketType    string       `json:"ticket_type"`
	PriceLabel    string       `json:"price_label"`
	TicketCode    string       `json:"ticket_code,omitempty"`
	Reference     string       `json:"reference"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Status        TicketStatus `json:"status"`
	IsUsed        bool         `json:"is_used"`
	PurchasedAt   *time.Time   `json:"purchased_at,omitempty"`
}

// View converts a paid ticket into its display form using the joined event
func (t *PaidTicket) View() TicketView {
	view := TicketView{
		Source:        SourcePaid,
		ID:            t.ID,
		EventID:       t.EventID,
		Title:         unknownEventTitle,
		Email:         t.CustomerEmail,
		TicketType:    t.TicketType,
		PriceLabel:    PriceLabel(ParsePrice(t.PricePaid)),
		TicketCode:    t.TicketCode,
		Reference:     t.Reference,
		TransactionID: t.TransactionID,
		Status:        t.Status,
		IsUsed:        t.IsUsed,
		PurchasedAt:   firstTime(t.PurchaseDate, t.CreatedAt),
	}

	if t.Event != nil {
		if strings.TrimSpace(t.Event.Name) != "" {
			view.Title = t.Event.Name
		}
		view.EventDate = t.Event.EventDate
		view.EventTime = t.Event.StartTime
		view.Location = t.Event.Location()
	}

	view.DateLabel = FormatTicketDate(firstTime(view.EventDate, t.PurchaseDate, t.CreatedAt))
	return view
}

// View converts a free ticket into its display form
func (t *FreeTicket) View() TicketView {
	view := TicketView{
		Source:      SourceFree,
		ID:          t.ID,
		EventID:     t.EventID,
		Title:       t.EventTitle,
		EventDate:   t.EventDate,
		EventTime:   t.EventTime,
		Location:    t.EventLocation,
		Email:       t.CustomerEmail,
		Name:        t.CustomerName,
		TicketType:  t.TicketType,
		PriceLabel:  PriceLabel(ParsePrice(t.PricePaid)),
		Reference:   t.Reference,
		Status:      t.Status,
		IsUsed:      t.IsUsed,
		PurchasedAt: firstTime(t.PurchaseDate, t.CreatedAt),
	}

	if strings.TrimSpace(view.Title) == "" {
		view.Title = PlaceholderTitle(t.EventID)
	}

	view.DateLabel = FormatTicketDate(firstTime(t.EventDate, t.PurchaseDate, t.CreatedAt))
	return view
}

// ParsePrice parses a numeric price column. Unparseable values, NaN and
// infinities count as zero.
func ParsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}

// PriceLabel renders a price as "₦1,500", or "Free" unless it is a positive finite amount
func PriceLabel(price float64) string {
	if !(price > 0) || math.IsInf(price, 1) {
		return "Free"
	}
	if price == float64(int64(price)) {
		return "₦" + humanize.Comma(int64(price))
	}
	return "₦" + humanize.CommafWithDigits(price, 2)
}

// PlaceholderTitle builds the fallback title for a ticket without an event name
func PlaceholderTitle(eventID string) string {
	prefix := eventID
	if len(prefix) > placeholderIDChars {
		prefix = prefix[:placeholderIDChars]
	}
	return "Event ID: " + prefix + "..."
}

// FormatTicketDate formats a ticket date as "Monday, January 2, 2006"
func FormatTicketDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return dateNotAvailable
	}
	return t.Format(ticketDateLayout)
}

// JoinNonEmpty joins the non-blank parts with sep
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstTime(times ...*time.Time) *time.Time {
	for _, t := range times {
		if t != nil && !t.IsZero() {
			return t
		}
	}
	return nil
}
