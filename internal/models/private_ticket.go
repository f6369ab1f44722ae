package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	notSpecified          = "Not specified"
	qrDescriptionMaxRunes = 100
	verificationChars     = 6
)

// PrivateEventData is the event snapshot stored with a private event ticket
type PrivateEventData struct {
	EventName      string `json:"event_name"`
	Description    string `json:"description"`
	EventStartDate string `json:"event_start_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	CoverImageURL  string `json:"cover_image_url"`
}

// PrivateEventTicket represents a row of the private_event_tickets table
type PrivateEventTicket struct {
	ID            string           `json:"id" db:"id"`
	TicketCode    string           `json:"ticket_code" db:"ticket_code"`
	Reference     string           `json:"reference" db:"reference"`
	Status        string           `json:"status" db:"status"`
	Quantity      int              `json:"quantity" db:"quantity"`
	BuyerName     string           `json:"buyer_name" db:"buyer_name"`
	BuyerEmail    string           `json:"buyer_email" db:"buyer_email"`
	CustomerEmail string           `json:"customer_email" db:"customer_email"`
	IsPaid        bool             `json:"is_paid" db:"is_paid"`
	EventData     PrivateEventData `json:"event_data" db:"event_data"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// Label returns "Paid Ticket" or "Free Ticket"
func (t *PrivateEventTicket) Label() string {
	if t.IsPaid {
		return "Paid Ticket"
	}
	return "Free Ticket"
}

// ContactEmail prefers the customer email over the buyer email
func (t *PrivateEventTicket) ContactEmail() string {
	if t.CustomerEmail != "" {
		return t.CustomerEmail
	}
	return t.BuyerEmail
}

// VerificationCode is the first six characters of the id, upper-cased
func (t *PrivateEventTicket) VerificationCode() string {
	code := t.ID
	if len(code) > verificationChars {
		code = code[:verificationChars]
	}
	return strings.ToUpper(code)
}

// Location renders "address, city, state, country" with "Not specified" for a missing address
func (d *PrivateEventData) Location() string {
	address := d.Address
	if address == "" {
		address = notSpecified
	}
	return address + ", " + JoinNonEmpty(", ", d.City, d.State, d.Country)
}

// QRPayload is the plain-text content encoded in the ticket's QR code
func (t *PrivateEventTicket) QRPayload() string {
	d := t.EventData

	lines := []string{
		"EVENT: " + d.EventName,
		"DESCRIPTION: " + truncateRunes(d.Description, qrDescriptionMaxRunes),
		"DATE: " + FormatEventDate(d.EventStartDate),
		"TIME: " + FormatClockTime(d.StartTime) + " - " + FormatClockTime(d.EndTime),
		"LOCATION: " + d.Location(),
		"TICKET HOLDER: " + t.BuyerName,
		"TICKET CODE: " + t.TicketCode,
		"REFERENCE: " + t.Reference,
		"STATUS: " + strings.ToUpper(t.Status),
		fmt.Sprintf("QUANTITY: %d ticket(s)", t.Quantity),
		"CONTACT EMAIL: " + t.ContactEmail(),
		"VERIFICATION: " + t.VerificationCode(),
	}
	return strings.Join(lines, "\n")
}

// QRFilename is the download name for the ticket's QR image in the given extension
func (t *PrivateEventTicket) QRFilename(ext string) string {
	return fmt.Sprintf("ticket-qr-%s.%s", t.TicketCode, ext)
}

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatEventDate renders a stored date string as "Monday, January 2, 2006".
// Values that do not parse are returned unchanged.
func FormatEventDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return notSpecified
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(ticketDateLayout)
		}
	}
	return raw
}

// FormatClockTime converts "HH:MM" to "3:04 PM". Other values pass through.
func FormatClockTime(raw string) string {
	if raw == "" {
		return notSpecified
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return raw
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return raw
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, parts[1], period)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
