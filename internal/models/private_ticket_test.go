package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTicket() *PrivateEventTicket {
	return &PrivateEventTicket{
		ID:         "a1b2c3d4-0000-0000-0000-000000000000",
		TicketCode: "PVT-7788",
		Reference:  "REF-1",
		Status:     "active",
		Quantity:   2,
		BuyerName:  "Tunde Ade",
		BuyerEmail: "buyer@x.com",
		IsPaid:     true,
		EventData: PrivateEventData{
			EventName:      "Board Dinner",
			Description:    "An evening with the board",
			EventStartDate: "2025-07-04",
			StartTime:      "18:30",
			EndTime:        "22:00",
			Address:        "1 Bourdillon Rd",
			City:           "Ikoyi",
			State:          "Lagos",
			Country:        "Nigeria",
		},
	}
}

func TestPrivateEventTicket_QRPayload(t *testing.T) {
	payload := sampleTicket().QRPayload()
	lines := strings.Split(payload, "\n")
	require.Len(t, lines, 12)

	assert.Equal(t, "EVENT: Board Dinner", lines[0])
	assert.Equal(t, "DESCRIPTION: An evening with the board", lines[1])
	assert.Equal(t, "DATE: Friday, July 4, 2025", lines[2])
	assert.Equal(t, "TIME: 6:30 PM - 10:00 PM", lines[3])
	assert.Equal(t, "LOCATION: 1 Bourdillon Rd, Ikoyi, Lagos, Nigeria", lines[4])
	assert.Equal(t, "TICKET HOLDER: Tunde Ade", lines[5])
	assert.Equal(t, "TICKET CODE: PVT-7788", lines[6])
	assert.Equal(t, "REFERENCE: REF-1", lines[7])
	assert.Equal(t, "STATUS: ACTIVE", lines[8])
	assert.Equal(t, "QUANTITY: 2 ticket(s)", lines[9])
	assert.Equal(t, "CONTACT EMAIL: buyer@x.com", lines[10])
	assert.Equal(t, "VERIFICATION: A1B2C3", lines[11])
}

func TestPrivateEventTicket_QRPayloadFallbacks(t *testing.T) {
	ticket := sampleTicket()
	ticket.CustomerEmail = "customer@x.com"
	ticket.EventData.Address = ""
	ticket.EventData.State = ""
	ticket.EventData.Description = strings.Repeat("x", 120)
	ticket.EventData.EndTime = ""

	payload := ticket.QRPayload()
	assert.Contains(t, payload, "CONTACT EMAIL: customer@x.com")
	assert.Contains(t, payload, "LOCATION: Not specified, Ikoyi, Nigeria")
	assert.Contains(t, payload, "DESCRIPTION: "+strings.Repeat("x", 100)+"...\n")
	assert.Contains(t, payload, "TIME: 6:30 PM - Not specified")
}

func TestFormatClockTime(t *testing.T) {
	assert.Equal(t, "12:05 AM", FormatClockTime("00:05"))
	assert.Equal(t, "12:00 PM", FormatClockTime("12:00"))
	assert.Equal(t, "9:15 AM", FormatClockTime("09:15"))
	assert.Equal(t, "11:59 PM", FormatClockTime("23:59"))
	assert.Equal(t, "18:30:00", FormatClockTime("18:30:00"))
	assert.Equal(t, "Not specified", FormatClockTime(""))
}

func TestFormatEventDate(t *testing.T) {
	assert.Equal(t, "Friday, July 4, 2025", FormatEventDate("2025-07-04T00:00:00Z"))
	assert.Equal(t, "Not specified", FormatEventDate(""))
	assert.Equal(t, "next week", FormatEventDate("next week"))
}

func TestPrivateEventTicket_Helpers(t *testing.T) {
	ticket := sampleTicket()
	assert.Equal(t, "Paid Ticket", ticket.Label())
	ticket.IsPaid = false
	assert.Equal(t, "Free Ticket", ticket.Label())
	assert.Equal(t, "ticket-qr-PVT-7788.png", ticket.QRFilename("png"))
	assert.Equal(t, "AB", (&PrivateEventTicket{ID: "ab"}).VerificationCode())
}
