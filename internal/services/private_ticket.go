package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"eventip/internal/models"
)

const (
	qrBaseSize = 180
	qrScale    = 2
)

// QRFormat is an export format for ticket QR codes
type QRFormat string

const (
	QRFormatPNG  QRFormat = "png"
	QRFormatJPEG QRFormat = "jpeg"
)

// ParseQRFormat accepts png, jpeg or jpg. An empty value means png.
func ParseQRFormat(raw string) (QRFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "png":
		return QRFormatPNG, nil
	case "jpeg", "jpg":
		return QRFormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: unsupported QR format %q", models.ErrInvalidInput, raw)
	}
}

// Extension is the file extension used in download names
func (f QRFormat) Extension() string {
	if f == QRFormatJPEG {
		return "jpg"
	}
	return "png"
}

// ContentType is the MIME type of the encoded image
func (f QRFormat) ContentType() string {
	if f == QRFormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// PrivateTicketView is a private event ticket with its display fields
type PrivateTicketView struct {
	Ticket           *models.PrivateEventTicket `json:"ticket"`
	Label            string                     `json:"label"`
	EventDate        string                     `json:"event_date"`
	StartTime        string                     `json:"start_time"`
	EndTime          string                     `json:"end_time"`
	Location         string                     `json:"location"`
	ContactEmail     string                     `json:"contact_email"`
	VerificationCode string                     `json:"verification_code"`
	QRPayload        string                     `json:"qr_payload"`
}

// QRImage is an encoded QR code ready for download
type QRImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// PrivateTicketService renders private event tickets
type PrivateTicketService struct {
	tickets PrivateTicketRepository
}

// NewPrivateTicketService creates a new private ticket service
func NewPrivateTicketService(tickets PrivateTicketRepository) *PrivateTicketService {
	return &PrivateTicketService{tickets: tickets}
}

// View loads a ticket and formats it for display
func (s *PrivateTicketService) View(ctx context.Context, id string) (*PrivateTicketView, error) {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	d := ticket.EventData
	return &PrivateTicketView{
		Ticket:           ticket,
		Label:            ticket.Label(),
		EventDate:        models.FormatEventDate(d.EventStartDate),
		StartTime:        models.FormatClockTime(d.StartTime),
		EndTime:          models.FormatClockTime(d.EndTime),
		Location:         d.Location(),
		ContactEmail:     ticket.ContactEmail(),
		VerificationCode: ticket.VerificationCode(),
		QRPayload:        ticket.QRPayload(),
	}, nil
}

// QRImage renders the ticket's QR payload at 360px on white in the given format
func (s *PrivateTicketService) QRImage(ctx context.Context, id string, format QRFormat) (*QRImage, error) {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := EncodeQR(ticket.QRPayload(), format)
	if err != nil {
		return nil, err
	}

	return &QRImage{
		Data:        data,
		ContentType: format.ContentType(),
		Filename:    ticket.QRFilename(format.Extension()),
	}, nil
}

// EncodeQR renders content as a QR code image
func EncodeQR(content string, format QRFormat) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to build QR code: %w", err)
	}

	img := qr.Image(qrBaseSize * qrScale)

	imgFormat := imaging.PNG
	if format == QRFormatJPEG {
		imgFormat = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imgFormat, imaging.JPEGQuality(95)); err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PrivateTicketService) load(ctx context.Context, id string) (*models.PrivateEventTicket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: no ticket ID provided", models.ErrInvalidInput)
	}
	return s.tickets.GetByID(ctx, id)
}
