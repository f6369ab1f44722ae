package services

import (
	"context"

	"eventip/internal/models"
)

// TicketRepository reads both ticket sources for a buyer email
type TicketRepository interface {
	ListPaidByEmail(ctx context.Context, email string) ([]*models.PaidTicket, error)
	ListFreeByEmail(ctx context.Context, email string) ([]*models.FreeTicket, error)
}

// EventRepository loads events with their images and tiers
type EventRepository interface {
	ListWithDetails(ctx context.Context) ([]*models.Event, error)
	GetWithDetails(ctx context.Context, id string) (*models.Event, error)
}

// NewsRepository defines news post persistence
type NewsRepository interface {
	List(ctx context.Context, filter models.NewsFilter) ([]*models.NewsPost, int, error)
	GetFeatured(ctx context.Context) (*models.NewsPost, error)
	GetBySlug(ctx context.Context, slug string, status models.NewsStatus) (*models.NewsPost, error)
	GetByID(ctx context.Context, id string, status models.NewsStatus) (*models.NewsPost, error)
	ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*models.NewsPost, error)
	Create(ctx context.Context, post *models.NewsPost) error
	Update(ctx context.Context, post *models.NewsPost) error
	UpdateStatus(ctx context.Context, id string, status models.NewsStatus) error
	ToggleFeatured(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository looks up buyer profiles
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AdminRepository looks up admin accounts
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// ContactRepository stores contact messages
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// PrivateTicketRepository reads private event tickets
type PrivateTicketRepository interface {
	GetByID(ctx context.Context, id string) (*models.PrivateEventTicket, error)
}

// EventPublisher emits domain events. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// ContactMailer sends the acknowledgement for a contact message
type ContactMailer interface {
	SendContactAcknowledgement(ctx context.Context, msg *models.ContactMessage) error
}

// CatalogCache stores the computed home catalog
type CatalogCache interface {
	GetCatalog(ctx context.Context) (*models.Catalog, error)
	SetCatalog(ctx context.Context, catalog *models.Catalog) error
}

// ImageServiceInterface processes and stores news cover images
type ImageServiceInterface interface {
	UploadNewsCover(ctx context.Context, data []byte, filename string) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}
