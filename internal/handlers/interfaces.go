package handlers

import (
	"context"
	"net/http"

	"eventip/internal/models"
	"eventip/internal/services"
)

// TicketLookup searches both ticket sources for an email
type TicketLookup interface {
	Lookup(ctx context.Context, email string) (*services.TicketLookupResult, error)
}

// CatalogReader serves the home catalog and event dialogs
type CatalogReader interface {
	Home(ctx context.Context) (*models.Catalog, error)
	Preview(ctx context.Context, id string) (*models.EventCard, error)
	PurchaseOptions(ctx context.Context, id string, identity *models.Identity) (*services.PurchaseOptions, error)
	Discount(ctx context.Context, id string, quantity int) (float64, error)
}

// NewsReader serves the public news screens
type NewsReader interface {
	ListPublished(ctx context.Context, category string, page int) (*services.NewsListing, error)
	Detail(ctx context.Context, key string) (*services.NewsDetail, error)
}

// NewsManager backs the admin news tools
type NewsManager interface {
	ListAdmin(ctx context.Context, filter services.AdminNewsFilter) (*models.NewsPage, error)
	Create(ctx context.Context, admin *models.Identity, req models.NewsPostRequest, image *services.ImageUpload) (*models.NewsPost, error)
	Update(ctx context.Context, id string, req models.NewsPostRequest, image *services.ImageUpload) (*models.NewsPost, error)
	UpdateStatus(ctx context.Context, id string, status models.NewsStatus) error
	ToggleFeatured(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// PrivateTicketReader renders private event tickets
type PrivateTicketReader interface {
	View(ctx context.Context, id string) (*services.PrivateTicketView, error)
	QRImage(ctx context.Context, id string, format services.QRFormat) (*services.QRImage, error)
}

// ContactSubmitter stores contact form messages
type ContactSubmitter interface {
	Submit(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error)
}

// SessionManager keeps the signed-in identity in the session cookie
type SessionManager interface {
	ResolveUser(ctx context.Context, w http.ResponseWriter, r *http.Request, email string) (*models.Identity, error)
	SetAdmin(w http.ResponseWriter, r *http.Request, admin *models.Admin) (*models.Identity, error)
	Clear(w http.ResponseWriter, r *http.Request) error
}

// AdminAuthenticator verifies admin credentials
type AdminAuthenticator interface {
	Login(ctx context.Context, req models.AdminLoginRequest) (*models.Admin, error)
}
