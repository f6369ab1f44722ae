package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"eventip/internal/middleware"
	"eventip/internal/models"
	"eventip/internal/services"
)

type MockTicketLookup struct {
	mock.Mock
}

func (m *MockTicketLookup) Lookup(ctx context.Context, email string) (*services.TicketLookupResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TicketLookupResult), args.Error(1)
}

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) Home(ctx context.Context) (*models.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Catalog), args.Error(1)
}

func (m *MockCatalogReader) Preview(ctx context.Context, id string) (*models.EventCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventCard), args.Error(1)
}

func (m *MockCatalogReader) PurchaseOptions(ctx context.Context, id string, identity *models.Identity) (*services.PurchaseOptions, error) {
	args := m.Called(ctx, id, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PurchaseOptions), args.Error(1)
}

func (m *MockCatalogReader) Discount(ctx context.Context, id string, quantity int) (float64, error) {
	args := m.Called(ctx, id, quantity)
	return args.Get(0).(float64), args.Error(1)
}

type MockNewsReader struct {
	mock.Mock
}

func (m *MockNewsReader) ListPublished(ctx context.Context, category string, page int) (*services.NewsListing, error) {
	args := m.Called(ctx, category, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.NewsListing), args.Error(1)
}

func (m *MockNewsReader) Detail(ctx context.Context, key string) (*services.NewsDetail, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.NewsDetail), args.Error(1)
}

type MockNewsManager struct {
	mock.Mock
}

func (m *MockNewsManager) ListAdmin(ctx context.Context, filter services.AdminNewsFilter) (*models.NewsPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsPage), args.Error(1)
}

func (m *MockNewsManager) Create(ctx context.Context, admin *models.Identity, req models.NewsPostRequest, image *services.ImageUpload) (*models.NewsPost, error) {
	args := m.Called(ctx, admin, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsPost), args.Error(1)
}

func (m *MockNewsManager) Update(ctx context.Context, id string, req models.NewsPostRequest, image *services.ImageUpload) (*models.NewsPost, error) {
	args := m.Called(ctx, id, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsPost), args.Error(1)
}

func (m *MockNewsManager) UpdateStatus(ctx context.Context, id string, status models.NewsStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockNewsManager) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNewsManager) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPrivateTicketReader struct {
	mock.Mock
}

func (m *MockPrivateTicketReader) View(ctx context.Context, id string) (*services.PrivateTicketView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PrivateTicketView), args.Error(1)
}

func (m *MockPrivateTicketReader) QRImage(ctx context.Context, id string, format services.QRFormat) (*services.QRImage, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QRImage), args.Error(1)
}

type MockContactSubmitter struct {
	mock.Mock
}

func (m *MockContactSubmitter) Submit(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) ResolveUser(ctx context.Context, w http.ResponseWriter, r *http.Request, email string) (*models.Identity, error) {
	args := m.Called(ctx, w, r, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockSessionManager) SetAdmin(w http.ResponseWriter, r *http.Request, admin *models.Admin) (*models.Identity, error) {
	args := m.Called(w, r, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockSessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	args := m.Called(w, r)
	return args.Error(0)
}

type MockAdminAuthenticator struct {
	mock.Mock
}

func (m *MockAdminAuthenticator) Login(ctx context.Context, req models.AdminLoginRequest) (*models.Admin, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

// withURLParams attaches chi route parameters to a request
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withIdentity(req *http.Request, identity *models.Identity) *http.Request {
	return req.WithContext(middleware.SetIdentityContext(req.Context(), identity))
}

var (
	testAdmin = &models.Identity{
		Kind:      models.IdentityAdmin,
		ID:        "adm-1",
		Email:     "admin@eventip.net",
		FirstName: "Grace",
		LastName:  "Hopper",
	}
	testBuyer = &models.Identity{
		Kind:      models.IdentityUser,
		ID:        "usr-1",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
)
