package services

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"eventip/internal/models"
)

// MockStorageService is a mock implementation of StorageService
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	args := m.Called(ctx, key, reader, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageService) GetURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockStorageService) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) ListPaidByEmail(ctx context.Context, email string) ([]*models.PaidTicket, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaidTicket), args.Error(1)
}

func (m *MockTicketRepository) ListFreeByEmail(ctx context.Context, email string) ([]*models.FreeTicket, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FreeTicket), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) ListWithDetails(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetWithDetails(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

// MockNewsRepository is a mock implementation of NewsRepository
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]*models.NewsPost, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.NewsPost), args.Int(1), args.Error(2)
}

func (m *MockNewsRepository) GetFeatured(ctx context.Context) (*models.NewsPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsPost), args.Error(1)
}

func (m *MockNewsRepository) GetBySlug(ctx context.Context, slug string, status models.NewsStatus) (*models.NewsPost, error) {
	args := m.Called(ctx, slug, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsPost), args.Error(1)
}

func (m *MockNewsRepository) GetByID(ctx context.Context, id string, status models.NewsStatus) (*models.NewsPost, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsPost), args.Error(1)
}

func (m *MockNewsRepository) ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*models.NewsPost, error) {
	args := m.Called(ctx, category, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.NewsPost), args.Error(1)
}

func (m *MockNewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockNewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockNewsRepository) UpdateStatus(ctx context.Context, id string, status models.NewsStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockNewsRepository) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNewsRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockAdminRepository is a mock implementation of AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPrivateTicketRepository is a mock implementation of PrivateTicketRepository
type MockPrivateTicketRepository struct {
	mock.Mock
}

func (m *MockPrivateTicketRepository) GetByID(ctx context.Context, id string) (*models.PrivateEventTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrivateEventTicket), args.Error(1)
}

// MockCatalogCache is a mock implementation of CatalogCache
type MockCatalogCache struct {
	mock.Mock
}

func (m *MockCatalogCache) GetCatalog(ctx context.Context) (*models.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Catalog), args.Error(1)
}

func (m *MockCatalogCache) SetCatalog(ctx context.Context, catalog *models.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

// MockImageService is a mock implementation of ImageServiceInterface
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadNewsCover(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) DeleteByURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MockContactMailer is a mock implementation of ContactMailer
type MockContactMailer struct {
	mock.Mock
}

func (m *MockContactMailer) SendContactAcknowledgement(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type publishedEvent struct {
	RoutingKey string
	Payload    interface{}
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{RoutingKey: routingKey, Payload: payload})
	return p.err
}

func (p *recordingPublisher) Published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}
