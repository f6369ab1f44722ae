package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appconfig "eventip/internal/config"
	"eventip/internal/models"
)

func timeRef(t time.Time) *time.Time { return &t }

func sampleEvents() []*models.Event {
	return []*models.Event{
		{
			ID:        "e1",
			Name:      "Lagos Jazz Night",
			EventDate: timeRef(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
			Tiers: []models.TicketTier{
				{ID: "t1", Price: 0, Quantity: 50, QuantitySold: 10},
				{ID: "t2", Price: 1500, Quantity: 20, PaidQuantitySold: 5},
			},
		},
		{ID: "e2", Name: "Undated Meetup"},
		{
			ID:        "e3",
			Name:      "Abuja Tech Summit",
			EventDate: timeRef(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestCatalogService_Home_NoCache(t *testing.T) {
	events := &MockEventRepository{}
	service := NewCatalogService(events, nil)
	ctx := context.Background()

	events.On("ListWithDetails", ctx).Return(sampleEvents(), nil)

	catalog, err := service.Home(ctx)

	require.NoError(t, err)
	require.Len(t, catalog.Upcoming, 3)
	assert.Equal(t, "e3", catalog.Upcoming[0].ID)
	assert.Equal(t, "e1", catalog.Upcoming[1].ID)
	assert.Equal(t, "e2", catalog.Upcoming[2].ID)
	assert.Len(t, catalog.Featured, 3)
	assert.Len(t, catalog.Trending, 2)

	jazz := catalog.Upcoming[1]
	assert.Equal(t, "₦1,500", jazz.Price)
	assert.Equal(t, 15, jazz.AvailableTickets)
}

func TestCatalogService_Home_CacheHit(t *testing.T) {
	events := &MockEventRepository{}
	cache := &MockCatalogCache{}
	service := NewCatalogService(events, cache)
	ctx := context.Background()

	cached := &models.Catalog{Upcoming: []models.EventCard{{ID: "cached"}}}
	cache.On("GetCatalog", ctx).Return(cached, nil)

	catalog, err := service.Home(ctx)

	require.NoError(t, err)
	assert.Same(t, cached, catalog)
	events.AssertNotCalled(t, "ListWithDetails", mock.Anything)
}

func TestCatalogService_Home_CacheMissStores(t *testing.T) {
	events := &MockEventRepository{}
	cache := &MockCatalogCache{}
	service := NewCatalogService(events, cache)
	ctx := context.Background()

	cache.On("GetCatalog", ctx).Return(nil, nil)
	events.On("ListWithDetails", ctx).Return(sampleEvents(), nil)
	cache.On("SetCatalog", ctx, mock.AnythingOfType("*models.Catalog")).Return(nil)

	catalog, err := service.Home(ctx)

	require.NoError(t, err)
	assert.Len(t, catalog.Upcoming, 3)
	cache.AssertExpectations(t)
}

func TestCatalogService_Home_CacheErrorsFallThrough(t *testing.T) {
	events := &MockEventRepository{}
	cache := &MockCatalogCache{}
	service := NewCatalogService(events, cache)
	ctx := context.Background()

	cache.On("GetCatalog", ctx).Return(nil, errors.New("redis: connection refused"))
	events.On("ListWithDetails", ctx).Return(sampleEvents(), nil)
	cache.On("SetCatalog", ctx, mock.Anything).Return(errors.New("redis: connection refused"))

	catalog, err := service.Home(ctx)

	require.NoError(t, err)
	assert.Len(t, catalog.Upcoming, 3)
}

func TestCatalogService_Home_RepositoryError(t *testing.T) {
	events := &MockEventRepository{}
	service := NewCatalogService(events, nil)
	ctx := context.Background()

	events.On("ListWithDetails", ctx).Return(nil, errors.New("db down"))

	_, err := service.Home(ctx)
	assert.Error(t, err)
}

func TestCatalogService_Preview(t *testing.T) {
	events := &MockEventRepository{}
	service := NewCatalogService(events, nil)
	ctx := context.Background()

	events.On("GetWithDetails", ctx, "e1").Return(sampleEvents()[0], nil)
	events.On("GetWithDetails", ctx, "missing").Return(nil, models.ErrEventNotFound)

	card, err := service.Preview(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Lagos Jazz Night", card.Title)

	_, err = service.Preview(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestCatalogService_PurchaseOptions(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	event := &models.Event{
		ID:                   "e1",
		HasEarlyBird:         true,
		EarlyBirdDiscount:    10,
		EarlyBirdStartDate:   timeRef(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
		EarlyBirdEndDate:     timeRef(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		HasMultipleBuys:      true,
		MultipleBuysDiscount: 15,
		Tiers: []models.TicketTier{
			{ID: "vip", Name: "VIP", Price: 5000, Quantity: 10, PaidQuantitySold: 10, IsPremium: true},
			{ID: "reg", Name: "Regular", Price: 1500, Quantity: 100, PaidQuantitySold: 40},
		},
	}

	ctx := context.Background()

	t.Run("anonymous visitor must sign in", func(t *testing.T) {
		events := &MockEventRepository{}
		events.On("GetWithDetails", ctx, "e1").Return(event, nil)
		service := NewCatalogService(events, nil)

		opts, err := service.PurchaseOptions(ctx, "e1", nil)
		require.NoError(t, err)
		assert.True(t, opts.RequiresLogin)
		assert.Empty(t, opts.Tiers)
	})

	t.Run("admin is not a buyer", func(t *testing.T) {
		events := &MockEventRepository{}
		events.On("GetWithDetails", ctx, "e1").Return(event, nil)
		service := NewCatalogService(events, nil)

		opts, err := service.PurchaseOptions(ctx, "e1", &models.Identity{Kind: models.IdentityAdmin})
		require.NoError(t, err)
		assert.True(t, opts.RequiresLogin)
	})

	t.Run("signed in buyer", func(t *testing.T) {
		events := &MockEventRepository{}
		events.On("GetWithDetails", ctx, "e1").Return(event, nil)
		service := NewCatalogService(events, nil)
		service.now = func() time.Time { return now }

		opts, err := service.PurchaseOptions(ctx, "e1", &models.Identity{Kind: models.IdentityUser, Email: "a@b.co"})
		require.NoError(t, err)

		assert.False(t, opts.RequiresLogin)
		require.Len(t, opts.Tiers, 2)
		assert.True(t, opts.Tiers[0].SoldOut)
		assert.True(t, opts.Tiers[0].IsPremium)
		assert.Equal(t, 60, opts.Tiers[1].AvailableQuantity)
		assert.Equal(t, "2025-02-01T00:00:00Z", opts.EarlyBirdStartDate)
		assert.Equal(t, "2025-02-20T00:00:00Z", opts.EarlyBirdEndDate)
		assert.Equal(t, 2, opts.MultipleBuysMin)
		assert.Equal(t, 10.0, opts.CurrentDiscount)
	})
}

func TestCatalogService_Discount(t *testing.T) {
	ctx := context.Background()
	event := &models.Event{
		ID:                     "e1",
		HasEarlyBird:           true,
		EarlyBirdDiscount:      10,
		HasMultipleBuys:        true,
		MultipleBuysDiscount:   15,
		MultipleBuysMinTickets: 3,
	}

	events := &MockEventRepository{}
	events.On("GetWithDetails", ctx, "e1").Return(event, nil)
	service := NewCatalogService(events, nil)

	d, err := service.Discount(ctx, "e1", 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, d)

	d, err = service.Discount(ctx, "e1", 3)
	require.NoError(t, err)
	assert.Equal(t, 15.0, d)

	_, err = service.Discount(ctx, "e1", 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRedisCatalogCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis cache test")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, appconfig.RedisConfig{Addr: addr, PoolSize: 2})
	require.NoError(t, err)
	defer client.Close()
	defer client.Del(ctx, catalogCacheKey)

	cache := NewRedisCatalogCache(client, time.Minute)
	client.Del(ctx, catalogCacheKey)

	missing, err := cache.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	catalog := models.BuildCatalog(sampleEvents())
	require.NoError(t, cache.SetCatalog(ctx, catalog))

	cached, err := cache.GetCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, cached.Upcoming, 3)
	assert.Equal(t, catalog.Upcoming[0].ID, cached.Upcoming[0].ID)
}
