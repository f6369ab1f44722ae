package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventip/internal/models"
)

func newsPost(id, slug, category string) *models.NewsPost {
	return &models.NewsPost{
		ID:       id,
		Title:    "Post " + id,
		Slug:     slug,
		Category: category,
		Status:   models.NewsPublished,
		Author:   "Ada",
	}
}

func validNewsRequest() models.NewsPostRequest {
	return models.NewsPostRequest{
		Title:   "Hello, World!  Again",
		Excerpt: "Short summary",
		Content: "<p>Body</p>",
		Status:  models.NewsPublished,
	}
}

var adminIdentity = &models.Identity{Kind: models.IdentityAdmin, ID: "a1", FirstName: "Grace", LastName: "Hopper"}

func TestNewsService_ListPublished_FirstPageWithFeatured(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	featured := newsPost("f1", "big-news", "company")
	repo.On("GetFeatured", ctx).Return(featured, nil)
	repo.On("List", ctx, models.NewsFilter{
		Status:    models.NewsPublished,
		Category:  models.CategoryAll,
		ExcludeID: "f1",
		Limit:     9,
		Offset:    0,
	}).Return([]*models.NewsPost{newsPost("p1", "one", "guides")}, 20, nil)

	listing, err := service.ListPublished(ctx, "", 1)

	require.NoError(t, err)
	assert.Equal(t, models.CategoryAll, listing.Category)
	assert.Same(t, featured, listing.Featured)
	assert.Equal(t, 3, listing.TotalPages)
	assert.Equal(t, 20, listing.Total)
	assert.Len(t, listing.Posts, 1)
	assert.Len(t, listing.Categories, 4)
	repo.AssertExpectations(t)
}

func TestNewsService_ListPublished_LaterPageHidesFeatured(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("GetFeatured", ctx).Return(newsPost("f1", "big-news", "company"), nil)
	repo.On("List", ctx, mock.MatchedBy(func(f models.NewsFilter) bool {
		return f.Offset == 9 && f.ExcludeID == "f1"
	})).Return([]*models.NewsPost{}, 12, nil)

	listing, err := service.ListPublished(ctx, "all", 2)

	require.NoError(t, err)
	assert.Nil(t, listing.Featured)
	assert.Equal(t, 2, listing.Page)
}

func TestNewsService_ListPublished_CategoryMismatchHidesFeatured(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("GetFeatured", ctx).Return(newsPost("f1", "big-news", "company"), nil)
	repo.On("List", ctx, mock.MatchedBy(func(f models.NewsFilter) bool {
		return f.Category == "guides"
	})).Return([]*models.NewsPost{}, 0, nil)

	listing, err := service.ListPublished(ctx, "guides", 1)

	require.NoError(t, err)
	assert.Nil(t, listing.Featured)
	assert.Equal(t, 1, listing.TotalPages)
}

func TestNewsService_ListPublished_FeaturedFailureIgnored(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("GetFeatured", ctx).Return(nil, errors.New("db hiccup"))
	repo.On("List", ctx, mock.MatchedBy(func(f models.NewsFilter) bool {
		return f.ExcludeID == ""
	})).Return([]*models.NewsPost{newsPost("p1", "one", "company")}, 1, nil)

	listing, err := service.ListPublished(ctx, "unknown-category", 0)

	require.NoError(t, err)
	assert.Nil(t, listing.Featured)
	assert.Equal(t, models.CategoryAll, listing.Category)
	assert.Equal(t, 1, listing.Page)
}

func TestNewsService_ListPublished_HugePageKeepsOffsetInRange(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("GetFeatured", ctx).Return(nil, models.ErrNewsPostNotFound)
	repo.On("List", ctx, mock.MatchedBy(func(f models.NewsFilter) bool {
		return f.Offset == (models.MaxPage-1)*models.PublicNewsPageSize
	})).Return([]*models.NewsPost{}, 3, nil)

	listing, err := service.ListPublished(ctx, "", math.MaxInt)

	require.NoError(t, err)
	assert.Equal(t, models.MaxPage, listing.Page)
	repo.AssertExpectations(t)
}

func TestNewsService_GetBySlugOrID(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	post := newsPost("11111111-1111-1111-1111-111111111111", "", "company")
	repo.On("GetBySlug", ctx, "by-slug", models.NewsPublished).Return(newsPost("p1", "by-slug", "company"), nil)
	repo.On("GetBySlug", ctx, post.ID, models.NewsPublished).Return(nil, models.ErrNewsPostNotFound)
	repo.On("GetByID", ctx, post.ID, models.NewsPublished).Return(post, nil)
	repo.On("GetBySlug", ctx, "nope", models.NewsPublished).Return(nil, models.ErrNewsPostNotFound)
	repo.On("GetByID", ctx, "nope", models.NewsPublished).Return(nil, models.ErrNewsPostNotFound)

	got, err := service.GetBySlugOrID(ctx, "by-slug")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	got, err = service.GetBySlugOrID(ctx, post.ID)
	require.NoError(t, err)
	assert.Same(t, post, got)

	_, err = service.GetBySlugOrID(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNewsPostNotFound)

	_, err = service.GetBySlugOrID(ctx, "")
	assert.ErrorIs(t, err, models.ErrNewsPostNotFound)
}

func TestNewsService_Detail_RelatedFailureGivesEmptyList(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	post := newsPost("p1", "hello world", "features")
	post.Author = "grace"
	repo.On("GetBySlug", ctx, "hello world", models.NewsPublished).Return(post, nil)
	repo.On("ListRelated", ctx, "features", "p1", 3).Return(nil, errors.New("timeout"))

	detail, err := service.Detail(ctx, "hello world")

	require.NoError(t, err)
	assert.Equal(t, "New Features", detail.CategoryName)
	assert.Equal(t, "G", detail.AuthorInitial)
	assert.Equal(t, "/news/hello%20world", detail.URL)
	assert.NotNil(t, detail.Related)
	assert.Empty(t, detail.Related)
}

func TestNewsService_ListAdmin(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("List", ctx, models.NewsFilter{
		Category: "guides",
		Search:   "tips",
		Limit:    10,
		Offset:   20,
	}).Return([]*models.NewsPost{}, 25, nil)

	page, err := service.ListAdmin(ctx, AdminNewsFilter{Category: "guides", Search: "tips", Page: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 10, page.PageSize)
	repo.AssertExpectations(t)
}

func TestNewsService_ListAdmin_HugePageKeepsOffsetInRange(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("List", ctx, mock.MatchedBy(func(f models.NewsFilter) bool {
		return f.Offset > 0 && f.Offset == (models.MaxPage-1)*models.AdminNewsPageSize
	})).Return([]*models.NewsPost{}, 0, nil)

	page, err := service.ListAdmin(ctx, AdminNewsFilter{Page: math.MaxInt/models.AdminNewsPageSize + 2})

	require.NoError(t, err)
	assert.Equal(t, models.MaxPage, page.Page)
	repo.AssertExpectations(t)
}

func TestNewsService_Create(t *testing.T) {
	repo := &MockNewsRepository{}
	publisher := &recordingPublisher{}
	service := NewNewsService(repo, nil, publisher)
	ctx := context.Background()

	var stored *models.NewsPost
	repo.On("Create", ctx, mock.AnythingOfType("*models.NewsPost")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.NewsPost) }).
		Return(nil)

	post, err := service.Create(ctx, adminIdentity, validNewsRequest(), nil)

	require.NoError(t, err)
	assert.Same(t, stored, post)
	assert.Equal(t, "hello-world-again", post.Slug)
	assert.Equal(t, "Grace Hopper", post.Author)
	assert.Equal(t, "company", post.Category)
	assert.True(t, isUUIDString(post.ID))

	events := publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, RoutingKeyNewsPublished, events[0].RoutingKey)
	assert.Equal(t, post.ID, events[0].Payload.(NewsPublishedEvent).ID)
}

func TestNewsService_Create_DraftDoesNotPublish(t *testing.T) {
	repo := &MockNewsRepository{}
	publisher := &recordingPublisher{}
	service := NewNewsService(repo, nil, publisher)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)

	req := validNewsRequest()
	req.Status = ""
	post, err := service.Create(ctx, adminIdentity, req, nil)

	require.NoError(t, err)
	assert.Equal(t, models.NewsDraft, post.Status)
	assert.Empty(t, publisher.Published())
}

func TestNewsService_Create_ValidationErrors(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)

	tests := []struct {
		name   string
		modify func(*models.NewsPostRequest)
		admin  *models.Identity
	}{
		{"missing title", func(r *models.NewsPostRequest) { r.Title = "" }, adminIdentity},
		{"missing content", func(r *models.NewsPostRequest) { r.Content = "  " }, adminIdentity},
		{"missing author without admin", func(r *models.NewsPostRequest) {}, nil},
		{"archived on create", func(r *models.NewsPostRequest) { r.Status = models.NewsArchived }, adminIdentity},
		{"unknown category", func(r *models.NewsPostRequest) { r.Category = "sports" }, adminIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validNewsRequest()
			tt.modify(&req)

			_, err := service.Create(context.Background(), tt.admin, req, nil)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNewsService_Create_WithCoverImage(t *testing.T) {
	repo := &MockNewsRepository{}
	images := &MockImageService{}
	service := NewNewsService(repo, images, nil)
	ctx := context.Background()

	images.On("UploadNewsCover", ctx, []byte("img"), "cover.png").Return("https://cdn.example.com/news/x.jpg", nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	post, err := service.Create(ctx, adminIdentity, validNewsRequest(), &ImageUpload{Data: []byte("img"), Filename: "cover.png"})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/news/x.jpg", post.ImageURL)
}

func TestNewsService_Create_InsertFailureRemovesUploadedCover(t *testing.T) {
	repo := &MockNewsRepository{}
	images := &MockImageService{}
	service := NewNewsService(repo, images, nil)
	ctx := context.Background()

	images.On("UploadNewsCover", ctx, mock.Anything, mock.Anything).Return("https://cdn.example.com/news/x.jpg", nil)
	images.On("DeleteByURL", ctx, "https://cdn.example.com/news/x.jpg").Return(nil)
	repo.On("Create", ctx, mock.Anything).Return(errors.New("duplicate slug"))

	_, err := service.Create(ctx, adminIdentity, validNewsRequest(), &ImageUpload{Data: []byte("img"), Filename: "cover.png"})

	require.Error(t, err)
	images.AssertExpectations(t)
}

func TestNewsService_Create_ImageWithoutImageService(t *testing.T) {
	service := NewNewsService(&MockNewsRepository{}, nil, nil)

	_, err := service.Create(context.Background(), adminIdentity, validNewsRequest(), &ImageUpload{Data: []byte("img")})
	assert.Error(t, err)
}

func TestNewsService_Update(t *testing.T) {
	repo := &MockNewsRepository{}
	images := &MockImageService{}
	publisher := &recordingPublisher{}
	service := NewNewsService(repo, images, publisher)
	ctx := context.Background()

	existing := newsPost("p1", "old", "company")
	existing.Status = models.NewsDraft
	existing.ImageURL = "https://cdn.example.com/news/old.jpg"

	repo.On("GetByID", ctx, "p1", models.NewsStatus("")).Return(existing, nil)
	images.On("UploadNewsCover", ctx, []byte("new"), "new.png").Return("https://cdn.example.com/news/new.jpg", nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	images.On("DeleteByURL", ctx, "https://cdn.example.com/news/old.jpg").Return(nil)

	req := validNewsRequest()
	req.Author = "Someone Else"
	post, err := service.Update(ctx, "p1", req, &ImageUpload{Data: []byte("new"), Filename: "new.png"})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/news/new.jpg", post.ImageURL)
	assert.Equal(t, "Someone Else", post.Author)
	assert.Equal(t, models.NewsPublished, post.Status)
	images.AssertExpectations(t)
	assert.Len(t, publisher.Published(), 1)
}

func TestNewsService_Update_FailureRemovesUploadedCover(t *testing.T) {
	repo := &MockNewsRepository{}
	images := &MockImageService{}
	service := NewNewsService(repo, images, nil)
	ctx := context.Background()

	existing := newsPost("p1", "old", "company")
	existing.ImageURL = "https://cdn.example.com/news/old.jpg"

	repo.On("GetByID", ctx, "p1", models.NewsStatus("")).Return(existing, nil)
	images.On("UploadNewsCover", ctx, []byte("new"), "new.png").Return("https://cdn.example.com/news/new.jpg", nil)
	images.On("DeleteByURL", ctx, "https://cdn.example.com/news/new.jpg").Return(nil)
	repo.On("Update", ctx, mock.Anything).Return(models.ErrNewsPostNotFound)

	_, err := service.Update(ctx, "p1", validNewsRequest(), &ImageUpload{Data: []byte("new"), Filename: "new.png"})

	assert.ErrorIs(t, err, models.ErrNewsPostNotFound)
	images.AssertExpectations(t)
	images.AssertNotCalled(t, "DeleteByURL", ctx, "https://cdn.example.com/news/old.jpg")
}

func TestNewsService_Update_KeepsCoverWhenNoneGiven(t *testing.T) {
	repo := &MockNewsRepository{}
	images := &MockImageService{}
	publisher := &recordingPublisher{}
	service := NewNewsService(repo, images, publisher)
	ctx := context.Background()

	existing := newsPost("p1", "old", "company")
	existing.ImageURL = "https://cdn.example.com/news/old.jpg"

	repo.On("GetByID", ctx, "p1", models.NewsStatus("")).Return(existing, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	req := validNewsRequest()
	req.Author = "Ada"
	post, err := service.Update(ctx, "p1", req, nil)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/news/old.jpg", post.ImageURL)
	images.AssertNotCalled(t, "DeleteByURL", mock.Anything, mock.Anything)
	// already published, no new event
	assert.Empty(t, publisher.Published())
}

func TestNewsService_Update_NotFound(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing", models.NewsStatus("")).Return(nil, models.ErrNewsPostNotFound)

	_, err := service.Update(ctx, "missing", validNewsRequest(), nil)
	assert.ErrorIs(t, err, models.ErrNewsPostNotFound)
}

func TestNewsService_UpdateStatus(t *testing.T) {
	repo := &MockNewsRepository{}
	publisher := &recordingPublisher{}
	service := NewNewsService(repo, nil, publisher)
	ctx := context.Background()

	repo.On("UpdateStatus", ctx, "p1", models.NewsArchived).Return(nil)
	repo.On("UpdateStatus", ctx, "p1", models.NewsPublished).Return(nil)
	repo.On("GetByID", ctx, "p1", models.NewsStatus("")).Return(newsPost("p1", "one", "company"), nil)

	require.NoError(t, service.UpdateStatus(ctx, "p1", models.NewsArchived))
	assert.Empty(t, publisher.Published())

	require.NoError(t, service.UpdateStatus(ctx, "p1", models.NewsPublished))
	assert.Len(t, publisher.Published(), 1)

	err := service.UpdateStatus(ctx, "p1", "deleted")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestNewsService_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := &MockNewsRepository{}
	publisher := &recordingPublisher{err: errors.New("broker down")}
	service := NewNewsService(repo, nil, publisher)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)

	_, err := service.Create(ctx, adminIdentity, validNewsRequest(), nil)
	assert.NoError(t, err)
	assert.Len(t, publisher.Published(), 1)
}

func TestNewsService_ToggleFeatured(t *testing.T) {
	repo := &MockNewsRepository{}
	service := NewNewsService(repo, nil, nil)
	ctx := context.Background()

	repo.On("ToggleFeatured", ctx, "p1").Return(true, nil)
	repo.On("ToggleFeatured", ctx, "missing").Return(false, models.ErrNewsPostNotFound)

	featured, err := service.ToggleFeatured(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, featured)

	_, err = service.ToggleFeatured(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNewsPostNotFound)
}

func TestNewsService_Delete(t *testing.T) {
	repo := &MockNewsRepository{}
	images := &MockImageService{}
	service := NewNewsService(repo, images, nil)
	ctx := context.Background()

	post := newsPost("p1", "one", "company")
	post.ImageURL = "https://cdn.example.com/news/p1.jpg"

	repo.On("GetByID", ctx, "p1", models.NewsStatus("")).Return(post, nil)
	repo.On("Delete", ctx, "p1").Return(nil)
	images.On("DeleteByURL", ctx, post.ImageURL).Return(errors.New("storage down"))
	repo.On("GetByID", ctx, "missing", models.NewsStatus("")).Return(nil, models.ErrNewsPostNotFound)

	assert.NoError(t, service.Delete(ctx, "p1"))
	assert.ErrorIs(t, service.Delete(ctx, "missing"), models.ErrNewsPostNotFound)
	repo.AssertNotCalled(t, "Delete", ctx, "missing")
}

func isUUIDString(s string) bool {
	return len(s) == 36 && s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}
