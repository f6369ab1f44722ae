package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"eventip/internal/models"
)

// NewsListing is one page of the public news screen
type NewsListing struct {
	Category   string                `json:"category"`
	Categories []models.NewsCategory `json:"categories"`
	Featured   *models.NewsPost      `json:"featured,omitempty"`
	*models.NewsPage
}

// NewsDetail is a published post with its related posts
type NewsDetail struct {
	Post          *models.NewsPost   `json:"post"`
	CategoryName  string             `json:"category_name"`
	AuthorInitial string             `json:"author_initial"`
	URL           string             `json:"url"`
	Related       []*models.NewsPost `json:"related"`
}

// AdminNewsFilter selects posts on the admin screen
type AdminNewsFilter struct {
	Category string
	Search   string
	Page     int
}

// ImageUpload is an uploaded cover image
type ImageUpload struct {
	Data     []byte
	Filename string
}

// NewsPublishedEvent is emitted when a post becomes published
type NewsPublishedEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// RoutingKeyNewsPublished is the routing key of NewsPublishedEvent
const RoutingKeyNewsPublished = "news.published"

// NewsService serves the public news screens and the admin news tools
type NewsService struct {
	news      NewsRepository
	images    ImageServiceInterface
	publisher EventPublisher
}

// NewNewsService creates a new news service. images and publisher may be nil.
func NewNewsService(news NewsRepository, images ImageServiceInterface, publisher EventPublisher) *NewsService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &NewsService{
		news:      news,
		images:    images,
		publisher: publisher,
	}
}

// ListPublished returns a page of published posts. The newest featured post is
// kept out of the regular list and is shown on the first page when it matches
// the category.
func (s *NewsService) ListPublished(ctx context.Context, category string, page int) (*NewsListing, error) {
	category = models.NormalizeCategory(category)
	page = models.ClampPage(page)

	featured, err := s.news.GetFeatured(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNewsPostNotFound) {
			log.Printf("Error fetching featured post: %v", err)
		}
		featured = nil
	}

	filter := models.NewsFilter{
		Status:   models.NewsPublished,
		Category: category,
		Limit:    models.PublicNewsPageSize,
		Offset:   (page - 1) * models.PublicNewsPageSize,
	}
	if featured != nil {
		filter.ExcludeID = featured.ID
	}

	posts, total, err := s.news.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list news posts: %w", err)
	}

	totalPages := models.TotalPages(total, models.PublicNewsPageSize)
	listing := &NewsListing{
		Category:   category,
		Categories: models.NewsCategories,
		NewsPage: &models.NewsPage{
			Posts:      posts,
			Total:      total,
			Page:       page,
			PageSize:   models.PublicNewsPageSize,
			TotalPages: totalPages,
			Buttons:    models.PageButtons(page, totalPages),
		},
	}

	if featured != nil && page == 1 && (category == models.CategoryAll || category == featured.Category) {
		listing.Featured = featured
	}

	return listing, nil
}

// GetBySlugOrID finds a published post by slug, falling back to its id
func (s *NewsService) GetBySlugOrID(ctx context.Context, key string) (*models.NewsPost, error) {
	if key == "" {
		return nil, models.ErrNewsPostNotFound
	}

	post, err := s.news.GetBySlug(ctx, key, models.NewsPublished)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, models.ErrNewsPostNotFound) {
		return nil, err
	}

	return s.news.GetByID(ctx, key, models.NewsPublished)
}

// Related returns up to three published posts from the same category. Failures
// yield an empty list.
func (s *NewsService) Related(ctx context.Context, post *models.NewsPost) []*models.NewsPost {
	related, err := s.news.ListRelated(ctx, post.Category, post.ID, models.RelatedNewsLimit)
	if err != nil {
		log.Printf("Error fetching related posts for %s: %v", post.ID, err)
		return []*models.NewsPost{}
	}
	if related == nil {
		return []*models.NewsPost{}
	}
	return related
}

// Detail loads a published post with its related posts
func (s *NewsService) Detail(ctx context.Context, key string) (*NewsDetail, error) {
	post, err := s.GetBySlugOrID(ctx, key)
	if err != nil {
		return nil, err
	}

	return &NewsDetail{
		Post:          post,
		CategoryName:  post.CategoryName(),
		AuthorInitial: post.AuthorInitial(),
		URL:           post.URL(),
		Related:       s.Related(ctx, post),
	}, nil
}

// ListAdmin returns a page of posts in any status for the admin screen
func (s *NewsService) ListAdmin(ctx context.Context, filter AdminNewsFilter) (*models.NewsPage, error) {
	page := models.ClampPage(filter.Page)

	posts, total, err := s.news.List(ctx, models.NewsFilter{
		Category: models.NormalizeCategory(filter.Category),
		Search:   filter.Search,
		Limit:    models.AdminNewsPageSize,
		Offset:   (page - 1) * models.AdminNewsPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list news posts: %w", err)
	}

	totalPages := models.TotalPages(total, models.AdminNewsPageSize)
	return &models.NewsPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		PageSize:   models.AdminNewsPageSize,
		TotalPages: totalPages,
		Buttons:    models.PageButtons(page, totalPages),
	}, nil
}

// Create validates and stores a new post. The author defaults to the admin's name.
func (s *NewsService) Create(ctx context.Context, admin *models.Identity, req models.NewsPostRequest, image *ImageUpload) (*models.NewsPost, error) {
	if req.Author == "" && admin != nil {
		req.Author = admin.FullName()
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post := &models.NewsPost{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Category:   req.Category,
		Status:     req.Status,
		IsFeatured: req.IsFeatured,
		Author:     req.Author,
		ImageURL:   req.ImageURL,
	}

	if image != nil && len(image.Data) > 0 {
		url, err := s.uploadCover(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	if err := s.news.Create(ctx, post); err != nil {
		if post.ImageURL != "" && post.ImageURL != req.ImageURL {
			s.deleteCover(ctx, post.ImageURL)
		}
		return nil, fmt.Errorf("failed to create news post: %w", err)
	}

	log.Printf("News post %s created by %s", post.ID, post.Author)

	if post.Status == models.NewsPublished {
		s.publishNews(ctx, post)
	}

	return post, nil
}

// Update replaces the editable fields of a post. An empty image URL keeps the current cover.
func (s *NewsService) Update(ctx context.Context, id string, req models.NewsPostRequest, image *ImageUpload) (*models.NewsPost, error) {
	post, err := s.news.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	wasPublished := post.Status == models.NewsPublished
	oldImage := post.ImageURL

	post.Title = req.Title
	post.Slug = req.Slug
	post.Excerpt = req.Excerpt
	post.Content = req.Content
	post.Category = req.Category
	post.Status = req.Status
	post.IsFeatured = req.IsFeatured
	post.Author = req.Author
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}

	var uploaded string
	if image != nil && len(image.Data) > 0 {
		url, err := s.uploadCover(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
		uploaded = url
	}

	if err := s.news.Update(ctx, post); err != nil {
		if uploaded != "" && uploaded != oldImage && uploaded != req.ImageURL {
			s.deleteCover(ctx, uploaded)
		}
		return nil, err
	}

	if oldImage != "" && oldImage != post.ImageURL {
		s.deleteCover(ctx, oldImage)
	}

	if !wasPublished && post.Status == models.NewsPublished {
		s.publishNews(ctx, post)
	}

	return post, nil
}

// UpdateStatus moves a post to published, draft or archived
func (s *NewsService) UpdateStatus(ctx context.Context, id string, status models.NewsStatus) error {
	if err := models.ValidateNewsStatus(status); err != nil {
		return err
	}

	if err := s.news.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	log.Printf("News post %s status updated to %s", id, status)

	if status == models.NewsPublished {
		post, err := s.news.GetByID(ctx, id, "")
		if err != nil {
			log.Printf("Failed to load published post %s for event: %v", id, err)
			return nil
		}
		s.publishNews(ctx, post)
	}

	return nil
}

// ToggleFeatured flips the featured flag and returns the new value
func (s *NewsService) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	featured, err := s.news.ToggleFeatured(ctx, id)
	if err != nil {
		return false, err
	}

	log.Printf("News post %s featured set to %t", id, featured)
	return featured, nil
}

// Delete removes a post and its stored cover image
func (s *NewsService) Delete(ctx context.Context, id string) error {
	post, err := s.news.GetByID(ctx, id, "")
	if err != nil {
		return err
	}

	if err := s.news.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("News post %s deleted", id)

	if post.ImageURL != "" {
		s.deleteCover(ctx, post.ImageURL)
	}
	return nil
}

func (s *NewsService) uploadCover(ctx context.Context, image *ImageUpload) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}

	url, err := s.images.UploadNewsCover(ctx, image.Data, image.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to upload cover image: %w", err)
	}
	return url, nil
}

func (s *NewsService) deleteCover(ctx context.Context, url string) {
	if s.images == nil {
		return
	}
	if err := s.images.DeleteByURL(ctx, url); err != nil {
		log.Printf("Failed to delete cover image %s: %v", url, err)
	}
}

func (s *NewsService) publishNews(ctx context.Context, post *models.NewsPost) {
	event := NewsPublishedEvent{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Category:    post.Category,
		URL:         post.URL(),
		PublishedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, RoutingKeyNewsPublished, event); err != nil {
		log.Printf("Failed to publish %s for %s: %v", RoutingKeyNewsPublished, post.ID, err)
	}
}
