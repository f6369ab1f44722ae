package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventip/internal/models"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// slugConflict turns a duplicate slug into a validation error and leaves
// other errors untouched
func slugConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && strings.Contains(pqErr.Constraint, "slug") {
		return fmt.Errorf("%w: a post with this slug already exists", models.ErrInvalidInput)
	}
	return err
}

// NewsRepository handles news post data operations
type NewsRepository struct {
	db *sql.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

const newsColumns = `id, title, slug, excerpt, content, category, status, is_featured, author, image_url, created_at, updated_at`

func scanNewsPost(row rowScanner) (*models.NewsPost, error) {
	p := &models.NewsPost{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.Category,
		&p.Status,
		&p.IsFeatured,
		&p.Author,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// buildNewsWhere turns a filter into a WHERE clause and its positional arguments
func buildNewsWhere(filter models.NewsFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Category != "" && filter.Category != models.CategoryAll {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.ExcludeID != "" {
		conditions = append(conditions, fmt.Sprintf("id::text <> $%d", argIndex))
		args = append(args, filter.ExcludeID)
		argIndex++
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR excerpt ILIKE $%d OR author ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+escapeLike(term)+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List returns one page of posts matching the filter and the exact total count
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]*models.NewsPost, int, error) {
	whereClause, args := buildNewsWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM news_posts " + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news posts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = models.PublicNewsPageSize
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM news_posts
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, newsColumns, whereClause, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.NewsPost{}
	for rows.Next() {
		p, err := scanNewsPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan news post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate news posts: %w", err)
	}

	return posts, total, nil
}

// GetFeatured returns the newest published featured post
func (r *NewsRepository) GetFeatured(ctx context.Context) (*models.NewsPost, error) {
	query := `SELECT ` + newsColumns + `
		FROM news_posts
		WHERE status = $1 AND is_featured = TRUE
		ORDER BY created_at DESC
		LIMIT 1`

	p, err := scanNewsPost(r.db.QueryRowContext(ctx, query, models.NewsPublished))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNewsPostNotFound
		}
		return nil, fmt.Errorf("failed to get featured news post: %w", err)
	}
	return p, nil
}

// GetBySlug returns the post with the given slug. When status is set the post must have it.
func (r *NewsRepository) GetBySlug(ctx context.Context, slug string, status models.NewsStatus) (*models.NewsPost, error) {
	query := `SELECT ` + newsColumns + ` FROM news_posts WHERE slug = $1 AND ($2::text = '' OR status = $2::text) ORDER BY created_at DESC LIMIT 1`
	return r.getOne(ctx, query, slug, string(status))
}

// GetByID returns the post with the given id. When status is set the post must have it.
func (r *NewsRepository) GetByID(ctx context.Context, id string, status models.NewsStatus) (*models.NewsPost, error) {
	if !isUUID(id) {
		return nil, models.ErrNewsPostNotFound
	}
	query := `SELECT ` + newsColumns + ` FROM news_posts WHERE id = $1 AND ($2::text = '' OR status = $2::text)`
	return r.getOne(ctx, query, id, string(status))
}

func (r *NewsRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.NewsPost, error) {
	p, err := scanNewsPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNewsPostNotFound
		}
		return nil, fmt.Errorf("failed to get news post: %w", err)
	}
	return p, nil
}

// ListRelated returns up to limit published posts in category other than excludeID
func (r *NewsRepository) ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*models.NewsPost, error) {
	posts, _, err := r.List(ctx, models.NewsFilter{
		Status:    models.NewsPublished,
		Category:  category,
		ExcludeID: excludeID,
		Limit:     limit,
	})
	return posts, err
}

// Create inserts a news post
func (r *NewsRepository) Create(ctx context.Context, p *models.NewsPost) error {
	query := `
		INSERT INTO news_posts (id, title, slug, excerpt, content, category, status, is_featured, author, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Content,
		p.Category,
		p.Status,
		p.IsFeatured,
		p.Author,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if conflict := slugConflict(err); conflict != err {
			return conflict
		}
		return fmt.Errorf("failed to create news post: %w", err)
	}
	return nil
}

// Update saves every editable field of a news post
func (r *NewsRepository) Update(ctx context.Context, p *models.NewsPost) error {
	query := `
		UPDATE news_posts
		SET title = $2, slug = $3, excerpt = $4, content = $5, category = $6, status = $7,
			is_featured = $8, author = $9, image_url = $10, updated_at = $11
		WHERE id = $1`

	p.UpdatedAt = time.Now()
	err := r.execAffectingOne(ctx, "update news post", query,
		p.ID,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Content,
		p.Category,
		p.Status,
		p.IsFeatured,
		p.Author,
		p.ImageURL,
		p.UpdatedAt,
	)
	return slugConflict(err)
}

// UpdateStatus changes the publication status of a post
func (r *NewsRepository) UpdateStatus(ctx context.Context, id string, status models.NewsStatus) error {
	if !isUUID(id) {
		return models.ErrNewsPostNotFound
	}
	query := `UPDATE news_posts SET status = $2, updated_at = $3 WHERE id = $1`
	return r.execAffectingOne(ctx, "update news post status", query, id, status, time.Now())
}

// ToggleFeatured flips is_featured and returns the new value
func (r *NewsRepository) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	if !isUUID(id) {
		return false, models.ErrNewsPostNotFound
	}

	query := `UPDATE news_posts SET is_featured = NOT is_featured, updated_at = $2 WHERE id = $1 RETURNING is_featured`

	var featured bool
	if err := r.db.QueryRowContext(ctx, query, id, time.Now()).Scan(&featured); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, models.ErrNewsPostNotFound
		}
		return false, fmt.Errorf("failed to toggle featured status: %w", err)
	}
	return featured, nil
}

// Delete removes a news post
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return models.ErrNewsPostNotFound
	}
	return r.execAffectingOne(ctx, "delete news post", `DELETE FROM news_posts WHERE id = $1`, id)
}

func (r *NewsRepository) execAffectingOne(ctx context.Context, action, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrNewsPostNotFound
	}
	return nil
}
