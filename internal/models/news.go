package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// NewsStatus represents the publication state of a news post
type NewsStatus string

const (
	NewsPublished NewsStatus = "published"
	NewsDraft     NewsStatus = "draft"
	NewsArchived  NewsStatus = "archived"
)

// CategoryAll disables category filtering
const CategoryAll = "all"

const (
	PublicNewsPageSize = 9
	AdminNewsPageSize  = 10
	RelatedNewsLimit   = 3
	maxPageButtons     = 5

	// MaxPage keeps page offsets well inside a Postgres integer
	MaxPage = 100000
)

// NewsCategory is one of the fixed news categories
type NewsCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewsCategories lists the categories in display order
var NewsCategories = []NewsCategory{
	{ID: "company", Name: "Company Updates"},
	{ID: "features", Name: "New Features"},
	{ID: "events", Name: "Events Industry"},
	{ID: "guides", Name: "Tips & Guides"},
}

// NewsPost represents a row of the news_posts table
type NewsPost struct {
	ID         string     `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	Slug       string     `json:"slug" db:"slug"`
	Excerpt    string     `json:"excerpt" db:"excerpt"`
	Content    string     `json:"content" db:"content"`
	Category   string     `json:"category" db:"category"`
	Status     NewsStatus `json:"status" db:"status"`
	IsFeatured bool       `json:"is_featured" db:"is_featured"`
	Author     string     `json:"author" db:"author"`
	ImageURL   string     `json:"image_url" db:"image_url"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// URL returns the public path of the post, preferring the slug over the id
func (p *NewsPost) URL() string {
	key := p.Slug
	if key == "" {
		key = p.ID
	}
	return "/news/" + url.PathEscape(key)
}

// AuthorInitial returns the upper-cased first letter of the author, or "A"
func (p *NewsPost) AuthorInitial() string {
	return AuthorInitial(p.Author)
}

// CategoryName returns the display name of the post's category
func (p *NewsPost) CategoryName() string {
	return CategoryName(p.Category)
}

// AuthorInitial returns the upper-cased first letter of name, or "A" when name is empty
func AuthorInitial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "A"
	}
	return string(unicode.ToUpper(r))
}

// CategoryName maps a category id to its display name. Unknown ids are returned as-is.
func CategoryName(id string) string {
	if id == CategoryAll {
		return "All News"
	}
	for _, c := range NewsCategories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// IsValidCategory reports whether id names one of the fixed categories
func IsValidCategory(id string) bool {
	for _, c := range NewsCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// NormalizeCategory maps empty or unknown filter values to CategoryAll
func NormalizeCategory(id string) string {
	id = strings.TrimSpace(id)
	if IsValidCategory(id) {
		return id
	}
	return CategoryAll
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces       = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a title
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// TotalPages returns the number of pages for total items, never less than one
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// PageButton is a pagination slot. Ellipsis slots have Page == 0.
type PageButton struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

func (b PageButton) String() string {
	if b.Ellipsis {
		return "..."
	}
	return fmt.Sprintf("%d", b.Page)
}

// ClampPage bounds a requested page to [1, MaxPage]
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// PageButtons lays out at most five numbered slots with ellipses, always
// keeping the first and last page visible.
func PageButtons(current, total int) []PageButton {
	var buttons []PageButton
	page := func(n int) {
		buttons = append(buttons, PageButton{Page: n, Current: n == current})
	}

	if total <= maxPageButtons {
		for i := 1; i <= total; i++ {
			page(i)
		}
		return buttons
	}

	page(1)

	start := max(2, current-maxPageButtons/2+1)
	end := min(total-1, start+maxPageButtons-3)
	if end == total-1 {
		start = max(2, total-maxPageButtons+2)
	}

	if start > 2 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		page(i)
	}
	if end < total-1 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}

	page(total)
	return buttons
}

// NewsPostRequest carries the editable fields of a news post
type NewsPostRequest struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	Status     NewsStatus `json:"status"`
	IsFeatured bool       `json:"is_featured"`
	Author     string     `json:"author"`
	ImageURL   string     `json:"image_url"`
}

// Normalize trims fields and fills in defaults for category and slug
func (req *NewsPostRequest) Normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Excerpt = strings.TrimSpace(req.Excerpt)
	req.Author = strings.TrimSpace(req.Author)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Category = strings.TrimSpace(req.Category)

	if req.Category == "" {
		req.Category = NewsCategories[0].ID
	}
	if req.Status == "" {
		req.Status = NewsDraft
	}
	if req.Slug == "" {
		req.Slug = Slugify(req.Title)
	}
}

// Validate checks the required fields of a news post
func (req *NewsPostRequest) Validate() error {
	if req.Title == "" || req.Excerpt == "" || strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: please fill in all required fields: title, excerpt, and content", ErrInvalidInput)
	}

	if req.Author == "" {
		return fmt.Errorf("%w: please provide an author name", ErrInvalidInput)
	}

	if len(req.Title) > 255 {
		return fmt.Errorf("%w: title must be less than 255 characters", ErrInvalidInput)
	}

	if req.Slug == "" {
		return fmt.Errorf("%w: slug cannot be derived from title", ErrInvalidInput)
	}

	if !IsValidCategory(req.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}

	switch req.Status {
	case NewsPublished, NewsDraft:
	default:
		return fmt.Errorf("%w: status must be published or draft", ErrInvalidInput)
	}

	return nil
}

// ValidateNewsStatus checks a status change target
func ValidateNewsStatus(status NewsStatus) error {
	switch status {
	case NewsPublished, NewsDraft, NewsArchived:
		return nil
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
}

// NewsFilter selects news posts for listing
type NewsFilter struct {
	Category  string
	Search    string
	Status    NewsStatus
	ExcludeID string
	Limit     int
	Offset    int
}

// NewsPage is one page of news posts
type NewsPage struct {
	Posts      []*NewsPost  `json:"posts"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	Buttons    []PageButton `json:"buttons"`
}
