package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// NewsHandler serves the public news screens
type NewsHandler struct {
	news NewsReader
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(news NewsReader) *NewsHandler {
	return &NewsHandler{news: news}
}

// List handles GET /news?category=&page=
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	listing, err := h.news.ListPublished(r.Context(), query.Get("category"), pageParam(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, listing)
}

// Detail handles GET /news/{slug}. The key may also be a post id.
func (h *NewsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.news.Detail(r.Context(), pathParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, detail)
}

// pageParam reads ?page=, treating missing or bad values as the first page
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pathParam returns a URL parameter with any percent-escapes decoded. chi
// matches on the raw path when the request carries escaped slashes.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
