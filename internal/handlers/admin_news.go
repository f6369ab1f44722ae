package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventip/internal/middleware"
	"eventip/internal/models"
	"eventip/internal/services"
)

// multipart bodies carry the cover image plus the text fields
const maxMultipartBody = services.MaxCoverImageSize + 1<<20

// AdminNewsHandler serves the admin news tools. Routes are mounted behind RequireAdmin.
type AdminNewsHandler struct {
	news NewsManager
}

// NewAdminNewsHandler creates a new admin news handler
func NewAdminNewsHandler(news NewsManager) *AdminNewsHandler {
	return &AdminNewsHandler{news: news}
}

// List handles GET /admin/news?category=&search=&page=
func (h *AdminNewsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.news.ListAdmin(r.Context(), services.AdminNewsFilter{
		Category: query.Get("category"),
		Search:   strings.TrimSpace(query.Get("search")),
		Page:     pageParam(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, page)
}

// Create handles POST /admin/news
func (h *AdminNewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, err := readNewsPost(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	admin := middleware.GetIdentityFromContext(r.Context())

	post, err := h.news.Create(r.Context(), admin, req, image)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, post)
}

// Update handles PUT /admin/news/{id}
func (h *AdminNewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, image, err := readNewsPost(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	post, err := h.news.Update(r.Context(), chi.URLParam(r, "id"), req, image)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, post)
}

type statusRequest struct {
	Status models.NewsStatus `json:"status"`
}

// StatusResponse reports a post's status after a change
type StatusResponse struct {
	ID     string            `json:"id"`
	Status models.NewsStatus `json:"status"`
}

// UpdateStatus handles POST /admin/news/{id}/status
func (h *AdminNewsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if isJSONRequest(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	} else {
		req.Status = models.NewsStatus(r.FormValue("status"))
	}

	id := chi.URLParam(r, "id")
	if err := h.news.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, StatusResponse{ID: id, Status: req.Status})
}

// FeaturedResponse reports a post's featured flag after a toggle
type FeaturedResponse struct {
	ID         string `json:"id"`
	IsFeatured bool   `json:"is_featured"`
}

// ToggleFeatured handles POST /admin/news/{id}/featured
func (h *AdminNewsHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	featured, err := h.news.ToggleFeatured(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, FeaturedResponse{ID: id, IsFeatured: featured})
}

// Delete handles DELETE /admin/news/{id}
func (h *AdminNewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.news.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, MessageResponse{Message: "Article deleted"})
}

// readNewsPost accepts a JSON body or a form with an optional "image" file
func readNewsPost(w http.ResponseWriter, r *http.Request) (models.NewsPostRequest, *services.ImageUpload, error) {
	var req models.NewsPostRequest

	if isJSONRequest(r) {
		err := decodeJSON(w, r, &req)
		return req, nil, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return req, nil, fmt.Errorf("%w: failed to parse form data", models.ErrInvalidInput)
		}
		if err := r.ParseForm(); err != nil {
			return req, nil, fmt.Errorf("%w: failed to parse form data", models.ErrInvalidInput)
		}
	}

	req = models.NewsPostRequest{
		Title:      r.FormValue("title"),
		Slug:       r.FormValue("slug"),
		Excerpt:    r.FormValue("excerpt"),
		Content:    r.FormValue("content"),
		Category:   r.FormValue("category"),
		Status:     models.NewsStatus(r.FormValue("status")),
		IsFeatured: formBool(r.FormValue("is_featured")),
		Author:     r.FormValue("author"),
		ImageURL:   r.FormValue("image_url"),
	}

	if r.MultipartForm == nil {
		return req, nil, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, fmt.Errorf("%w: failed to read image", models.ErrInvalidInput)
	}
	defer file.Close()

	if header.Size > services.MaxCoverImageSize {
		return req, nil, fmt.Errorf("%w: image size exceeds 10MB limit", models.ErrInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(file, services.MaxCoverImageSize+1))
	if err != nil {
		return req, nil, fmt.Errorf("%w: failed to read image", models.ErrInvalidInput)
	}

	return req, &services.ImageUpload{Data: data, Filename: header.Filename}, nil
}

// formBool accepts checkbox "on" as well as strconv booleans
func formBool(raw string) bool {
	if raw == "on" {
		return true
	}
	v, _ := strconv.ParseBool(raw)
	return v
}
