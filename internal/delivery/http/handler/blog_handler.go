package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medportal/internal/delivery/dto"
	"medportal/internal/delivery/http/middleware"
	"medportal/internal/infrastructure/storage"
	"medportal/internal/usecase"
	"medportal/pkg/response"
	"medportal/pkg/validator"
)

type BlogHandler struct {
	blogUsecase usecase.BlogUsecase
	validator   *validator.CustomValidator
	maxUpload   int64
}

func NewBlogHandler(blogUsecase usecase.BlogUsecase, validator *validator.CustomValidator, maxUpload int64) *BlogHandler {
	return &BlogHandler{
		blogUsecase: blogUsecase,
		validator:   validator,
		maxUpload:   maxUpload,
	}
}

// CreateForm returns the category choices for the post form.
func (h *BlogHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	categories, err := h.blogUsecase.ListCategories(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load categories")
		return
	}

	response.Success(w, http.StatusOK, "Create post form", map[string]interface{}{
		"categories": categories,
		"fields":     []string{"title", "image", "category_id", "summary", "content", "is_draft"},
	})
}

// CreatePost creates a blog post owned by the logged-in doctor.
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthenticated(w, "Authentication required")
		return
	}

	if err := parseForm(w, r, h.maxUpload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid or oversized request body", nil)
		return
	}

	categoryID, err := strconv.ParseUint(r.FormValue("category_id"), 10, 32)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category", nil)
		return
	}

	req := dto.CreatePostRequest{
		Title:      r.FormValue("title"),
		CategoryID: uint(categoryID),
		Summary:    r.FormValue("summary"),
		Content:    r.FormValue("content"),
		IsDraft:    formBool(r.FormValue("is_draft")),
		Image:      fileFromForm(r, "image"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	post, err := h.blogUsecase.CreatePost(r.Context(), principal.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCategoryNotFound):
			response.Error(w, http.StatusBadRequest, "Category not found", nil)
		case errors.Is(err, storage.ErrFileTooLarge),
			errors.Is(err, storage.ErrFileTypeNotAllow),
			errors.Is(err, storage.ErrBadFilename):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create blog post")
		}
		return
	}

	response.SuccessRedirect(w, http.StatusCreated, "Blog post created successfully!", post, "/blog/my_posts")
}

// MyPosts lists every post owned by the logged-in doctor, drafts included.
func (h *BlogHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthenticated(w, "Authentication required")
		return
	}

	posts, err := h.blogUsecase.ListMyPosts(r.Context(), principal.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to list posts")
		return
	}

	response.Success(w, http.StatusOK, "My posts", posts)
}

// Browse lists published posts grouped by category for patients. Every
// category appears, including ones with no published posts yet.
func (h *BlogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.blogUsecase.ListPublishedByCategory(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list posts")
		return
	}

	response.Success(w, http.StatusOK, "Health Blog", grouped)
}
