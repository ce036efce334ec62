package dto

import (
	"mime/multipart"
	"time"
)

type CreatePostRequest struct {
	Title      string `form:"title" validate:"required,max=100"`
	CategoryID uint   `form:"category_id" validate:"required"`
	Summary    string `form:"summary" validate:"required,max=200"`
	Content    string `form:"content" validate:"required"`
	IsDraft    bool   `form:"is_draft" validate:"-"`

	Image *multipart.FileHeader `form:"-" validate:"-"`
}

type PostResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Image        string    `json:"image,omitempty"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	IsDraft      bool      `json:"is_draft"`
	CreatedAt    time.Time `json:"created_at"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	DoctorID     uint      `json:"doctor_id"`
	DoctorName   string    `json:"doctor_name,omitempty"`
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryPostsResponse carries one category with its published posts.
// Posts is always a non-nil slice so empty categories still render.
type CategoryPostsResponse struct {
	Category CategoryResponse `json:"category"`
	Posts    []PostResponse   `json:"posts"`
}
