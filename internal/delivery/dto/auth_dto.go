package dto

import (
	"mime/multipart"
	"time"
)

// Request DTOs. Registration and login arrive as browser form posts, so
// these are populated from form fields rather than a JSON body.

type RegisterRequest struct {
	Role            string `form:"role" validate:"required,oneof=doctor patient"`
	FirstName       string `form:"first_name" validate:"required,min=2,max=50"`
	LastName        string `form:"last_name" validate:"required,min=2,max=50"`
	Username        string `form:"username" validate:"required,min=2,max=20"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	AddressLine1    string `form:"address_line1" validate:"required,max=100"`
	City            string `form:"city" validate:"required,max=50"`
	State           string `form:"state" validate:"required,max=50"`
	Pincode         string `form:"pincode" validate:"required,min=5,max=10"`

	ProfilePicture *multipart.FileHeader `form:"-" validate:"-"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=doctor patient"`
}

// Response DTOs

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Role      string `json:"role"`
}

type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	AddressLine1   string    `json:"address_line1,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Pincode        string    `json:"pincode,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
