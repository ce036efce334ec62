package handler

import (
	"errors"
	"net/http"

	"medportal/internal/delivery/dto"
	"medportal/internal/delivery/http/middleware"
	"medportal/internal/domain/entity"
	"medportal/internal/infrastructure/storage"
	"medportal/internal/usecase"
	"medportal/pkg/jwt"
	"medportal/pkg/response"
	"medportal/pkg/validator"
)

// loginFailedMessage is deliberately identical for an unknown username, a
// wrong password and a role mismatch.
const loginFailedMessage = "Login unsuccessful. Please check username, password and role"

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	jwtService  *jwt.JWTService
	maxUpload   int64
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, jwtService *jwt.JWTService, maxUpload int64) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		jwtService:  jwtService,
		maxUpload:   maxUpload,
	}
}

// RegisterForm describes the registration form for clients rendering it.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Registration form", map[string]interface{}{
		"roles": []string{entity.RoleDoctor, entity.RolePatient},
		"fields": []string{
			"role", "first_name", "last_name", "username", "email",
			"password", "confirm_password", "address_line1", "city",
			"state", "pincode", "profile_picture",
		},
	})
}

// Register creates a new user from a multipart form post.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUpload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid or oversized request body", nil)
		return
	}

	req := dto.RegisterRequest{
		Role:            r.FormValue("role"),
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		AddressLine1:    r.FormValue("address_line1"),
		City:            r.FormValue("city"),
		State:           r.FormValue("state"),
		Pincode:         r.FormValue("pincode"),
		ProfilePicture:  fileFromForm(r, "profile_picture"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUsernameAlreadyExists),
			errors.Is(err, usecase.ErrEmailAlreadyExists),
			errors.Is(err, usecase.ErrDuplicateIdentity):
			response.Conflict(w, err.Error())
		case errors.Is(err, storage.ErrFileTooLarge),
			errors.Is(err, storage.ErrFileTypeNotAllow),
			errors.Is(err, storage.ErrBadFilename):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to register user")
		}
		return
	}

	response.SuccessRedirect(w, http.StatusCreated, "Your account has been created! You can now log in", user, "/login")
}

// LoginForm describes the login form.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Login form", map[string]interface{}{
		"roles":  []string{entity.RoleDoctor, entity.RolePatient},
		"fields": []string{"username", "password", "role"},
	})
}

// Login authenticates the username+password+role triple and establishes
// a session, returned both as a bearer token and as a cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUpload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	req := dto.LoginRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, loginFailedMessage, nil)
			return
		}
		response.InternalServerError(w, "Failed to login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tokens.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.SuccessRedirect(w, http.StatusOK, "Login successful", tokens, dashboardPath(tokens.Role))
}

// Logout invalidates the current session, if any, and clears the cookie.
// Safe to call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if token := middleware.TokenFromRequest(r); token != "" {
		if claims, err := h.jwtService.ValidateToken(token); err == nil {
			sessionID = claims.SessionID
		}
	}

	if err := h.authUsecase.Logout(r.Context(), sessionID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	response.SuccessRedirect(w, http.StatusOK, "Logged out", nil, "/")
}

func dashboardPath(role string) string {
	if role == entity.RoleDoctor {
		return "/doctors_dashboard"
	}
	return "/patients_dashboard"
}
