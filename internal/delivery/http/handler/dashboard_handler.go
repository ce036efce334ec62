package handler

import (
	"errors"
	"net/http"

	"medportal/internal/delivery/http/middleware"
	"medportal/internal/usecase"
	"medportal/pkg/response"
)

type DashboardHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewDashboardHandler(authUsecase usecase.AuthUsecase) *DashboardHandler {
	return &DashboardHandler{authUsecase: authUsecase}
}

// Home is the public landing page payload.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Welcome to the Medical Portal", nil)
}

// DoctorDashboard returns the logged-in doctor's profile.
func (h *DashboardHandler) DoctorDashboard(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r)
}

// PatientDashboard returns the logged-in patient's profile.
func (h *DashboardHandler) PatientDashboard(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r)
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthenticated(w, "Authentication required")
		return
	}

	user, err := h.authUsecase.CurrentUser(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to load dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard", user)
}
