package http

import (
	"net/http"

	"medportal/internal/delivery/http/handler"
	"medportal/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	authHandler      *handler.AuthHandler
	dashboardHandler *handler.DashboardHandler
	blogHandler      *handler.BlogHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
	blogHandler *handler.BlogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		authHandler:      authHandler,
		dashboardHandler: dashboardHandler,
		blogHandler:      blogHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Public routes
	r.router.HandleFunc("/", r.dashboardHandler.Home).Methods(http.MethodGet)
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.HandleFunc("/register", r.authHandler.RegisterForm).Methods(http.MethodGet)
	r.router.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	r.router.HandleFunc("/login", r.authHandler.LoginForm).Methods(http.MethodGet)
	r.router.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Logout is deliberately unauthenticated so it stays idempotent for
	// expired or missing sessions.
	r.router.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodGet)

	// Doctor routes
	r.router.Handle("/doctors_dashboard", r.doctorOnly(r.dashboardHandler.DoctorDashboard)).Methods(http.MethodGet)
	r.router.Handle("/blog/create", r.doctorOnly(r.blogHandler.CreateForm)).Methods(http.MethodGet)
	r.router.Handle("/blog/create", r.doctorOnly(r.blogHandler.CreatePost)).Methods(http.MethodPost)
	r.router.Handle("/blog/my_posts", r.doctorOnly(r.blogHandler.MyPosts)).Methods(http.MethodGet)

	// Patient routes
	r.router.Handle("/patients_dashboard", r.patientOnly(r.dashboardHandler.PatientDashboard)).Methods(http.MethodGet)
	r.router.Handle("/blog", r.patientOnly(r.blogHandler.Browse)).Methods(http.MethodGet)

	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) doctorOnly(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireDoctor(h))
}

func (r *Router) patientOnly(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequirePatient(h))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
