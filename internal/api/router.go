package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mkline/member-portal/internal/api/handlers"
	"github.com/mkline/member-portal/internal/api/middleware"
	"github.com/mkline/member-portal/internal/config"
	"github.com/mkline/member-portal/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, services.Tokens, cfg)
	profileHandler := handlers.NewProfileHandler(services.Profile)
	pages := handlers.NewPagesHandler()

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Tokens))
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Put("/", profileHandler.UpdateProfile)
			})
		})
	})

	// Pages. Login/register bounce authenticated callers to the profile;
	// the profile bounces anonymous callers to login.
	r.Get("/", pages.Home)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated(services.Tokens))
		r.Get("/auth/login", pages.Login)
		r.Get("/auth/register", pages.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(services.Tokens))
		r.Get("/profile", pages.Profile)
	})

	return r
}
