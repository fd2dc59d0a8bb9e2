package main

import (
	"net/http"
	"time"

	"yamdb/proj/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.Cors.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.StripSlashes)
	router.Use(metrics.Middleware)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)

	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			if app.cfg.Limiter.Enabled {
				r.Use(httprate.LimitByIP(app.cfg.Limiter.AuthRequestsPerMinute, time.Minute))
			}
			r.Post("/signup", app.signup)
			r.Post("/token", app.token)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listTaxa(app.Services.Categories, "categories"))
			r.With(app.requireAdmin).Post("/", app.createTaxon(app.Services.Categories, "category"))
			r.With(app.requireAdmin).Delete("/{slug}", app.deleteTaxon(app.Services.Categories))
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listTaxa(app.Services.Genres, "genres"))
			r.With(app.requireAdmin).Post("/", app.createTaxon(app.Services.Genres, "genre"))
			r.With(app.requireAdmin).Delete("/{slug}", app.deleteTaxon(app.Services.Genres))
		})
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.With(app.requireAdmin).Post("/", app.createTitle)
			r.Route("/{title_id}", func(r chi.Router) {
				r.Get("/", app.getTitle)
				r.With(app.requireAdmin).Put("/", app.updateTitle(false))
				r.With(app.requireAdmin).Patch("/", app.updateTitle(true))
				r.With(app.requireAdmin).Delete("/", app.deleteTitle)
				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", app.listReviews)
					r.With(app.requireAuthenticatedUser).Post("/", app.createReview)
					r.Route("/{review_id}", func(r chi.Router) {
						r.Get("/", app.getReview)
						r.With(app.requireAuthenticatedUser).Put("/", app.updateReview(false))
						r.With(app.requireAuthenticatedUser).Patch("/", app.updateReview(true))
						r.With(app.requireAuthenticatedUser).Delete("/", app.deleteReview)
						r.Route("/comments", func(r chi.Router) {
							r.Get("/", app.listComments)
							r.With(app.requireAuthenticatedUser).Post("/", app.createComment)
							r.Route("/{comment_id}", func(r chi.Router) {
								r.Get("/", app.getComment)
								r.With(app.requireAuthenticatedUser).Put("/", app.updateComment)
								r.With(app.requireAuthenticatedUser).Patch("/", app.updateComment)
								r.With(app.requireAuthenticatedUser).Delete("/", app.deleteComment)
							})
						})
					})
				})
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.Route("/me", func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Get("/", app.getMe)
				r.Patch("/", app.updateMe)
			})
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Get("/", app.listUsers)
				r.Post("/", app.createUser)
				r.Get("/{username}", app.getUser)
				r.Put("/{username}", app.updateUser(false))
				r.Patch("/{username}", app.updateUser(true))
				r.Delete("/{username}", app.deleteUser)
			})
		})
	})
	return router
}
