package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anwarji786/EnglishLearningApp/internal/api"
	apiMiddleware "github.com/anwarji786/EnglishLearningApp/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.learnerStore,
		app.jwtService,
		app.passwordService,
		app.passwordService,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	itemHandler := api.NewItemHandler(app.itemStore)
	storyHandler := api.NewStoryHandler(app.storyService)
	reviewHandler := api.NewReviewHandler(app.reviewService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Vocabulary items
			r.Post("/items", itemHandler.CreateItem)
			r.Get("/items/{id}", itemHandler.GetItem)

			// Review scheduling
			r.Get("/reviews/due", reviewHandler.GetDueItems)
			r.Get("/reviews/progress", reviewHandler.GetProgress)
			r.Post("/items/{id}/schedule", reviewHandler.ScheduleItem)
			r.Get("/items/{id}/schedule", reviewHandler.GetItemSchedule)
			r.Post("/items/{id}/answer", reviewHandler.SubmitAnswer)
			r.Post("/items/{id}/postpone", reviewHandler.PostponeItem)

			// Stories
			r.Post("/stories", storyHandler.CreateStory)
			r.Get("/stories", storyHandler.ListStories)
			r.Get("/stories/{id}", storyHandler.GetStory)
			r.Get("/stories/{id}/items", storyHandler.GetStoryItems)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
