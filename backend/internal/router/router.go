package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/boardsync/backend/internal/setup"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
	"github.com/itchan-dev/boardsync/shared/middleware/metrics"
	rl "github.com/itchan-dev/boardsync/shared/middleware/ratelimiter"
)

// New creates the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints of that group combined
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)

	// setup CORS for the web client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(deps.AuthMiddleware.NeedAuth())

		v1.Get("/boards", h.GetBoards)
		v1.Get("/boards/{board}", h.GetBoard)
		v1.Get("/boards/{board}/events", h.BoardEvents)

		v1.Group(func(mutations chi.Router) {
			mutations.Use(mw.RateLimit(rl.New(deps.Config.Public.MutationRPS, deps.Config.Public.MutationRPS, time.Hour), mw.GetUserIDFromContext))

			mutations.Post("/boards", h.CreateBoard)
			mutations.Delete("/boards/{board}", h.DeleteBoard)

			mutations.Post("/boards/{board}/lists", h.CreateList)
			mutations.Patch("/lists/{list}", h.UpdateList)
			mutations.Post("/lists/{list}/reorder", h.ReorderList)
			mutations.Delete("/lists/{list}", h.DeleteList)

			mutations.Post("/lists/{list}/cards", h.CreateCard)
			mutations.Patch("/cards/{card}", h.UpdateCard)
			mutations.Post("/cards/{card}/move", h.MoveCard)
			mutations.Delete("/cards/{card}", h.DeleteCard)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
	return r
}
