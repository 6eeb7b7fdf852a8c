package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"codeshare/internal/api"
	"codeshare/internal/session"
	"codeshare/internal/utils"
)

func New(log *utils.Logger, hub *session.Hub, sweeper *session.Sweeper, announcer *session.Announcer) http.Handler {
	h := api.NewHandlers(log, hub, sweeper, announcer)
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Post("/room", h.CreateRoom)
	r.Get("/room/{id}", h.GetRoom)

	r.Get("/ws", h.CollabWS)

	return r
}
