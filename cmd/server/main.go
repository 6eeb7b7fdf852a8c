package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"codeshare/internal/routers"
	"codeshare/internal/session"
	"codeshare/internal/utils"
)

var (
	defaultPort = "5000"

	listenAndServe = http.ListenAndServe
	exitFunc       = func(err error) { log.Fatal(err) }
)

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}

func run(ctx context.Context) error {
	// Load local .env (dev only)
	_ = godotenv.Load()

	logger := utils.NewLogger()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hub := session.NewHub()

	// Redis lifecycle mirror is optional; a nil announcer is a no-op.
	var announcer *session.Announcer
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		announcer = session.NewAnnouncer(addr)
		defer announcer.Close()
	}

	sweeper := session.NewSweeper(hub, logger, announcer)
	go sweeper.Run(ctx)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	r.Mount("/", routers.New(logger, hub, sweeper, announcer))

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	addr := ":" + port
	log.Printf("codeshare listening on %s", addr)
	return listenAndServe(addr, r)
}
