package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kuitang/notes-rest/internal/api"
	"github.com/kuitang/notes-rest/internal/config"
	"github.com/kuitang/notes-rest/internal/db"
	"github.com/kuitang/notes-rest/internal/mcp"
	"github.com/kuitang/notes-rest/internal/notes"
	"github.com/kuitang/notes-rest/internal/obs"
	"github.com/kuitang/notes-rest/internal/ratelimit"
)

func main() {
	addr := config.ParseFlags()
	cfg := config.MustLoadConfig(addr)
	obs.Init()
	log := obs.Pkg("main")

	cfg.PrintStartupSummary()

	sqlDB, err := db.Open(cfg.DatabasePath, cfg.DBMaxOpenConns)
	if err != nil {
		log.Error("db_open_failed", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}

	store := db.NewNoteStore(sqlDB, cfg.DBConnTimeout)
	defer store.Close()

	svc := notes.NewService(store)

	handler := api.NewHandler(svc)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/mcp", mcp.NewServer(svc))

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitConfig)
	defer limiter.Stop()

	var root http.Handler = mux
	root = ratelimit.Middleware(limiter, root)
	root = obs.AccessLogMiddleware("http", root)
	root = obs.RequestContextMiddleware(root)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_failed", "err", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown_failed", "err", err)
	}
	log.Info("server_stopped")
}
