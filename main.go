package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Rafhael-Viana/attendees/attendance"
	"github.com/Rafhael-Viana/attendees/config"
	"github.com/Rafhael-Viana/attendees/cors"
	"github.com/Rafhael-Viana/attendees/db"
	middleware "github.com/Rafhael-Viana/attendees/middlewares"
	"github.com/Rafhael-Viana/attendees/routes"
	"github.com/Rafhael-Viana/attendees/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *migrateOnly); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openConn(ctx context.Context, cfg *config.Config) (db.Conn, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	conn, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrateOnly bool) error {
	conn, err := openConn(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if migrateOnly {
		logger.Info("migrations applied", "driver", cfg.StoreDriver)
		return nil
	}

	origins := cors.NewMatcher(cfg.AllowedOrigins)
	hub := routes.NewHub(origins.CheckOrigin)
	defer hub.Close()

	st := store.New(conn)
	app := &routes.App{
		Store: st,
		Engine: attendance.New(st, attendance.Config{
			Timezone: cfg.Location(),
			PageSize: cfg.HistoryPageSize,
			Notifier: hub,
		}),
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Timeout:   cfg.RequestTimeout,
	}

	mux := http.NewServeMux()
	routes.Register(mux, app)

	handler := cors.Cors(cfg.AllowedOrigins, true)(mux)
	handler = middleware.RequestLogger(logger)(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "driver", cfg.StoreDriver, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}
