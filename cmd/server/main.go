package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/DoyleJ11/sketchparty-backend/internal/config"
	"github.com/DoyleJ11/sketchparty-backend/internal/game"
	"github.com/DoyleJ11/sketchparty-backend/internal/httpapi"
	"github.com/DoyleJ11/sketchparty-backend/internal/logging"
	"github.com/DoyleJ11/sketchparty-backend/internal/registry"
	"github.com/DoyleJ11/sketchparty-backend/internal/words"
	"github.com/DoyleJ11/sketchparty-backend/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		return err
	}
	defer func() {
		// stderr sync fails on some platforms; nothing to do about it
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}

	reg := registry.New(context.Background(), registry.Options{
		Catalog: catalog,
		Timing: game.Timing{
			StartDelay:  cfg.StartDelay,
			DecisiveGap: cfg.DecisiveTurnGap,
			PartialGap:  cfg.PartialTurnGap,
		},
		TickInterval: cfg.TickInterval,
		Logger:       log.Named("rooms"),
	})

	handler := httpapi.SetupRoutes(reg, ws.Options{
		Rate:           rate.Limit(cfg.ClientRate),
		Burst:          cfg.ClientBurst,
		PingInterval:   cfg.PingInterval,
		PingTimeout:    cfg.PingTimeout,
		OriginPatterns: cfg.AllowedOrigins,
		Logger:         log.Named("ws"),
	}, log.Named("http"))

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.Int("words", len(catalog)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return multierr.Combine(
			srv.Shutdown(sctx),
			reg.Shutdown(sctx),
		)
	})
	return g.Wait()
}

// loadCatalog prefers the database, then a word file, then the built-in list.
func loadCatalog(ctx context.Context, cfg config.Config, log *zap.Logger) ([]string, error) {
	switch {
	case cfg.DatabaseURL != "":
		list, err := words.Load(ctx, cfg.DatabaseURL, words.Default())
		if err != nil {
			return nil, fmt.Errorf("word catalog: %w", err)
		}
		log.Info("word catalog from database", zap.Int("words", len(list)))
		return list, nil
	case cfg.WordsFile != "":
		list, err := words.LoadFile(cfg.WordsFile)
		if err != nil {
			return nil, fmt.Errorf("word catalog: %w", err)
		}
		log.Info("word catalog from file", zap.String("path", cfg.WordsFile), zap.Int("words", len(list)))
		return list, nil
	default:
		return words.Default(), nil
	}
}
