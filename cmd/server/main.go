package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/handspeak/handspeak/internal/assets"
	"github.com/handspeak/handspeak/internal/catalog"
	"github.com/handspeak/handspeak/internal/learning"
	"github.com/handspeak/handspeak/internal/platform/cache"
	"github.com/handspeak/handspeak/internal/platform/config"
	"github.com/handspeak/handspeak/internal/platform/database"
	"github.com/handspeak/handspeak/internal/platform/kvstore"
	"github.com/handspeak/handspeak/internal/progress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	kv, cleanup, err := openKV(ctx, cfg)
	if err != nil {
		// Progress durability is best-effort; an unreachable backend
		// degrades to in-memory for the session.
		slog.Warn("durable store unavailable, progress is in-memory only", "backend", cfg.Progress.Backend, "error", err)
		kv = kvstore.NewMemory()
	}
	if cleanup != nil {
		defer cleanup()
	}

	resolver := assets.NewResolver(assets.Config{
		CloudName:  cfg.Assets.CloudName,
		Version:    cfg.Assets.Version,
		VersionAlt: cfg.Assets.VersionAlt,
	})
	store := progress.NewStore(kv)
	failCache := assets.NewFailCache(kv)
	failCache.Load(ctx)

	svc := learning.NewService(resolver, store)

	categories, err := catalog.CategoriesFromYAML(cfg.Catalog.CategoriesPath)
	if err != nil {
		slog.Error("loading categories", "path", cfg.Catalog.CategoriesPath, "error", err)
		os.Exit(1)
	}

	sources, err := sourcesFromPaths(cfg.Catalog.SignSources)
	if err != nil {
		slog.Error("resolving catalog sources", "error", err)
		os.Exit(1)
	}

	if err := svc.Start(ctx, categories, sources...); err != nil {
		// Courses stay empty; the API serves the error state instead of
		// crashing, matching the app's "show a message" behavior.
		slog.Error("catalog unavailable", "error", err)
	}

	mux := newMux(&server{svc: svc, failCache: failCache})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openKV connects the configured durable backend.
func openKV(ctx context.Context, cfg *config.Config) (kvstore.KV, func(), error) {
	switch cfg.Progress.Backend {
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedis(c.Client), func() { c.Close() }, nil
	case "postgres":
		db, err := database.New(ctx, database.Settings{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		kv, err := kvstore.NewPostgres(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return kv, db.Close, nil
	default:
		return kvstore.NewMemory(), nil, nil
	}
}

// sourcesFromPaths maps each catalog file to a reader by extension.
func sourcesFromPaths(paths []string) ([]catalog.Source, error) {
	sources := make([]catalog.Source, 0, len(paths))
	for _, path := range paths {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			sources = append(sources, catalog.FromJSONFile(path))
		case ".yaml", ".yml":
			sources = append(sources, catalog.FromYAMLFile(path))
		case ".xlsx":
			sources = append(sources, catalog.FromXLSXFile(path))
		default:
			return nil, fmt.Errorf("unsupported catalog source %q", path)
		}
	}
	return sources, nil
}
