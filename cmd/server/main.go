package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/youruser/vcardapp/internal/api"
	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/config"
	imagepkg "github.com/youruser/vcardapp/internal/image"
	"github.com/youruser/vcardapp/internal/metrics"
	"github.com/youruser/vcardapp/internal/render"
	"github.com/youruser/vcardapp/internal/storage"
	"github.com/youruser/vcardapp/internal/store"
	"github.com/youruser/vcardapp/internal/suggest"
	"github.com/youruser/vcardapp/internal/util"
)

func main() {
	cfg := config.MustLoad()
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fonts, skipped, err := render.LoadFonts(cfg.Render.FontsDir)
	if err != nil {
		logger.Warn("font directory unavailable, using built-in fallback", slog.String("error", err.Error()))
	}
	for name, ferr := range skipped {
		logger.Warn("skipped font file", slog.String("file", name), slog.String("error", ferr.Error()))
	}
	logger.Info("fonts loaded", slog.Any("families", fonts.Families()))

	templates, skippedTemplates, err := card.LoadTemplatesFromDir(cfg.Render.TemplatesDir)
	if err != nil {
		logger.Warn("templates unavailable", slog.String("error", err.Error()))
	}
	for name, terr := range skippedTemplates {
		logger.Warn("skipped template", slog.String("file", name), slog.String("error", terr.Error()))
	}

	var (
		objects api.ObjectStore
		opener  imagepkg.ObjectOpener
	)
	if cfg.MinIO.Enabled {
		client, err := storage.NewClient(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		objects, opener = client, client
		logger.Info("object storage ready", slog.String("bucket", cfg.MinIO.Bucket))
	}

	resolver := imagepkg.NewResolver(imagepkg.ResolverOptions{
		Objects:       opener,
		MaxBytes:      cfg.Render.MaxImageBytes,
		MaxPixels:     cfg.Render.MaxImagePixels,
		Fetcher:       util.NewFetcher(!cfg.Render.AllowPrivateHosts),
		DisableRemote: !cfg.Render.AllowRemoteRefs,
		AllowFiles:    cfg.Render.AllowFileRefs,
		BaseDir:       cfg.Render.AssetsDir,
	})
	renderer := render.New(resolver, fonts,
		render.WithLogger(logger),
		render.WithImageTimeout(cfg.Render.ImageTimeout),
		render.WithImageFailureHook(metrics.ImageLoadFailed),
	)

	designs, closeDesigns, err := newDesignStore(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeDesigns()

	var suggester api.Suggester
	if cfg.AI.APIKey != "" {
		gen, err := suggest.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return fmt.Errorf("init ai client: %w", err)
		}
		suggester = suggest.NewService(gen, logger, cfg.AI.Timeout)
	} else {
		logger.Warn("GEMINI_API_KEY not set, ai suggestions disabled")
	}

	var scanner api.Scanner
	if cfg.Clamd.Addr != "" {
		scanner = api.ClamdScanner{Addr: cfg.Clamd.Addr}
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, api.Handlers{
		Card:    api.NewCardHandler(renderer, fonts, templates, objects, cfg.MinIO.PresignTTL),
		Design:  api.NewDesignHandler(designs),
		Suggest: api.NewSuggestHandler(suggester),
		Asset:   api.NewAssetHandler(objects, scanner, cfg.Render.MaxImageBytes, cfg.MinIO.PresignTTL),
		Editor:  api.NewEditorHandler(renderer, designs, suggester, cfg.Editor.HistoryLimit, cfg.API.AllowedOrigins),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newDesignStore returns the Redis store, or a file under DesignDir when
// Redis is disabled.
func newDesignStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (store.DesignStore, func(), error) {
	if !cfg.Enabled {
		path := filepath.Join(cfg.DesignDir, cfg.DesignKey+".json")
		logger.Info("saving designs to file", slog.String("path", path))
		return store.NewFileStore(path), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Addr(), err)
	}
	logger.Info("redis ready", slog.String("addr", cfg.Addr()))
	return store.NewRedisStore(client, cfg.DesignKey), func() { client.Close() }, nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
