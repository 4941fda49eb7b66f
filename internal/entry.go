// Package internal provides the main application initialization and
// runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mkucera/catprep/internal/book"
	"github.com/mkucera/catprep/internal/gitmeta"
	"github.com/mkucera/catprep/internal/index"
	"github.com/mkucera/catprep/internal/render"
	"github.com/mkucera/catprep/internal/resolver"
	"github.com/mkucera/catprep/internal/server"
	"github.com/mkucera/catprep/internal/sse"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("book_root", cfg.Book.Root),
		slog.String("src", cfg.Book.SrcDir()),
		slog.String("out", cfg.Book.Out),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if !app.serve {
		_, b, err := buildSite(cfg, logger)
		if err != nil {
			logger.Error("build failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("build complete", slog.Int("documents", b.Len()))
		return nil
	}

	return runServe(ctx, cfg, logger)
}

// buildSite runs the whole pipeline once: load the source tree, resolve
// the context, produce and apply the renders, and write the output
// directory. Nothing is written on failure.
func buildSite(cfg *Config, logger *slog.Logger) (*resolver.Context, *book.Book, error) {
	git := gitmeta.New(cfg.Book.Root, cfg.Book.Src)

	b, err := book.LoadDir(cfg.Book.SrcDir())
	if err != nil {
		return nil, nil, err
	}

	cc, err := resolver.Resolve(b, cfg.Book.TeachersDir(), git, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve context: %w", err)
	}

	sites, err := render.CreateRenders(cc, b, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create renders: %w", err)
	}

	if err := render.ExecuteRenders(sites, b, logger); err != nil {
		return nil, nil, fmt.Errorf("execute renders: %w", err)
	}

	if err := b.WriteDir(cfg.Book.Out); err != nil {
		return nil, nil, err
	}

	logger.Info("site built",
		slog.Int("teachers", len(cc.Teachers)),
		slog.Int("subjects", len(cc.Subjects)),
		slog.Int("articles", len(cc.Articles)),
		slog.Int("tags", len(cc.Tags)))
	return cc, b, nil
}

// runServe builds the site, then serves it with live rebuild on source
// changes and full-text search over the article index.
func runServe(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	cc, b, err := buildSite(cfg, logger)
	if err != nil {
		return err
	}
	if err := index.IndexContext(db, cc, b); err != nil {
		return fmt.Errorf("index site: %w", err)
	}

	broker := sse.NewBroker()
	defer broker.Close()

	svc := server.NewService(db)
	r := server.NewRouter(svc, http.HandlerFunc(broker.ServeHTTP), cfg.Book.Out)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	// rebuild is called from the watcher goroutines; builds must not
	// overlap.
	var buildMu sync.Mutex
	rebuild := func() {
		buildMu.Lock()
		defer buildMu.Unlock()

		cc, b, err := buildSite(cfg, logger)
		if err != nil {
			logger.Warn("rebuild failed", slog.String("error", err.Error()))
			return
		}
		if err := index.IndexContext(db, cc, b); err != nil {
			logger.Warn("reindex failed", slog.String("error", err.Error()))
			return
		}
		broker.PublishReload(b.Len())
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the source tree and the teachers folder.
	g.Go(func() error {
		return book.Watch(gCtx, cfg.Book.SrcDir(), logger, rebuild)
	})
	g.Go(func() error {
		return book.Watch(gCtx, cfg.Book.TeachersDir(), logger, rebuild)
	})

	// Start HTTP server.
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Shut the HTTP server down once the context is cancelled (signal or
	// failing goroutine).
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
