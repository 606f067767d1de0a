// Package internal provides the main application initialization and
// pipeline orchestration.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/disiqueira/gotree/v3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/manifest"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/pathindex"
	"github.com/starford/raido/internal/resolve"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/section"
	"github.com/starford/raido/internal/server"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/watch"
	"github.com/starford/raido/internal/writer"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.flattener == nil {
		app.flattener = &writer.Pandoc{}
	}
	return app, nil
}

func initLogger(cfg *Config, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// outputDir returns the language-specific output base: the configured
// output dir with the language code appended unless it already ends in
// it.
func outputDir(cfg *Config) string {
	out := cfg.Course.OutputDir
	if filepath.Base(out) == cfg.Course.Language {
		return out
	}
	return filepath.Join(out, cfg.Course.Language)
}

// Build runs the pipeline once and exits.
func Build(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := initLogger(cfg, os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("input", cfg.Course.Input),
		slog.String("output_dir", outputDir(cfg)),
		slog.String("language", cfg.Course.Language),
		slog.String("format", cfg.Course.Format),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(outputDir(cfg))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := search.Open(cfg.Search.Path)
	if err != nil {
		return fmt.Errorf("init search index: %w", err)
	}
	defer db.Close()

	if err := runPipeline(ctx, cfg, store, db, app.flattener, logger); err != nil {
		logger.Error("Build failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Build finished")
	return nil
}

// runPipeline executes the strictly staged pipeline: decode → section
// tree → indexes → link resolution → search reindex → write →
// toc/manifest → delete input. No stage starts before the previous one
// has fully completed; a link anywhere in the tree may target a section
// defined later in the document.
func runPipeline(ctx context.Context, cfg *Config, store storage.Provider, db *search.DB, flattener writer.Flattener, logger *slog.Logger) error {
	data, err := os.ReadFile(cfg.Course.Input)
	if err != nil {
		return fmt.Errorf("read input artifact: %w", err)
	}

	doc, err := document.Decode(data)
	if err != nil {
		return err
	}

	sections, preamble := section.Build(doc.Blocks, 1)
	if len(preamble) > 0 && len(sections) > 0 {
		lead := make(document.Nodes, 0, len(preamble)+len(sections[0].Content))
		sections[0].Content = append(append(lead, preamble...), sections[0].Content...)
	}
	logger.Info("Extracted table of contents", slog.Int("sections", len(sections)))

	// Both indexes only read the finished tree; build them in parallel.
	var sectionIdx, elementIdx map[string]string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		sectionIdx = pathindex.Sections(sections)
		return nil
	})
	g.Go(func() error {
		elementIdx = pathindex.Elements(sections, logger)
		return nil
	})
	_ = g.Wait()
	logger.Info("Created id maps",
		slog.Int("section_ids", len(sectionIdx)),
		slog.Int("element_ids", len(elementIdx)))

	resolve.New(sectionIdx, elementIdx, logger).Process(sections)
	logger.Info("Post-processed links")

	// Index while content is still attached; the writer detaches it.
	if err := db.Reindex(sections); err != nil {
		return err
	}

	w := writer.New(store, cfg.Course.Format, flattener, logger)
	if err := w.WriteAll(ctx, sections); err != nil {
		return err
	}

	if cfg.Course.Format == writer.FormatMarkdown {
		title := doc.Title()
		if title == "" {
			title = "UNKNOWN COURSE"
		}
		manifestPath := filepath.Join(outputDir(cfg), "..", "manifest.yml")
		if err := manifest.Update(manifestPath, cfg.Course.Language, title); err != nil {
			return err
		}
		logger.Info("Updated manifest", slog.String("path", manifestPath))
	} else {
		if err := w.WriteTOC(sections); err != nil {
			return err
		}
	}

	if err := os.Remove(cfg.Course.Input); err != nil {
		return fmt.Errorf("remove input artifact: %w", err)
	}
	logger.Info("Removed input artifact", slog.String("path", cfg.Course.Input))

	if cfg.Course.Debug {
		logTOCTree(sections, logger)
	}
	return nil
}

// logTOCTree renders the content-stripped tree for debug runs.
func logTOCTree(sections []*section.Section, logger *slog.Logger) {
	root := gotree.New("toc")
	var add func(tr gotree.Tree, s *section.Section, depth int)
	add = func(tr gotree.Tree, s *section.Section, depth int) {
		if depth > section.MaxLevel {
			return
		}
		node := tr.Add(fmt.Sprintf("%s (%s)", document.Stringify(s.Title), s.ID))
		for _, child := range s.Children {
			add(node, child, depth+1)
		}
	}
	for _, s := range sections {
		add(root, s, 1)
	}
	for _, line := range strings.Split(strings.TrimRight(root.Print(), "\n"), "\n") {
		logger.Info("TOC " + line)
	}
}

// Serve exposes an already-built course over HTTP; with course.watch
// enabled it also rebuilds whenever the upstream artifact reappears.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := initLogger(cfg, os.Stdout)

	store, err := storage.NewFS(outputDir(cfg))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := search.Open(cfg.Search.Path)
	if err != nil {
		return fmt.Errorf("init search index: %w", err)
	}
	defer db.Close()

	broker := sse.NewBroker()
	defer broker.Close()

	h := server.NewHandler(store, db, cfg.Course.Format)
	apiRouter := server.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Course.Watch {
		lang := cfg.Course.Language
		g.Go(func() error {
			return watch.Run(gCtx, cfg.Course.Input, logger, func(ctx context.Context) error {
				broker.PublishBuildEvent(sse.EventBuildStarted, lang)
				if err := runPipeline(ctx, cfg, store, db, app.flattener, logger); err != nil {
					broker.PublishBuildEvent(sse.EventBuildFailed, lang)
					return err
				}
				broker.PublishBuildEvent(sse.EventCourseUpdated, lang)
				return nil
			})
		})
	}

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

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

// ServeMCP exposes the built course over stdio MCP. Logs go to stderr;
// stdout belongs to the protocol.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	initLogger(cfg, os.Stderr)

	store, err := storage.NewFS(outputDir(cfg))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := search.Open(cfg.Search.Path)
	if err != nil {
		return fmt.Errorf("init search index: %w", err)
	}
	defer db.Close()

	return mcpserver.New(store, db, cfg.Course.Format).ServeStdio()
}
