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

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/recera/clueso-site/app/routes"
	"github.com/recera/clueso-site/app/views"
	"github.com/recera/clueso-site/internal/cache"
	"github.com/recera/clueso-site/internal/config"
	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/internal/logging"
	"github.com/recera/clueso-site/internal/metrics"
	"github.com/recera/clueso-site/internal/submit"
	"github.com/recera/clueso-site/pkg/live"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var (
		addr        string
		contentPath string
		watch       bool
		endpoint    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the site",
		Long: `Serves the pages, the live view websocket at /live, the form API and
Prometheus metrics at /metrics. Settings come from the environment (and .env);
flags override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("content") {
				cfg.ContentPath = contentPath
			}
			if flags.Changed("watch") {
				cfg.WatchContent = watch
			}
			if flags.Changed("submit-endpoint") {
				cfg.SubmitEndpoint = endpoint
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVarP(&contentPath, "content", "c", "", "Content file overriding the embedded default")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the content file when it changes")
	cmd.Flags().StringVar(&endpoint, "submit-endpoint", "", "Deliver form submissions to this URL instead of simulating them")

	return cmd
}

// site is the assembled application
type site struct {
	store   *content.Store
	metrics *metrics.Metrics
	pages   *cache.Cache
	live    *live.Server
	handler http.Handler
}

// newSite wires content, views, submissions, the live server and metrics
// into one handler.
func newSite(cfg *config.Config, logger *slog.Logger, clock clockwork.Clock) (*site, error) {
	c, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	m := metrics.New()
	store := content.NewStore(c, logger.With("component", "content"))
	pages := cache.New(cache.Config{
		MaxAge:   cfg.PageCacheTTL,
		Clock:    clock,
		Recorder: m,
	})
	store.OnReload = func(*content.Content) {
		m.ContentReloads.Inc()
		pages.Clear()
	}

	submitter, err := newSubmitter(cfg, logger, clock, m)
	if err != nil {
		return nil, err
	}
	service := submit.NewService(submitter,
		submit.WithTimeout(cfg.SubmitTimeout),
		submit.WithRecorder(m),
		submit.WithLogger(logger.With("component", "submit")),
		submit.WithClock(clock),
	)

	factory := views.NewFactory(store, views.Options{
		Clock:    clock,
		Recorder: m,
		Logger:   logger.With("component", "views"),
		Submit:   service,
	})
	liveServer := live.NewServer(factory.Build, live.Options{
		MaxSessions: cfg.LiveMaxSessions,
		Recorder:    m,
		Logger:      logger.With("component", "live"),
	})

	router := routes.NewRouter(routes.Deps{
		Content: store,
		Views:   factory,
		Submit:  service,
		Logger:  logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/live", liveServer)
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/", m.Instrument(pages.Handler(router)))

	return &site{store: store, metrics: m, pages: pages, live: liveServer, handler: mux}, nil
}

func newSubmitter(cfg *config.Config, logger *slog.Logger, clock clockwork.Clock, m *metrics.Metrics) (submit.Submitter, error) {
	if cfg.SubmitEndpoint == "" {
		logger.Info("Form submissions are simulated", "latency", cfg.SubmitLatency)
		return submit.NewSimulatedSubmitter(clock, cfg.SubmitLatency), nil
	}

	s, err := submit.NewHTTPSubmitter(cfg.SubmitEndpoint, submit.HTTPOptions{
		Clock:           clock,
		Logger:          logger.With("component", "submit"),
		OnBreakerChange: m.BreakerChanged,
	})
	if err != nil {
		return nil, fmt.Errorf("submit endpoint: %w", err)
	}
	logger.Info("Form submissions are delivered over HTTP", "endpoint", cfg.SubmitEndpoint)
	return s, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.Init(cfg.LogLevel, cfg.LogFormat, nil)
	logger.Info("Application starting", "addr", cfg.Addr, "version", version)

	s, err := newSite(cfg, logger, clockwork.NewRealClock())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WatchContent {
		go func() {
			if err := s.store.Watch(ctx, cfg.ContentPath); err != nil {
				logger.Error("Content watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, cleaning up...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// live sessions are hijacked connections that http.Server.Shutdown does
	// not track
	if err := s.live.Shutdown(shutdownCtx); err != nil {
		logger.Error("Live server shutdown error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
