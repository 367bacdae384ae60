package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/arbor"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	loamAdapter "github.com/aretw0/arbor/pkg/adapters/loam"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Dir    string
	Addr   string
	Logger *slog.Logger
	// Out receives the startup and shutdown messages.
	Out io.Writer

	// Cache selects the html cache: "" or "none", "memory" or "redis".
	Cache     string
	RedisAddr string
	CacheTTL  time.Duration
}

// newCache builds the configured view cache. The returned closer is never nil.
func newCache(ctx context.Context, opts ServeOptions) (ports.ViewCache, func() error, error) {
	noop := func() error { return nil }
	switch opts.Cache {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return memory.NewCache(), noop, nil
	case "redis":
		c := redis.New(opts.RedisAddr, redis.WithTTL(opts.CacheTTL))
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, noop, err
		}
		// Markup rendered by a previous library version is stale.
		if err := c.Purge(ctx); err != nil {
			_ = c.Close()
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache %q (want none, memory or redis)", opts.Cache)
	}
}

// Serve runs the view server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	lib, err := loamAdapter.LoadLibrary(ctx, opts.Dir)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	eng, err := arbor.New(
		arbor.WithLibrary(lib),
		arbor.WithLogger(opts.Logger),
		arbor.WithMetrics(observability.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	cache, closeCache, err := newCache(ctx, opts)
	if err != nil {
		return err
	}
	defer closeCache()

	handlerOpts := []httpAdapter.Option{httpAdapter.WithGatherer(reg), httpAdapter.WithLogger(opts.Logger)}
	if cache != nil {
		handlerOpts = append(handlerOpts, httpAdapter.WithCache(cache))
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           httpAdapter.NewHandler(eng, handlerOpts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(opts.Out, "Starting arbor server on %s\n", srv.Addr)
		fmt.Fprintf(opts.Out, "Serving %d view(s) from: %s\n", len(lib.Names()), opts.Dir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", 5*time.Second, err)
		}
		fmt.Fprintln(opts.Out, "arbor server stopped gracefully")
		return nil
	}
}
