package facet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the knobs for running a REST adapter as a server.
// Fields are populated from the environment by ConfigFromEnv.
type ServerConfig struct {
	Addr              string        `env:"FACET_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"FACET_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"FACET_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout    time.Duration `env:"FACET_REQUEST_TIMEOUT" envDefault:"0"`

	// RateLimit enables per-IP rate limiting when > 0.
	RateLimit float64 `env:"FACET_RATE_LIMIT" envDefault:"0"`
	RateBurst int     `env:"FACET_RATE_BURST" envDefault:"10"`
}

// ConfigFromEnv loads server configuration from environment variables.
func ConfigFromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Serve runs the adapter with the given configuration, applying the
// configured middleware. It blocks until the context is cancelled, then
// shuts down gracefully.
func (a *REST) Serve(ctx context.Context, cfg ServerConfig) error {
	if cfg.RequestTimeout > 0 {
		a.Use(Timeout(cfg.RequestTimeout))
	}
	if cfg.RateLimit > 0 {
		a.Use(RateLimit(RateLimitConfig{Rate: cfg.RateLimit, Burst: cfg.RateBurst}))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
