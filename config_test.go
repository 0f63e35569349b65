package facet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facet-go/facet"
)

func TestConfigFromEnv_defaults(t *testing.T) {
	cfg, err := facet.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
}

func TestConfigFromEnv_overrides(t *testing.T) {
	t.Setenv("FACET_ADDR", "127.0.0.1:9999")
	t.Setenv("FACET_READ_HEADER_TIMEOUT", "2s")
	t.Setenv("FACET_RATE_LIMIT", "50")
	t.Setenv("FACET_RATE_BURST", "100")

	cfg, err := facet.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.ReadHeaderTimeout)
	assert.InDelta(t, 50.0, cfg.RateLimit, 0.001)
	assert.Equal(t, 100, cfg.RateBurst)
}

func TestConfigFromEnv_invalid(t *testing.T) {
	t.Setenv("FACET_READ_HEADER_TIMEOUT", "not-a-duration")

	_, err := facet.ConfigFromEnv()
	assert.Error(t, err)
}
