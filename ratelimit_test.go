package facet_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facet-go/facet"
)

func TestRateLimit_blocksAfterBurst(t *testing.T) {
	t.Parallel()

	reg, _ := newNotesRegistry()
	a := facet.NewREST(reg)
	a.Use(facet.RateLimit(facet.RateLimitConfig{Rate: 1, Burst: 2}))

	srv := httptest.NewServer(a)
	defer srv.Close()

	first := doRaw(t, srv, http.MethodGet, "/notes/1", "", nil)
	second := doRaw(t, srv, http.MethodGet, "/notes/1", "", nil)
	third := doRaw(t, srv, http.MethodGet, "/notes/1", "", nil)

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, third.StatusCode)
	assert.Equal(t, "1", third.Header.Get("Retry-After"))
}

func TestRateLimit_perKey(t *testing.T) {
	t.Parallel()

	reg, _ := newNotesRegistry()
	a := facet.NewREST(reg)
	a.Use(facet.RateLimit(facet.RateLimitConfig{
		Rate:  1,
		Burst: 1,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-API-Key")
		},
	}))

	srv := httptest.NewServer(a)
	defer srv.Close()

	alice1 := doRaw(t, srv, http.MethodGet, "/notes/1", "", map[string]string{"X-API-Key": "alice"})
	alice2 := doRaw(t, srv, http.MethodGet, "/notes/1", "", map[string]string{"X-API-Key": "alice"})
	bob := doRaw(t, srv, http.MethodGet, "/notes/1", "", map[string]string{"X-API-Key": "bob"})

	assert.Equal(t, http.StatusOK, alice1.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, alice2.StatusCode)
	assert.Equal(t, http.StatusOK, bob.StatusCode)
}

func TestRateLimit_customOnLimit(t *testing.T) {
	t.Parallel()

	reg, _ := newNotesRegistry()
	a := facet.NewREST(reg)
	a.Use(facet.RateLimit(facet.RateLimitConfig{
		Rate:  1,
		Burst: 1,
		OnLimit: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	}))

	srv := httptest.NewServer(a)
	defer srv.Close()

	doRaw(t, srv, http.MethodGet, "/notes/1", "", nil)
	resp := doRaw(t, srv, http.MethodGet, "/notes/1", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
