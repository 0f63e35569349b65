package facet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facet-go/facet"
	"github.com/facet-go/facet/facettest"
)

type probeIn struct {
	Tenant  string        `header:"X-Tenant" default:"public"`
	Wait    time.Duration `query:"wait" default:"5s"`
	Dry     bool          `query:"dry"`
	Retries int           `query:"retries" default:"3"`
}

type probeOut struct {
	Tenant  string `json:"tenant"`
	Wait    string `json:"wait"`
	Dry     bool   `json:"dry"`
	Retries int    `json:"retries"`
}

func newProbeServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := facet.New()
	probes := reg.Resource("probes")
	facet.List[probeIn, probeOut](probes, func(_ context.Context, in *probeIn) (*probeOut, error) {
		return &probeOut{
			Tenant:  in.Tenant,
			Wait:    in.Wait.String(),
			Dry:     in.Dry,
			Retries: in.Retries,
		}, nil
	})

	srv := httptest.NewServer(facet.NewREST(reg))
	t.Cleanup(srv.Close)
	return srv
}

func TestBind_defaults(t *testing.T) {
	t.Parallel()

	c := &facettest.Client{Server: newProbeServer(t)}
	resp := facettest.Get[probeOut](t, c, "/probes")

	require.NotNil(t, resp.Body)
	assert.Equal(t, "public", resp.Body.Tenant)
	assert.Equal(t, "5s", resp.Body.Wait)
	assert.False(t, resp.Body.Dry)
	assert.Equal(t, 3, resp.Body.Retries)
}

func TestBind_explicitValues(t *testing.T) {
	t.Parallel()

	srv := newProbeServer(t)
	resp := doRaw(t, srv, http.MethodGet, "/probes?wait=1m&dry=true&retries=7", "", map[string]string{
		"X-Tenant": "acme",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c := &facettest.Client{Server: srv}
	out := facettest.Get[probeOut](t, c, "/probes?wait=90s&dry=1")
	assert.Equal(t, "1m30s", out.Body.Wait)
	assert.True(t, out.Body.Dry)
}

func TestBind_badDuration(t *testing.T) {
	t.Parallel()

	srv := newProbeServer(t)
	resp := doRaw(t, srv, http.MethodGet, "/probes?wait=never", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBind_headerValue(t *testing.T) {
	t.Parallel()

	srv := newProbeServer(t)
	resp := doRaw(t, srv, http.MethodGet, "/probes", "", map[string]string{"X-Tenant": "acme"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out probeOut
	decodeJSONBody(t, resp, &out)
	assert.Equal(t, "acme", out.Tenant)
}
