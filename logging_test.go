package facet_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facet-go/facet"
)

// lockedBuffer guards concurrent writes from the slog handler.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf lockedBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	reg, _ := newNotesRegistry()
	a := facet.NewREST(reg)
	a.Use(facet.Logger(logger))

	srv := httptest.NewServer(a)
	defer srv.Close()

	doRaw(t, srv, http.MethodGet, "/notes/1", "", nil)
	doRaw(t, srv, http.MethodGet, "/notes/99", "", nil)

	out := buf.String()
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/notes/1")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "status=404")
}

func TestLogger_includesRequestID(t *testing.T) {
	t.Parallel()

	var buf lockedBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	reg, _ := newNotesRegistry()
	a := facet.NewREST(reg)
	a.Use(facet.RequestID())
	a.Use(facet.Logger(logger))

	srv := httptest.NewServer(a)
	defer srv.Close()

	doRaw(t, srv, http.MethodGet, "/notes/1", "", map[string]string{"X-Request-ID": "req-42"})

	assert.Contains(t, buf.String(), "request_id=req-42")
}
