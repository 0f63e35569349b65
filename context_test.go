package facet_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facet-go/facet"
	"github.com/facet-go/facet/facettest"
)

type tenant struct {
	Name string
}

func TestContextValues_middlewareToOperation(t *testing.T) {
	t.Parallel()

	reg := facet.New()
	whoami := reg.Resource("whoami")
	facet.List[facet.Void, Note](whoami, func(ctx context.Context, _ *facet.Void) (*Note, error) {
		tn, ok := facet.GetValue[tenant](ctx)
		if !ok {
			return nil, facet.Error(http.StatusInternalServerError, "tenant missing")
		}
		return &Note{Title: tn.Name}, nil
	})

	a := facet.NewREST(reg)
	a.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, facet.SetValue(r, tenant{Name: "acme"}))
		})
	})

	c := facettest.NewClient(t, a)
	resp := facettest.Get[Note](t, c, "/whoami")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "acme", resp.Body.Title)
}

func TestGetValue_missing(t *testing.T) {
	t.Parallel()

	_, ok := facet.GetValue[tenant](context.Background())
	assert.False(t, ok)
}

func TestWithValue_roundTrip(t *testing.T) {
	t.Parallel()

	ctx := facet.WithValue(context.Background(), tenant{Name: "acme"})
	tn, ok := facet.GetValue[tenant](ctx)
	assert.True(t, ok)
	assert.Equal(t, "acme", tn.Name)
}

func TestValueOr_fallback(t *testing.T) {
	t.Parallel()

	got := facet.ValueOr(context.Background(), tenant{Name: "default"})
	assert.Equal(t, "default", got.Name)

	ctx := facet.WithValue(context.Background(), tenant{Name: "acme"})
	assert.Equal(t, "acme", facet.ValueOr(ctx, tenant{Name: "default"}).Name)
}
