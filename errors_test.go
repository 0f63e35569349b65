package facet_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facet-go/facet"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, facet.ErrorStatus(facet.Error(http.StatusNotFound, "gone")))
	assert.Equal(t, http.StatusInternalServerError, facet.ErrorStatus(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", facet.Error(http.StatusConflict, "busy"))
	assert.Equal(t, http.StatusConflict, facet.ErrorStatus(wrapped))

	timedOut := fmt.Errorf("fetch: %w", context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, facet.ErrorStatus(timedOut))
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := facet.Errorf(http.StatusBadRequest, "bad %s", "input")
	assert.Equal(t, "bad input", err.Error())

	var se *facet.StatusError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode())
}

func TestProblem_asError(t *testing.T) {
	t.Parallel()

	p := &facet.Problem{
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: "2 constraint violation(s)",
	}
	assert.Equal(t, "2 constraint violation(s)", p.Error())
	assert.Equal(t, http.StatusBadRequest, p.StatusCode())

	empty := &facet.Problem{Title: "Not Found", Status: http.StatusNotFound}
	assert.Equal(t, "Not Found", empty.Error())
}
