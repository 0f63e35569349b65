// Package facettest provides typed test helpers for the facet framework.
package facettest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facet-go/facet"
)

// Client wraps an httptest.Server for convenient API testing. Any adapter
// works — it only needs an http.Handler.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client from an adapter.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded API response.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Raw     *http.Response
}

// Get sends a typed GET request.
func Get[Out any](t testing.TB, c *Client, path string) *Response[Out] {
	t.Helper()
	return do[Out](t, c, http.MethodGet, path, nil)
}

// Post sends a typed POST request with a JSON body.
func Post[In, Out any](t testing.TB, c *Client, path string, body *In) *Response[Out] {
	t.Helper()
	return do[Out](t, c, http.MethodPost, path, body)
}

// Put sends a typed PUT request with a JSON body.
func Put[In, Out any](t testing.TB, c *Client, path string, body *In) *Response[Out] {
	t.Helper()
	return do[Out](t, c, http.MethodPut, path, body)
}

// Patch sends a typed PATCH request with a JSON body.
func Patch[In, Out any](t testing.TB, c *Client, path string, body *In) *Response[Out] {
	t.Helper()
	return do[Out](t, c, http.MethodPatch, path, body)
}

// Delete sends a typed DELETE request.
func Delete[Out any](t testing.TB, c *Client, path string) *Response[Out] {
	t.Helper()
	return do[Out](t, c, http.MethodDelete, path, nil)
}

// CallResult is a decoded RPC response envelope.
type CallResult[T any] struct {
	Status int
	Result *T
	Error  *facet.Problem
}

// Call sends a JSON call envelope to an RPC adapter mounted at path.
func Call[Out any](t testing.TB, c *Client, path, call string, params map[string]string, input any) *CallResult[Out] {
	t.Helper()

	envelope := map[string]any{"call": call}
	if params != nil {
		envelope["params"] = params
	}
	if input != nil {
		envelope["input"] = input
	}

	b, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("facettest: marshal envelope: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.Server.URL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("facettest: build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("facettest: send request: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("facettest: close response body: %v", err)
		}
	}()

	var decoded struct {
		Result *Out           `json:"result"`
		Error  *facet.Problem `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("facettest: decode envelope: %v", err)
	}

	return &CallResult[Out]{
		Status: resp.StatusCode,
		Result: decoded.Result,
		Error:  decoded.Error,
	}
}

func do[Out any](t testing.TB, c *Client, method, path string, body any) *Response[Out] {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("facettest: marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("facettest: build request: %v", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("facettest: send request: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("facettest: close response body: %v", err)
		}
	}()

	out := &Response[Out]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Raw:     resp,
	}

	// Only decode JSON bodies; plain-text responses (e.g. the mux's own
	// 404) are left to Raw.
	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 ||
		!strings.Contains(resp.Header.Get("Content-Type"), "json") {
		return out
	}

	var decoded Out
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("facettest: decode response body: %v", err)
	}
	out.Body = &decoded

	return out
}
