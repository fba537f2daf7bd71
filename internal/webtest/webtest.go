// Package webtest drives http.Handlers in tests with a fluent request
// builder and response assertions.
package webtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// Client builds requests bound to a test.
type Client struct {
	t *testing.T
}

// New returns a Client that reports failures on t.
func New(t *testing.T) *Client {
	return &Client{t: t}
}

// Get starts a GET request.
func (c *Client) Get(path string) *Request { return c.Request(http.MethodGet, path) }

// Post starts a POST request.
func (c *Client) Post(path string) *Request { return c.Request(http.MethodPost, path) }

// Request starts a request with any method.
func (c *Client) Request(method, path string) *Request {
	return &Request{t: c.t, method: method, path: path, header: make(http.Header)}
}

// Request is a request under construction.
type Request struct {
	t      *testing.T
	method string
	path   string
	header http.Header
	body   io.Reader
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// BodyString sets a raw body. Set Content-Type separately.
func (r *Request) BodyString(body string) *Request {
	r.body = strings.NewReader(body)
	return r
}

// JSON marshals v as the body and sets Content-Type.
func (r *Request) JSON(v any) *Request {
	r.t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		r.t.Fatalf("marshal request body: %v", err)
	}
	r.body = bytes.NewReader(b)
	r.header.Set("Content-Type", "application/json")
	return r
}

// Form url-encodes data as the body and sets Content-Type.
func (r *Request) Form(data url.Values) *Request {
	r.body = strings.NewReader(data.Encode())
	r.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// Do runs the request through h.
func (r *Request) Do(h http.Handler) *Response {
	r.t.Helper()
	req := httptest.NewRequest(r.method, r.path, r.body)
	for k, v := range r.header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		r.t.Fatalf("read response body: %v", err)
	}
	return &Response{t: r.t, Response: res, Body: body}
}

// Response wraps a recorded response with chained assertions.
type Response struct {
	*http.Response
	Body []byte
	t    *testing.T
}

// Status fails the test unless the status code is code.
func (r *Response) Status(code int) *Response {
	r.t.Helper()
	if r.StatusCode != code {
		r.t.Errorf("status = %d, want %d; body: %s", r.StatusCode, code, r.Body)
	}
	return r
}

// ContentType fails unless Content-Type starts with prefix.
func (r *Response) ContentType(prefix string) *Response {
	r.t.Helper()
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, prefix) {
		r.t.Errorf("Content-Type = %q, want prefix %q", ct, prefix)
	}
	return r
}

// BodyContains fails unless the body contains substr.
func (r *Response) BodyContains(substr string) *Response {
	r.t.Helper()
	if !bytes.Contains(r.Body, []byte(substr)) {
		r.t.Errorf("body does not contain %q; body: %s", substr, r.Body)
	}
	return r
}

// BodyNotContains fails if the body contains substr.
func (r *Response) BodyNotContains(substr string) *Response {
	r.t.Helper()
	if bytes.Contains(r.Body, []byte(substr)) {
		r.t.Errorf("body unexpectedly contains %q; body: %s", substr, r.Body)
	}
	return r
}

// JSON decodes the body into v, failing the test on error.
func (r *Response) JSON(v any) *Response {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("decode response JSON: %v; body: %s", err, r.Body)
	}
	return r
}

// String returns the body.
func (r *Response) String() string { return string(r.Body) }
