// Package testutil provides testing helpers for code built on dewey
// operations. It fabricates *http.Response fixtures and stub transports, so
// operation parsers and transport decorators can be exercised without a
// running search engine.
package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
)

// ResponseBuilder helps construct test HTTP responses with a fluent API.
type ResponseBuilder struct {
	status  int
	body    []byte
	headers map[string]string
}

// NewResponse creates a response builder with the given status code.
func NewResponse(status int) *ResponseBuilder {
	return &ResponseBuilder{
		status:  status,
		headers: make(map[string]string),
	}
}

// WithJSON sets the response body as JSON.
func (b *ResponseBuilder) WithJSON(v any) *ResponseBuilder {
	data, _ := json.Marshal(v)
	b.body = data
	b.headers["Content-Type"] = "application/json"
	return b
}

// WithBody sets the raw response body.
func (b *ResponseBuilder) WithBody(body string) *ResponseBuilder {
	b.body = []byte(body)
	return b
}

// WithHeader adds a header to the response.
func (b *ResponseBuilder) WithHeader(key, value string) *ResponseBuilder {
	b.headers[key] = value
	return b
}

// Build creates the *http.Response. The body is a fresh reader on every
// call, so one builder can feed several parse attempts.
func (b *ResponseBuilder) Build() *http.Response {
	header := make(http.Header)
	for k, v := range b.headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: b.status,
		Status:     http.StatusText(b.status),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(b.body)),
	}
}

// StubDoer is a transport stub: it records every request it receives and
// replays canned responses in order. When the canned list runs out, the last
// entry repeats. Safe for concurrent use.
type StubDoer struct {
	mu        sync.Mutex
	responses []*ResponseBuilder
	err       error

	// Requests holds every request passed to Do, in order. Bodies are
	// drained into RequestBodies so callers can assert on them.
	Requests      []*http.Request
	RequestBodies []string
}

// NewStubDoer creates a stub that replies with the given responses in order.
func NewStubDoer(responses ...*ResponseBuilder) *StubDoer {
	return &StubDoer{responses: responses}
}

// Fail makes every Do call return err instead of a response.
func (s *StubDoer) Fail(err error) *StubDoer {
	s.err = err
	return s
}

// Do implements dewey.Doer.
func (s *StubDoer) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		req.Body.Close()
		body = string(data)
	}
	s.Requests = append(s.Requests, req)
	s.RequestBodies = append(s.RequestBodies, body)

	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, errors.New("testutil: StubDoer has no canned responses")
	}

	i := len(s.Requests) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i].Build(), nil
}

// LastRequest returns the most recent request, or nil if none were sent.
func (s *StubDoer) LastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return nil
	}
	return s.Requests[len(s.Requests)-1]
}

// APIErrorBody is a ready-made well-formed error envelope for stubbing
// non-success responses.
func APIErrorBody(message, code, errType, link string) map[string]string {
	return map[string]string{
		"message": message,
		"code":    code,
		"type":    errType,
		"link":    link,
	}
}
