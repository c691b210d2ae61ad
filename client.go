// Package dewey describes the REST API of a Meilisearch-compatible search
// engine as data. Every API capability is exposed as an operation
// constructor: a pure function that builds an HTTP request and binds it to
// the parser for its response, before any I/O happens. The caller owns the
// transport; the library owns request construction, response classification,
// and typed decoding.
//
// Example:
//
//	c, err := dewey.NewClient("http://localhost:7700", apiKey)
//	if err != nil {
//	    // ...
//	}
//	task, err := dewey.Do(ctx, http.DefaultClient, dewey.CreateIndex(c, "movies", "id"))
//
// Callers that want full control can skip Do, send op.Request() through any
// transport, and hand the response back to op.Parse.
package dewey

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Client holds the connection configuration for one search engine instance:
// the base URL and the API key. It is immutable and performs no I/O; it only
// gets threaded into operation constructors. Safe for concurrent use.
type Client struct {
	baseURL *url.URL
	apiKey  string
}

// NewClient validates the base URL and returns a client configuration.
// The URL must be an absolute http or https URL with a host. The API key is
// carried into every request as a bearer token and is not otherwise
// interpreted; pass an empty string for an unsecured instance.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if err := validate.Var(baseURL, "required,http_url"); err != nil {
		return nil, fmt.Errorf("dewey: invalid base URL %q: %w", baseURL, err)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("dewey: invalid base URL %q: %w", baseURL, err)
	}
	return &Client{baseURL: u, apiKey: apiKey}, nil
}

// BaseURL returns the validated base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Doer sends a single HTTP request. *http.Client satisfies it. The caller's
// Doer owns retries, TLS, pooling, timeouts, and cancellation; the library
// never calls it except through Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(*http.Request) (*http.Response, error)

// Do calls f.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Do sends an operation's request through d and parses the response with the
// operation's own parser. A transport failure is wrapped as a KindTransport
// *Error; everything else follows the operation's classification. The
// response body is always closed.
//
// An operation carries its request body as a one-shot reader, so an
// Operation value should be sent at most once.
func Do[T any](ctx context.Context, d Doer, op Operation[T]) (T, error) {
	var zero T
	res, err := d.Do(op.req.Clone(ctx))
	if err != nil {
		return zero, newTransportError(err)
	}
	defer res.Body.Close()
	return op.parse(res)
}
