package dewey

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
)

// Operation binds an outbound request to the parser for its response.
// Errors returned by Parse are always *Error values.
//
// The pairing is the load-bearing invariant of this package: the parser is
// only valid for the response of its own request, so the two travel together
// as one immutable value. Construct operations through the package-level
// constructors (CreateIndex, GetDocuments, ...), never by hand.
type Operation[T any] struct {
	req   *http.Request
	parse func(*http.Response) (T, error)
}

// Request returns the HTTP request described by the operation. The request
// has no context attached; either send it through Do, or attach your own
// with Request().Clone(ctx) before handing it to a transport.
func (op Operation[T]) Request() *http.Request { return op.req }

// Parse classifies res by status code and decodes its body into T.
// It must be applied to the response of this operation's own request.
func (op Operation[T]) Parse(res *http.Response) (T, error) { return op.parse(res) }

// Page is the engine's pagination envelope, used for both index listings and
// document fetches.
type Page[T any] struct {
	Results []T `json:"results"`
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Total   int `json:"total"`
}

// newOperation builds the request for one API call and binds the standard
// verify-then-decode parser for T.
func newOperation[T any](c *Client, method string, body []byte, query url.Values, segments ...string) Operation[T] {
	return Operation[T]{
		req:   c.newRequest(method, body, query, segments...),
		parse: parseJSON[T],
	}
}

// newRequest assembles a request below the client's base URL. Path segments
// are joined with escaping by URL.JoinPath, so index UIDs and document IDs
// cannot break out of their path position.
func (c *Client) newRequest(method string, body []byte, query url.Values, segments ...string) *http.Request {
	u := c.baseURL.JoinPath(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequest(method, u.String(), reader)
	} else {
		req, err = http.NewRequest(method, u.String(), nil)
	}
	if err != nil {
		// Unreachable: the method is a package constant and the URL
		// round-trips from an already-parsed base.
		panic(err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// parseJSON runs the response verifier and decodes a success body into T.
func parseJSON[T any](res *http.Response) (T, error) {
	var v T
	body, err := verifyResponse(res)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, newDecodeError(err)
	}
	return v, nil
}

// mustJSON encodes library-owned request bodies. The input shapes contain
// only strings, numbers, slices and pointers to those, so encoding cannot
// fail.
func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
