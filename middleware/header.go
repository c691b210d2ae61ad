package middleware

import (
	"net/http"

	"github.com/tylermeekel/dewey"
)

// Header wraps next so every outgoing request carries the given header.
// Useful for User-Agent or tenant headers the engine's proxy expects. The
// request is cloned before mutation, so the operation's own request value
// stays untouched.
func Header(next dewey.Doer, key, value string) dewey.Doer {
	return dewey.DoerFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set(key, value)
		return next.Do(req)
	})
}
