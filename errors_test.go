package dewey

import (
	"errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "api error includes code",
			err:  newAPIError(apiErrorBody{Message: "index not found", Code: "index_not_found", Type: "invalid_request", Link: "https://docs"}),
			want: "dewey: api_error: index not found (code index_not_found)",
		},
		{
			name: "transport error",
			err:  newTransportError(errors.New("connection refused")),
			want: "dewey: transport_error: connection refused",
		},
		{
			name: "unexpected api error names the status",
			err:  newUnexpectedAPIError(502, errors.New("boom")),
			want: "dewey: unexpected_api_error: status 502 with unrecognized error body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := newTransportError(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped transport error")
	}

	var devErr *Error
	if !errors.As(err, &devErr) {
		t.Fatal("errors.As should recover *Error")
	}
	if devErr.Kind != KindTransport {
		t.Errorf("expected kind %s, got %s", KindTransport, devErr.Kind)
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []ErrorKind{KindDecode, KindAPI, KindUnexpectedAPI, KindTransport}
	seen := make(map[ErrorKind]bool)
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("duplicate kind %s", k)
		}
		seen[k] = true
	}
}
