package dewey

import (
	"encoding/json"
	"io"
	"net/http"
)

// apiErrorBody is the engine's documented error envelope. All four fields
// are required; anything less is classified as KindUnexpectedAPI.
type apiErrorBody struct {
	Message string `json:"message" validate:"required"`
	Code    string `json:"code" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Link    string `json:"link" validate:"required"`
}

// successCodes is the allow-list of statuses treated as transport-level
// success. Every other status is interpreted as an API-level error.
var successCodes = map[int]bool{
	http.StatusOK:           true,
	http.StatusCreated:      true,
	http.StatusAccepted:     true,
	http.StatusNoContent:    true,
	http.StatusResetContent: true,
}

// verifyResponse classifies res by status code. On success it returns the
// raw body, leaving domain decoding to the operation's own decoder. On any
// other status it decodes the structured error envelope, degrading to
// KindUnexpectedAPI when the envelope itself is malformed or incomplete.
// It runs before domain decoding on every operation, so a malformed success
// body is always distinguishable from an API-level rejection.
func verifyResponse(res *http.Response) ([]byte, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newTransportError(err)
	}

	if successCodes[res.StatusCode] {
		return body, nil
	}

	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return nil, newUnexpectedAPIError(res.StatusCode, err)
	}
	if err := validate.Struct(apiErr); err != nil {
		return nil, newUnexpectedAPIError(res.StatusCode, err)
	}
	return nil, newAPIError(apiErr)
}
