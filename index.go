package dewey

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/schema"
)

var queryEncoder = schema.NewEncoder()

// Index describes one index as reported by the engine. Values exist only as
// the result of decoding a server response.
type Index struct {
	UID        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PrimaryKey string
}

// indexWire mirrors the engine's JSON for an index. Timestamps stay raw so
// malformed values can degrade instead of failing the decode.
type indexWire struct {
	UID        string `json:"uid"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	PrimaryKey string `json:"primaryKey"`
}

// UnmarshalJSON decodes the engine's index representation. Index timestamps
// are advisory metadata: a value that does not parse as RFC 3339 degrades to
// the Unix epoch rather than failing the whole decode.
func (ix *Index) UnmarshalJSON(data []byte) error {
	var w indexWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*ix = Index{
		UID:        w.UID,
		CreatedAt:  lenientTime(w.CreatedAt),
		UpdatedAt:  lenientTime(w.UpdatedAt),
		PrimaryKey: w.PrimaryKey,
	}
	return nil
}

// lenientTime parses an RFC 3339 timestamp, falling back to the Unix epoch.
func lenientTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// GetIndexesOptions controls index listing pagination. Fields are sent as
// query parameters.
type GetIndexesOptions struct {
	Offset int `schema:"offset"`
	Limit  int `schema:"limit"`
}

// DefaultGetIndexesOptions mirrors the engine's server-side defaults.
func DefaultGetIndexesOptions() GetIndexesOptions {
	return GetIndexesOptions{Offset: 0, Limit: 20}
}

// GetIndexes lists indexes as one pagination page.
func GetIndexes(c *Client, opts GetIndexesOptions) Operation[Page[Index]] {
	q := url.Values{}
	// Encode cannot fail here: the options struct holds only ints.
	_ = queryEncoder.Encode(opts, q)
	return newOperation[Page[Index]](c, http.MethodGet, nil, q, "indexes")
}

// GetIndex fetches a single index by UID.
func GetIndex(c *Client, uid string) Operation[Index] {
	return newOperation[Index](c, http.MethodGet, nil, nil, "indexes", uid)
}

type createIndexBody struct {
	UID        string `json:"uid"`
	PrimaryKey string `json:"primaryKey,omitempty"`
}

// CreateIndex enqueues creation of an index. An empty primaryKey leaves the
// engine to infer one from the first document batch.
func CreateIndex(c *Client, uid, primaryKey string) Operation[SummarizedTask] {
	body := mustJSON(createIndexBody{UID: uid, PrimaryKey: primaryKey})
	return newOperation[SummarizedTask](c, http.MethodPost, body, nil, "indexes")
}

type updateIndexBody struct {
	PrimaryKey string `json:"primaryKey"`
}

// UpdateIndex enqueues a primary-key change for an existing index.
func UpdateIndex(c *Client, uid, primaryKey string) Operation[SummarizedTask] {
	body := mustJSON(updateIndexBody{PrimaryKey: primaryKey})
	return newOperation[SummarizedTask](c, http.MethodPatch, body, nil, "indexes", uid)
}

// DeleteIndex enqueues deletion of an index and all its documents.
func DeleteIndex(c *Client, uid string) Operation[SummarizedTask] {
	return newOperation[SummarizedTask](c, http.MethodDelete, nil, nil, "indexes", uid)
}

// swapEntry is one element of the swap-indexes body. Rename is omitted when
// false so a plain swap round-trips as [{"indexes":["a","b"]}].
type swapEntry struct {
	Indexes [2]string `json:"indexes"`
	Rename  bool      `json:"rename,omitempty"`
}

// SwapIndexes enqueues an atomic exchange of each pair of index UIDs. Pair
// order is preserved in the request body; each pair is swapped independently.
func SwapIndexes(c *Client, pairs [][2]string) Operation[SummarizedTask] {
	return swapOperation(c, pairs, false)
}

// RenameIndexes is SwapIndexes with the rename flag set on every pair: the
// first UID of each pair is renamed to the second instead of exchanged.
func RenameIndexes(c *Client, pairs [][2]string) Operation[SummarizedTask] {
	return swapOperation(c, pairs, true)
}

func swapOperation(c *Client, pairs [][2]string, rename bool) Operation[SummarizedTask] {
	entries := make([]swapEntry, len(pairs))
	for i, pair := range pairs {
		entries[i] = swapEntry{Indexes: pair, Rename: rename}
	}
	return newOperation[SummarizedTask](c, http.MethodPost, mustJSON(entries), nil, "swap-indexes")
}
