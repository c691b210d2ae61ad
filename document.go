package dewey

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DocumentID identifies a document by either of the engine's natural key
// types. The implementations are StringID and IntID; both render into a URL
// path through the same conversion, so read and delete paths cannot diverge.
type DocumentID interface {
	pathSegment() string
}

// StringID is a string document identifier.
type StringID string

// IntID is an integer document identifier. IntID(42) renders as "42".
type IntID int64

func (id StringID) pathSegment() string { return string(id) }
func (id IntID) pathSegment() string    { return strconv.FormatInt(int64(id), 10) }

// GetDocumentsOptions is the body of a documents/fetch call. Nil slices and
// pointers serialize as JSON null, which the engine reads as "not set".
type GetDocumentsOptions struct {
	Offset          int          `json:"offset"`
	Limit           int          `json:"limit"`
	Fields          []string     `json:"fields"`
	Filter          *string      `json:"filter"`
	RetrieveVectors bool         `json:"retrieveVectors"`
	Sort            []string     `json:"sort"`
	IDs             []DocumentID `json:"ids"`
}

// DefaultGetDocumentsOptions mirrors the engine's defaults: the first page
// of twenty documents, no projection, filter or sort, vectors excluded.
func DefaultGetDocumentsOptions() GetDocumentsOptions {
	return GetDocumentsOptions{Offset: 0, Limit: 20}
}

// GetDocuments fetches one page of documents. The fetch endpoint is a POST
// because the filter, sort and projection options travel as a JSON body.
//
// D is the caller's document schema; the library only touches the
// pagination envelope around it. Implement json.Unmarshaler on D to
// customize decoding.
func GetDocuments[D any](c *Client, indexUID string, opts GetDocumentsOptions) Operation[Page[D]] {
	return newOperation[Page[D]](c, http.MethodPost, mustJSON(opts), nil,
		"indexes", indexUID, "documents", "fetch")
}

// GetDocument fetches a single document by ID.
func GetDocument[D any](c *Client, indexUID string, id DocumentID) Operation[D] {
	return newOperation[D](c, http.MethodGet, nil, nil,
		"indexes", indexUID, "documents", id.pathSegment())
}

// AddDocuments enqueues adding documents, replacing any document that shares
// a primary key with an incoming one. A non-empty primaryKey names the key
// field for an index that does not have one yet.
//
// The only fallible step is encoding the caller's documents, so this is the
// one constructor shape that returns an error.
func AddDocuments[D any](c *Client, indexUID string, docs []D, primaryKey string) (Operation[SummarizedTask], error) {
	return documentsOperation(c, http.MethodPost, indexUID, docs, primaryKey)
}

// UpdateDocuments enqueues a partial update: incoming fields are merged into
// any existing document with the same primary key.
func UpdateDocuments[D any](c *Client, indexUID string, docs []D, primaryKey string) (Operation[SummarizedTask], error) {
	return documentsOperation(c, http.MethodPut, indexUID, docs, primaryKey)
}

func documentsOperation[D any](c *Client, method, indexUID string, docs []D, primaryKey string) (Operation[SummarizedTask], error) {
	body, err := json.Marshal(docs)
	if err != nil {
		return Operation[SummarizedTask]{}, fmt.Errorf("dewey: encode documents: %w", err)
	}
	var q url.Values
	if primaryKey != "" {
		q = url.Values{"primaryKey": {primaryKey}}
	}
	return newOperation[SummarizedTask](c, method, body, q, "indexes", indexUID, "documents"), nil
}

// DeleteDocument enqueues deletion of a single document by ID.
func DeleteDocument(c *Client, indexUID string, id DocumentID) Operation[SummarizedTask] {
	return newOperation[SummarizedTask](c, http.MethodDelete, nil, nil,
		"indexes", indexUID, "documents", id.pathSegment())
}

// DeleteAllDocuments enqueues deletion of every document in the index.
func DeleteAllDocuments(c *Client, indexUID string) Operation[SummarizedTask] {
	return newOperation[SummarizedTask](c, http.MethodDelete, nil, nil,
		"indexes", indexUID, "documents")
}

type deleteByFilterBody struct {
	Filter string `json:"filter"`
}

// DeleteDocumentsByFilter enqueues deletion of every document matching the
// engine's filter expression.
func DeleteDocumentsByFilter(c *Client, indexUID, filter string) Operation[SummarizedTask] {
	body := mustJSON(deleteByFilterBody{Filter: filter})
	return newOperation[SummarizedTask](c, http.MethodPost, body, nil,
		"indexes", indexUID, "documents", "delete")
}

// DeleteDocumentsBatch enqueues deletion of the documents with the given
// IDs. The body is a bare JSON array of IDs.
func DeleteDocumentsBatch(c *Client, indexUID string, ids []DocumentID) Operation[SummarizedTask] {
	return newOperation[SummarizedTask](c, http.MethodPost, mustJSON(ids), nil,
		"indexes", indexUID, "documents", "delete-batch")
}
