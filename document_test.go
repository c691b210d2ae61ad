package dewey

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/tylermeekel/dewey/testutil"
)

func TestDocumentIDPathSegment(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	tests := []struct {
		name     string
		id       DocumentID
		wantPath string
	}{
		{"int id", IntID(42), "/indexes/movies/documents/42"},
		{"string id", StringID("abc"), "/indexes/movies/documents/abc"},
		{"negative int id", IntID(-7), "/indexes/movies/documents/-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getPath := GetDocument[map[string]any](c, "movies", tt.id).Request().URL.Path
			delPath := DeleteDocument(c, "movies", tt.id).Request().URL.Path

			if getPath != tt.wantPath {
				t.Errorf("get path: got %q, want %q", getPath, tt.wantPath)
			}
			// Read and delete must share the same ID conversion.
			if delPath != getPath {
				t.Errorf("delete path %q diverges from get path %q", delPath, getPath)
			}
		})
	}
}

func TestDefaultGetDocumentsOptions(t *testing.T) {
	got, err := json.Marshal(DefaultGetDocumentsOptions())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"offset":0,"limit":20,"fields":null,"filter":null,"retrieveVectors":false,"sort":null,"ids":null}`
	if string(got) != want {
		t.Errorf("defaults: got %s, want %s", got, want)
	}
}

func TestGetDocumentsUsesFetchEndpoint(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	filter := "genre = horror"
	opts := DefaultGetDocumentsOptions()
	opts.Filter = &filter
	opts.Fields = []string{"id", "title"}

	req := GetDocuments[map[string]any](c, "movies", opts).Request()

	if req.Method != http.MethodPost {
		t.Errorf("fetch must POST its options, got %s", req.Method)
	}
	if req.URL.Path != "/indexes/movies/documents/fetch" {
		t.Errorf("unexpected path %q", req.URL.Path)
	}

	body := readBody(t, req)
	if !strings.Contains(body, `"filter":"genre = horror"`) {
		t.Errorf("filter missing from body: %s", body)
	}
	if !strings.Contains(body, `"fields":["id","title"]`) {
		t.Errorf("fields missing from body: %s", body)
	}
}

func TestGetDocumentsDecodesPage(t *testing.T) {
	type movie struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	c := mustClient(t, "http://localhost:7700", "key")
	stub := testutil.NewStubDoer(
		testutil.NewResponse(http.StatusOK).WithJSON(map[string]any{
			"results": []movie{{ID: 1, Title: "Alien"}, {ID: 2, Title: "Solaris"}},
			"offset":  0,
			"limit":   20,
			"total":   2,
		}),
	)

	page, err := Do(context.Background(), stub, GetDocuments[movie](c, "movies", DefaultGetDocumentsOptions()))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if page.Total != 2 || len(page.Results) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Results[1].Title != "Solaris" {
		t.Errorf("document decoding lost data: %+v", page.Results)
	}
}

func TestAddDocuments(t *testing.T) {
	type movie struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	c := mustClient(t, "http://localhost:7700", "key")

	op, err := AddDocuments(c, "movies", []movie{{ID: 1, Title: "Alien"}}, "id")
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	req := op.Request()
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if req.URL.Path != "/indexes/movies/documents" {
		t.Errorf("unexpected path %q", req.URL.Path)
	}
	if got := req.URL.Query().Get("primaryKey"); got != "id" {
		t.Errorf("primaryKey query: got %q", got)
	}
	if body := readBody(t, req); body != `[{"id":1,"title":"Alien"}]` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestUpdateDocumentsUsesPut(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	op, err := UpdateDocuments(c, "movies", []map[string]any{{"id": 1}}, "")
	if err != nil {
		t.Fatalf("UpdateDocuments: %v", err)
	}

	req := op.Request()
	if req.Method != http.MethodPut {
		t.Errorf("expected PUT, got %s", req.Method)
	}
	if req.URL.RawQuery != "" {
		t.Errorf("empty primaryKey must not produce a query, got %q", req.URL.RawQuery)
	}
}

func TestAddDocumentsEncodeFailure(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	// Channels cannot be JSON-encoded.
	_, err := AddDocuments(c, "movies", []chan int{make(chan int)}, "")
	if err == nil {
		t.Fatal("expected an encode error")
	}
}

func TestDeleteDocumentsByFilterBody(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	req := DeleteDocumentsByFilter(c, "movies", "rating < 2").Request()
	if req.URL.Path != "/indexes/movies/documents/delete" {
		t.Errorf("unexpected path %q", req.URL.Path)
	}
	if body := readBody(t, req); body != `{"filter":"rating < 2"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestDeleteDocumentsBatchBody(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	req := DeleteDocumentsBatch(c, "movies", []DocumentID{IntID(1), StringID("abc"), IntID(3)}).Request()
	if req.URL.Path != "/indexes/movies/documents/delete-batch" {
		t.Errorf("unexpected path %q", req.URL.Path)
	}
	// Both ID branches keep their natural JSON type in the batch body.
	if body := readBody(t, req); body != `[1,"abc",3]` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestDeleteAllDocumentsRequest(t *testing.T) {
	c := mustClient(t, "http://localhost:7700", "key")

	req := DeleteAllDocuments(c, "movies").Request()
	if req.Method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", req.Method)
	}
	if req.URL.Path != "/indexes/movies/documents" {
		t.Errorf("unexpected path %q", req.URL.Path)
	}
}
