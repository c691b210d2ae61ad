package testutil

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestResponseBuilderFreshBody(t *testing.T) {
	b := NewResponse(http.StatusOK).WithBody("hello")

	for i := 0; i < 2; i++ {
		res := b.Build()
		data, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if string(data) != "hello" {
			t.Errorf("read %d: got %q, body not fresh per Build", i, data)
		}
	}
}

func TestStubDoerReplaysInOrderAndRepeatsLast(t *testing.T) {
	stub := NewStubDoer(
		NewResponse(http.StatusAccepted),
		NewResponse(http.StatusOK),
	)

	want := []int{http.StatusAccepted, http.StatusOK, http.StatusOK}
	for i, status := range want {
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		res, err := stub.Do(req)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if res.StatusCode != status {
			t.Errorf("call %d: got %d, want %d", i, res.StatusCode, status)
		}
	}
	if len(stub.Requests) != 3 {
		t.Errorf("recorded %d requests, want 3", len(stub.Requests))
	}
}

func TestStubDoerRecordsBodies(t *testing.T) {
	stub := NewStubDoer(NewResponse(http.StatusOK))

	req, _ := http.NewRequest(http.MethodPost, "http://example.com", nil)
	req.Body = io.NopCloser(strings.NewReader(`{"uid":"movies"}`))
	if _, err := stub.Do(req); err != nil {
		t.Fatalf("Do: %v", err)
	}

	if stub.RequestBodies[0] != `{"uid":"movies"}` {
		t.Errorf("body not recorded: %q", stub.RequestBodies[0])
	}
}

func TestStubDoerWithoutResponses(t *testing.T) {
	stub := NewStubDoer()
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, err := stub.Do(req); err == nil {
		t.Error("expected an error when no responses are canned")
	}
}
