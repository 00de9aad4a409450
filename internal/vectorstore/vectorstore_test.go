package vectorstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpsertSendsPointToCollectionPath(t *testing.T) {
	var gotPath string
	var gotPoint Point
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPoint)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL})
	p := Point{ID: "abc", Vector: []float32{1, 2}, ContentFingerprint: "fp"}
	if err := c.Upsert(context.Background(), "my_collection", p); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/collections/my_collection/points" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotPoint.ID != "abc" {
		t.Fatalf("expected point id abc, got %q", gotPoint.ID)
	}
}

func TestQueryMissingCollectionReturnsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL})
	matches, err := c.Query(context.Background(), "nonexistent", []float32{1, 2}, 5)
	if err != nil {
		t.Fatalf("expected no error for missing collection, got %v", err)
	}
	if matches != nil {
		t.Fatalf("expected nil matches, got %v", matches)
	}
}

func TestQueryReturnsMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(queryResponse{Matches: []Match{{Point: Point{ID: "x"}, Score: 0.9}}})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL})
	matches, err := c.Query(context.Background(), "col", []float32{1, 2}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Point.ID != "x" {
		t.Fatalf("unexpected matches: %v", matches)
	}
}

func TestQueryServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL})
	if _, err := c.Query(context.Background(), "col", []float32{1}, 5); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
