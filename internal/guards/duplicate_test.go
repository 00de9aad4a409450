package guards

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"guardhook/internal/embedding"
	"guardhook/internal/fingerprint"
	"guardhook/internal/vectorstore"
)

const fiveLineGoContent = "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"

func TestDuplicateGuardBlocksAboveThreshold(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{1, 0, 0}})
	}))
	defer embedSrv.Close()

	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{
					"point": map[string]interface{}{
						"id":                  "other",
						"content_fingerprint": "different-fingerprint",
						"metadata":            map[string]string{"path": "existing.go"},
					},
					"score": 0.92,
				},
			},
		})
	}))
	defer storeSrv.Close()

	embed := embedding.NewHTTPClient(embedding.Config{Endpoint: embedSrv.URL, Dims: 3})
	store := vectorstore.NewHTTPClient(vectorstore.Config{Endpoint: storeSrv.URL})

	g := NewDuplicatePrevention(embed, store, DuplicateConfig{Threshold: 0.75, RepoRoot: t.TempDir()})
	req := writeReq(t, "new.go", fiveLineGoContent)
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger above similarity threshold")
	}
	msg := g.Message(req)
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
}

func TestDuplicateGuardSkipsSelfMatch(t *testing.T) {
	content := fiveLineGoContent

	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{1, 0, 0}})
	}))
	defer embedSrv.Close()

	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{
					"point": map[string]interface{}{
						"id":                  "self",
						"content_fingerprint": fingerprint.Of(content),
					},
					"score": 0.99,
				},
			},
		})
	}))
	defer storeSrv.Close()

	embed := embedding.NewHTTPClient(embedding.Config{Endpoint: embedSrv.URL, Dims: 3})
	store := vectorstore.NewHTTPClient(vectorstore.Config{Endpoint: storeSrv.URL})

	g := NewDuplicatePrevention(embed, store, DuplicateConfig{Threshold: 0.75, RepoRoot: t.TempDir()})
	req := writeReq(t, "new.go", content)
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger on a self-match")
	}
}

func TestDuplicateGuardFailsOpenOnBackendError(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer embedSrv.Close()

	embed := embedding.NewHTTPClient(embedding.Config{Endpoint: embedSrv.URL, Dims: 3})
	store := vectorstore.NewHTTPClient(vectorstore.Config{Endpoint: "http://127.0.0.1:1"})

	g := NewDuplicatePrevention(embed, store, DuplicateConfig{Threshold: 0.75, RepoRoot: t.TempDir()})
	req := writeReq(t, "new.go", fiveLineGoContent)
	if g.ShouldTrigger(req) {
		t.Fatal("expected fail-open (no trigger) when embedding backend errors")
	}
}

func TestDuplicateGuardAdmitsUnconditionallyBelowMinLines(t *testing.T) {
	calls := int32(0)
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{1, 0, 0}})
	}))
	defer embedSrv.Close()

	embed := embedding.NewHTTPClient(embedding.Config{Endpoint: embedSrv.URL, Dims: 3})
	store := vectorstore.NewHTTPClient(vectorstore.Config{Endpoint: "http://127.0.0.1:1"})

	g := NewDuplicatePrevention(embed, store, DuplicateConfig{Threshold: 0.75, MinLines: 5, RepoRoot: t.TempDir()})
	req := writeReq(t, "new.go", "package main\n")
	if g.ShouldTrigger(req) {
		t.Fatal("expected no trigger for content below the minimum line count")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("expected the embedding provider to never be called below the minimum line count")
	}
}

func TestDuplicateGuardAdmitsUnconditionallyForNonSourceExtension(t *testing.T) {
	embed := embedding.NewHTTPClient(embedding.Config{Endpoint: "http://127.0.0.1:1", Dims: 3})
	store := vectorstore.NewHTTPClient(vectorstore.Config{Endpoint: "http://127.0.0.1:1"})

	g := NewDuplicatePrevention(embed, store, DuplicateConfig{Threshold: 0.75, RepoRoot: t.TempDir()})
	req := writeReq(t, "notes.txt", fiveLineGoContent)
	if g.ShouldTrigger(req) {
		t.Fatal("expected no trigger for a non-source-code extension")
	}
}

func TestDuplicateGuardIndexesNewContentOnAllow(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{1, 0, 0}})
	}))
	defer embedSrv.Close()

	var ensured, upserted int32
	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/points"):
			atomic.AddInt32(&upserted, 1)
		case r.Method == http.MethodPut:
			atomic.AddInt32(&ensured, 1)
		case r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(map[string]interface{}{"matches": []map[string]interface{}{}})
		}
	}))
	defer storeSrv.Close()

	embed := embedding.NewHTTPClient(embedding.Config{Endpoint: embedSrv.URL, Dims: 3})
	store := vectorstore.NewHTTPClient(vectorstore.Config{Endpoint: storeSrv.URL})

	g := NewDuplicatePrevention(embed, store, DuplicateConfig{Threshold: 0.75, RepoRoot: t.TempDir()})
	req := writeReq(t, "new.go", fiveLineGoContent)
	if g.ShouldTrigger(req) {
		t.Fatal("expected admit when no near-duplicate is found")
	}
	if atomic.LoadInt32(&ensured) == 0 {
		t.Fatal("expected the guard to ensure the collection exists before upserting")
	}
	if atomic.LoadInt32(&upserted) == 0 {
		t.Fatal("expected the guard to index the new content on the allow path")
	}
}
