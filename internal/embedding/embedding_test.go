package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedCachesByExactText(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{1, 2, 3}})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Model: "test", Dims: 3})

	v1, err := c.Embed(context.Background(), "hello", "go")
	require.NoError(t, err)
	v2, err := c.Embed(context.Background(), "hello", "go")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "expected a single upstream call for repeated identical text")
	assert.Len(t, v1, 3)
	assert.Len(t, v2, 3)
}

func TestEmbedCacheIsKeyedPerLanguage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{1, 2, 3}})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Model: "test", Dims: 3})

	_, err := c.Embed(context.Background(), "hello", "go")
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "hello", "python")
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "expected a distinct upstream call per language tag")
}

func TestEmbedPropagatesProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Model: "test", Dims: 3})
	_, err := c.Embed(context.Background(), "hello", "go")
	assert.Error(t, err)
}

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	a := []float32{1, 0, 0}
	assert.GreaterOrEqual(t, CosineSimilarity(a, a), 0.999)
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.Zero(t, CosineSimilarity(a, b))
}

func TestCosineSimilarityMismatchedLengths(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
}
