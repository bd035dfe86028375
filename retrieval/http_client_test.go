package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/lexflow/types"
)

func TestHTTPClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"contract", "formation"}, req.Keywords)
		assert.Equal(t, 3, req.TopK)

		json.NewEncoder(w).Encode(searchResponse{Results: []SearchResult{
			{Document: Document{ID: "doc-1", Title: "Contract Formation"}, Score: 0.92},
		}})
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	results, err := c.Search(context.Background(), []string{"contract", "formation"}, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].Document.ID)
}

func TestHTTPClientSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL}, nil)
	_, err := c.Search(context.Background(), []string{"contract"}, 3)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrUpstreamError))
	assert.True(t, types.IsRetryable(err))
}

func TestHTTPClientSearchClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL}, nil)
	_, err := c.Search(context.Background(), []string{"contract"}, 3)
	require.Error(t, err)
	assert.False(t, types.IsRetryable(err))
}
