package casefile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/lexflow/types"
)

func TestGetCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/cases/case-42", r.URL.Path)
		json.NewEncoder(w).Encode(Case{
			ID:       "case-42",
			Type:     "civil",
			Stage:    "discovery",
			KeyFacts: []string{"contract signed 2024-01-15"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL}, nil)
	cs, err := c.GetCase(context.Background(), "case-42")
	require.NoError(t, err)
	assert.Equal(t, "case-42", cs.ID)
	assert.Equal(t, "discovery", cs.Stage)
	require.Len(t, cs.KeyFacts, 1)
}

func TestGetCaseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL}, nil)
	_, err := c.GetCase(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrPreconditionFailed))
}

func TestUpdateTimeline(t *testing.T) {
	var got TimelineEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/cases/case-42/timeline", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL}, nil)
	event := TimelineEvent{
		Description: "client asked about deposition schedule",
		Category:    "communication",
		OccurredAt:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.UpdateTimeline(context.Background(), "case-42", event))
	assert.Equal(t, "client asked about deposition schedule", got.Description)
}

func TestUpdateTimelineServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientConfig{BaseURL: srv.URL}, nil)
	err := c.UpdateTimeline(context.Background(), "case-42", TimelineEvent{Description: "x"})
	require.Error(t, err)
	assert.True(t, types.IsRetryable(err))
}
