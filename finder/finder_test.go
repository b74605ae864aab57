package finder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopAlwaysUnavailable(t *testing.T) {
	_, err := (Nop{}).Find(context.Background(), "needle", []string{"haystack"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPFinderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req findRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "needle", req.Needle)

		match := "found it"
		resp := Match{BestMatch: &match, Index: 1, Score: 0.9}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	f := NewHTTPFinder(srv.URL, time.Second)
	match, err := f.Find(context.Background(), "needle", []string{"a", "b"})
	require.NoError(t, err)
	require.NotNil(t, match.BestMatch)
	assert.Equal(t, "found it", *match.BestMatch)
	assert.Equal(t, 1, match.Index)
}

func TestHTTPFinderNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFinder(srv.URL, time.Second)
	_, err := f.Find(context.Background(), "needle", []string{"a"})
	assert.Error(t, err)
}

func TestHTTPFinderEmptyEndpointUnavailable(t *testing.T) {
	f := NewHTTPFinder("", time.Second)
	_, err := f.Find(context.Background(), "needle", []string{"a"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
