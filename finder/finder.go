// Package finder is the optional external similarity-finder collaborator:
// given a needle (an angle's source quote) and a haystack of documents, it
// returns the best-matching snippet, its document index, and a score. The
// core pipeline never fails because of it; a missing or unreachable finder
// degrades to a null snippet plus a warning.
package finder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned by Finder implementations that never succeed,
// and by HTTPFinder on transport failure or timeout.
var ErrUnavailable = errors.New("finder: unavailable")

// Match is the finder's response: the matched snippet (nil if none), the
// haystack index it came from, and a similarity score.
type Match struct {
	BestMatch *string `json:"best_match"`
	Index     int     `json:"index"`
	Score     float64 `json:"score"`
}

// Finder locates needle inside one of haystack's documents.
type Finder interface {
	Find(ctx context.Context, needle string, haystack []string) (Match, error)
}

// Nop is the zero-value default: it always reports ErrUnavailable so
// pipeline.Encode never requires a real finder argument.
type Nop struct{}

// Find implements Finder.
func (Nop) Find(ctx context.Context, needle string, haystack []string) (Match, error) {
	return Match{}, ErrUnavailable
}

// HTTPFinder posts {needle, haystack} as JSON to Endpoint and decodes
// {best_match, index, score}.
type HTTPFinder struct {
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
}

// NewHTTPFinder builds a finder posting to endpoint with the given timeout.
func NewHTTPFinder(endpoint string, timeout time.Duration) *HTTPFinder {
	return &HTTPFinder{
		Endpoint: endpoint,
		Client:   &http.Client{},
		Timeout:  timeout,
	}
}

type findRequest struct {
	Needle   string   `json:"needle"`
	Haystack []string `json:"haystack"`
}

// Find implements Finder by issuing a POST to f.Endpoint.
func (f *HTTPFinder) Find(ctx context.Context, needle string, haystack []string) (Match, error) {
	if f == nil || strings.TrimSpace(f.Endpoint) == "" {
		return Match{}, ErrUnavailable
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(findRequest{Needle: needle, Haystack: haystack})
	if err != nil {
		return Match{}, fmt.Errorf("finder: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Match{}, fmt.Errorf("finder: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Match{}, fmt.Errorf("finder: non-2xx response: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Match{}, fmt.Errorf("finder: read response: %w", err)
	}

	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		return Match{}, fmt.Errorf("finder: decode response: %w", err)
	}
	return m, nil
}
