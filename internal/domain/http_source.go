package domain

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"listings-web/models"
)

// maxPayloadBytes bounds how much of a remote payload is read.
const maxPayloadBytes = 8 << 20

// HTTPSource fetches properties.json over HTTP, asking every cache on the
// way to revalidate.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource uses http.DefaultClient when client is nil.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Load(ctx context.Context) (*models.ListingSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrSourceUnavailable, s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, s.url, err)
	}
	set, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.url, err)
	}
	return set, nil
}
