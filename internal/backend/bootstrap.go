package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusPath is the replica endpoint that reports its root key.
const StatusPath = "/api/v2/status"

// TrustBootstrapper fetches the root verification key of a replica.
type TrustBootstrapper interface {
	FetchRootKey(ctx context.Context, host string) ([]byte, error)
}

// RootKeyFunc is a function adapter for TrustBootstrapper.
type RootKeyFunc func(ctx context.Context, host string) ([]byte, error)

func (f RootKeyFunc) FetchRootKey(ctx context.Context, host string) ([]byte, error) {
	return f(ctx, host)
}

// HTTPRootKeyFetcher reads the root key from the replica status endpoint.
type HTTPRootKeyFetcher struct {
	Client *http.Client
}

// NewHTTPRootKeyFetcher creates a fetcher with the given timeout.
func NewHTTPRootKeyFetcher(timeout time.Duration) *HTTPRootKeyFetcher {
	return &HTTPRootKeyFetcher{Client: &http.Client{Timeout: timeout}}
}

type statusResponse struct {
	RootKey []byte `json:"root_key"` // base64 in JSON
}

// FetchRootKey implements TrustBootstrapper.
func (f *HTTPRootKeyFetcher) FetchRootKey(ctx context.Context, host string) ([]byte, error) {
	url := strings.TrimRight(host, "/") + StatusPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch replica status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch replica status: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read replica status: %w", err)
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decode replica status: %w", err)
	}
	if len(status.RootKey) == 0 {
		return nil, errors.New("replica status has no root key")
	}

	return status.RootKey, nil
}
