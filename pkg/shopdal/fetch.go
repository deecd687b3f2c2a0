package shopdal

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultFetchTimeout bounds how long a single image download may take.
// Callers needing different timeout or cancellation behavior supply their
// own Fetcher.
const DefaultFetchTimeout = 20 * time.Second

// HTTPFetcher fetches remote images over HTTP(S) using a resty client.
type HTTPFetcher struct {
	client *resty.Client
}

// HTTPFetcherOption configures the HTTP fetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithTimeout overrides the client timeout.
func WithTimeout(timeout time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client.SetTimeout(timeout)
	}
}

// WithClient replaces the underlying resty client entirely (proxies,
// retries, custom TLS).
func WithClient(client *resty.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// NewHTTPFetcher creates a fetcher with sane defaults.
func NewHTTPFetcher(options ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: resty.New().
			SetTimeout(DefaultFetchTimeout).
			SetHeader("User-Agent", "shopdal/1.0"),
	}

	for _, option := range options {
		option(f)
	}

	return f
}

// Fetch downloads the resource at url and returns its body. Non-2xx
// responses and network failures are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}
	return resp.Body(), nil
}
