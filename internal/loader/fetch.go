package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL serves raw repository content.
const DefaultBaseURL = "https://raw.githubusercontent.com"

// DefaultMaxBytes caps the size of a fetched document.
const DefaultMaxBytes = 5 << 20

// Fetcher retrieves one candidate document.
type Fetcher interface {
	// Fetch returns the body of repo/branch/path. Failures wrap ErrNetwork or
	// ErrNotFound.
	Fetch(ctx context.Context, repo, branch, path string) (string, error)
	// URL returns the address Fetch would request.
	URL(repo, branch, path string) string
}

// HTTPFetcher fetches raw documents over HTTP(S) without authentication.
type HTTPFetcher struct {
	client   *http.Client
	baseURL  string
	maxBytes int64
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithMaxBytes overrides the document size limit.
func WithMaxBytes(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// NewHTTPFetcher creates a fetcher for baseURL (DefaultBaseURL when empty).
func NewHTTPFetcher(baseURL string, timeout time.Duration, opts ...HTTPOption) *HTTPFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	f := &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL builds {base}/{repo}/{branch}/{path}, escaping each path segment.
func (f *HTTPFetcher) URL(repo, branch, path string) string {
	segs := strings.Split(repo+"/"+branch+"/"+path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return f.baseURL + "/" + strings.Join(segs, "/")
}

// Fetch issues a cache-busting GET for the candidate document.
func (f *HTTPFetcher) Fetch(ctx context.Context, repo, branch, path string) (string, error) {
	target := f.URL(repo, branch, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request %s: %v", ErrNetwork, target, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/plain, text/markdown, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", ErrNetwork, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("%w: GET %s: HTTP %d", ErrNotFound, target, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrNetwork, target, err)
	}
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrNotFound, target, f.maxBytes)
	}
	return string(data), nil
}
