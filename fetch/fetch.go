// Package fetch provides the "retrieve a URL into a local file" capability
// the resolver delegates to. HTTP details, retries, and host-compatibility
// workarounds all live here, never in the resolution logic.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Fetcher retrieves a URL into the local file dest and returns the path it
// wrote. Implementations fail on unreachable hosts, non-2xx responses, and
// I/O errors.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (string, error)
}

type httpFetcher struct {
	client     *http.Client
	userAgent  string
	maxElapsed time.Duration
	pinnedHost string
}

var _ Fetcher = (*httpFetcher)(nil)

type Opt func(*httpFetcher)

func WithHTTPClient(c *http.Client) Opt {
	return func(f *httpFetcher) {
		f.client = c
	}
}

func WithUserAgent(ua string) Opt {
	return func(f *httpFetcher) {
		f.userAgent = ua
	}
}

func WithTimeout(d time.Duration) Opt {
	return func(f *httpFetcher) {
		f.client.Timeout = d
	}
}

// WithRetry retries failed requests with exponential backoff until maxElapsed
// has passed. Non-2xx responses below 500 are not retried.
func WithRetry(maxElapsed time.Duration) Opt {
	return func(f *httpFetcher) {
		f.maxElapsed = maxElapsed
	}
}

// WithPinnedHost dials requests for hostname against an address resolved up
// front instead of resolving on every request, while leaving the URL (and so
// the TLS server name) untouched. Works around legacy platforms whose TLS
// stacks mishandle SNI for this vendor's CDN.
func WithPinnedHost(hostname string) Opt {
	return func(f *httpFetcher) {
		f.pinnedHost = hostname
	}
}

func New(opts ...Opt) Fetcher {
	f := &httpFetcher{
		client:    &http.Client{Timeout: 2 * time.Minute},
		userAgent: "g2mfeed/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.pinnedHost != "" {
		f.client.Transport = pinnedTransport(f.pinnedHost)
	}
	return f
}

// pinnedTransport resolves hostname once, lazily, and rewrites dial addresses
// for it to the resolved IP. The request URL keeps the hostname, so
// certificate verification and SNI still see the real name.
func pinnedTransport(hostname string) http.RoundTripper {
	var (
		dialer   net.Dialer
		resolved string
	)
	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil || host != hostname {
				return dialer.DialContext(ctx, network, addr)
			}
			if resolved == "" {
				addrs, err := net.DefaultResolver.LookupHost(ctx, hostname)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve pinned host %s: %w", hostname, err)
				}
				resolved = addrs[0]
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(resolved, port))
		},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url, dest string) (string, error) {
	// Preparing the destination directory is idempotent; an existing
	// directory is not an error.
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare download directory: %w", err)
	}

	if f.maxElapsed > 0 {
		return backoff.Retry(ctx, func() (string, error) {
			return f.fetchOnce(ctx, url, dest)
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(f.maxElapsed),
		)
	}
	return f.fetchOnce(ctx, url, dest)
}

func (f *httpFetcher) fetchOnce(ctx context.Context, url, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	// The vendor gzips the body itself sometimes; decoding is the caller's
	// concern, so disable transparent decompression.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
		if resp.StatusCode < 500 {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create %s: %w", dest, err))
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}

// IsPermanent reports whether err will not be retried by a Fetcher built
// with WithRetry.
func IsPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}
