// Package g2mfeed resolves the download URL and build number of the newest
// GoToMeeting build from the vendor's release-metadata feed.
package g2mfeed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/macpkg/g2mfeed/feed"
	"github.com/macpkg/g2mfeed/fetch"
)

// DefaultFeedURL is the vendor endpoint used when no override is configured.
const DefaultFeedURL = "https://builds.cdn.getgo.com/g2mupdater/live/config.json"

var (
	// ErrFeedUnavailable means the fetch collaborator could not retrieve
	// the feed document.
	ErrFeedUnavailable = errors.New("release feed unavailable")
	// ErrInvalidFeedFormat means the retrieved bytes are neither valid
	// plain JSON nor valid gzip-compressed JSON describing active builds.
	ErrInvalidFeedFormat = errors.New("invalid release feed format")
	// ErrNoDownloadURL means the feed parsed but the newest build has no
	// usable mac download URL.
	ErrNoDownloadURL = errors.New("no download URL for the latest release found in the feed")
)

// Result is the pair the host pipeline consumes: the normalized asset URL
// and the decimal build number. Both are produced together or not at all.
type Result struct {
	URL   string
	Build string
}

// Resolver resolves the latest release from a single feed URL. It holds no
// mutable state across calls; one Resolve processes one feed document.
type Resolver struct {
	feedURL  string
	cacheDir string
	fetcher  fetch.Fetcher
	reporter Reporter
}

type Opt func(*Resolver)

// WithFeedURL overrides the vendor feed endpoint.
func WithFeedURL(url string) Opt {
	return func(r *Resolver) {
		r.feedURL = url
	}
}

// WithCacheDir sets the directory the feed document is downloaded into.
func WithCacheDir(dir string) Opt {
	return func(r *Resolver) {
		r.cacheDir = dir
	}
}

func WithFetcher(f fetch.Fetcher) Opt {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

func WithReporter(rep Reporter) Opt {
	return func(r *Resolver) {
		r.reporter = rep
	}
}

func New(opts ...Opt) *Resolver {
	r := &Resolver{
		feedURL:  DefaultFeedURL,
		cacheDir: defaultCacheDir(),
		fetcher:  fetch.New(),
		reporter: NewLogReporter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "g2mfeed", "downloads")
}

// Resolve fetches the feed, decodes it, and returns the normalized asset URL
// and build number of the numerically greatest active build. Failures are
// terminal for the call; retry policy, if any, belongs to the Fetcher.
func (r *Resolver) Resolve(ctx context.Context) (*Result, error) {
	metaPath := filepath.Join(r.cacheDir, "meta")
	metaFile, err := r.fetcher.Fetch(ctx, r.feedURL, metaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	data, err := os.ReadFile(metaFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	doc, encoding, err := feed.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedFormat, err)
	}
	r.reporter.Report(fmt.Sprintf("Encoding: %s", encoding))

	// The newest build is chosen before its URL is checked. A newer build
	// without a mac URL therefore fails the whole call even when an older
	// build has one.
	maxBuild, err := doc.MaxBuild()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedFormat, err)
	}
	if maxBuild.MacDownloadURL == "" {
		return nil, fmt.Errorf("%w (build %s)", ErrNoDownloadURL, maxBuild.BuildNumber)
	}

	result := &Result{
		URL:   feed.NormalizeAssetURL(maxBuild.MacDownloadURL),
		Build: maxBuild.BuildNumber,
	}
	r.reporter.Report(fmt.Sprintf("Found URL: %s", result.URL))
	r.reporter.Report(fmt.Sprintf("Build number: %s", result.Build))
	return result, nil
}
