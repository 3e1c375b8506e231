// Package feed models the GoToMeeting release-metadata feed and knows how
// to decode it from its wire encodings.
package feed

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// AssetName is the canonical filename every resolved download URL ends in,
// regardless of the filename the vendor happens to embed in the feed.
const AssetName = "GoToMeeting.dmg"

// BuildEntry describes a single active build in the feed. Build numbers are
// integers but the vendor serializes them as strings.
type BuildEntry struct {
	BuildNumber    string `json:"buildNumber"`
	MacDownloadURL string `json:"macDownloadUrl"`
}

// Document is a decoded release-metadata feed.
type Document struct {
	ActiveBuilds []BuildEntry `json:"activeBuilds"`
}

// Encoding identifies how the feed bytes were encoded on the wire.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingGzip Encoding = "gzip"
)

var (
	ErrEmptyFeed = errors.New("feed has no active builds")
)

// Decode parses feed bytes into a Document. The vendor serves the feed
// sometimes as plain JSON and sometimes gzip-compressed, so Decode tries
// plain JSON first and falls back to gunzip-then-parse. The returned
// Encoding says which one succeeded.
func Decode(data []byte) (*Document, Encoding, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil {
		return &doc, EncodingJSON, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("feed is neither plain JSON nor gzip: %w", err)
	}
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress feed: %w", err)
	}
	if err := json.Unmarshal(decompressed, &doc); err != nil {
		return nil, "", fmt.Errorf("decompressed feed is not valid JSON: %w", err)
	}
	return &doc, EncodingGzip, nil
}

// MaxBuild returns the entry with the numerically greatest build number
// across all active builds. Comparison is numeric, not lexicographic, so
// build "10" beats build "9". Ties resolve to the first max encountered.
func (d *Document) MaxBuild() (BuildEntry, error) {
	if len(d.ActiveBuilds) == 0 {
		return BuildEntry{}, ErrEmptyFeed
	}

	var (
		max    BuildEntry
		maxNum int
	)
	for i, entry := range d.ActiveBuilds {
		n, err := strconv.Atoi(entry.BuildNumber)
		if err != nil {
			return BuildEntry{}, fmt.Errorf("build number %q is not an integer: %w", entry.BuildNumber, err)
		}
		if i == 0 || n > maxNum {
			max = entry
			maxNum = n
		}
	}
	return max, nil
}

// NormalizeAssetURL replaces the final path segment of a download URL with
// AssetName. Vendor feeds have been observed to embed version-specific or
// obfuscated filenames; the pipeline wants a stable one.
func NormalizeAssetURL(url string) string {
	parts := strings.Split(url, "/")
	parts[len(parts)-1] = AssetName
	return strings.Join(parts, "/")
}
