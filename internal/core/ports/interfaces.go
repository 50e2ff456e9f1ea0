package ports

import (
	"context"
	"io"
)

// RenderedPage is a snapshot of a template page after the browser has
// rendered it and waited for the media element to settle.
type RenderedPage struct {
	URL string
	// HTML is the full outer HTML of the rendered document.
	HTML string
	// VideoSrc is the live video element's resolved source, taken from the
	// DOM after rendering. Empty when no video element was found.
	VideoSrc string
}

// Browser defines the contract for the headless browser session used to
// discover template pages and render them.
type Browser interface {
	// SearchTemplates runs a search query against the platform and returns
	// up to maxResults template page URLs, deduplicated.
	SearchTemplates(ctx context.Context, query string, maxResults int) ([]string, error)

	// RenderPage navigates to pageURL and returns the rendered snapshot.
	RenderPage(ctx context.Context, pageURL string) (*RenderedPage, error)

	// Close tears the browser session down.
	Close() error
}

// Downloader defines the contract for streaming media files.
type Downloader interface {
	// Download fetches the media at the given URL.
	// Returns a ReadCloser that the caller must close.
	Download(ctx context.Context, mediaURL string) (io.ReadCloser, error)
}

// Staging defines the contract for per-record scratch files. Staged files
// live only for the duration of one record's pipeline.
type Staging interface {
	// SaveVideo streams the reader to a staged video file and returns its path.
	SaveVideo(name string, r io.Reader) (string, error)

	// ThumbnailPath returns the staging path a thumbnail should be written to.
	ThumbnailPath(name string) string

	// Remove deletes staged files best-effort; missing files are not an error.
	Remove(paths ...string)
}

// Thumbnailer defines the contract for extracting a still image from a
// local video file.
type Thumbnailer interface {
	// Extract decodes the frame nearest to timestamp (seconds) and writes it
	// to thumbPath. Implementations clamp timestamps beyond the video's
	// duration to its midpoint.
	Extract(ctx context.Context, videoPath, thumbPath string, timestamp float64) error
}

// Uploader defines the contract for pushing a local file to the public
// file host.
type Uploader interface {
	// Upload performs a single upload attempt and returns the hosted URL.
	Upload(ctx context.Context, filePath string) (string, error)
}
