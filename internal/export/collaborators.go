package export

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ProjectStore fetches project metadata and asset records.
type ProjectStore interface {
	// Project returns the project identity and its parsed json interface.
	Project(ctx context.Context, projectID string) (*Project, error)
	// Assets returns the project's assets, restricted to assetIDs when the
	// list is non-empty, with label fields scoped by exportType.
	Assets(ctx context.Context, projectID string, assetIDs []string, exportType ExportType) ([]*Asset, error)
}

// ContentRepository fetches asset media over the platform's file transport.
type ContentRepository interface {
	// Frames resolves a video asset's jsonContent index into an ordered list
	// of per-frame URLs. A non-OK response yields an empty list, not an error.
	Frames(ctx context.Context, contentURL string) ([]string, error)
	// ContentStream opens the media at url for reading. A non-OK response
	// yields a *DownloadError.
	ContentStream(ctx context.Context, url string) (io.ReadCloser, error)
}

// CutRequest describes one video-cut extraction.
type CutRequest struct {
	ContentURL   string
	AssetID      string
	ExternalID   string
	Indices      []int
	ImagesDir    string
	LeadingZeros int
	// FrameRate is the declared ingestion rate; 0 means probe the video.
	FrameRate float64
}

// VideoCutter downloads a raw video, extracts frames at the asset's frame
// rate, and copies the requested indices into the images directory.
type VideoCutter interface {
	Cut(ctx context.Context, req CutRequest) error
}

// DownloadError reports a non-OK response while fetching media. Single-frame
// downloads recover from it; everything else treats it as fatal.
type DownloadError struct {
	URL    string
	Status int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: status %d", e.URL, e.Status)
}

// HostRewriter maps public content URLs to their service-internal
// equivalents before a request is made.
type HostRewriter struct {
	Router        string
	ServiceRouter string
	APIV2         string
	APIPrivate    string
}

// Content rewrites the router host segment of a media URL.
func (h HostRewriter) Content(url string) string {
	if h.Router == "" {
		return url
	}
	return strings.Replace(url, h.Router, h.ServiceRouter, 1)
}

// Frame rewrites both the router host and the public API segment of a
// per-frame URL.
func (h HostRewriter) Frame(url string) string {
	url = h.Content(url)
	if h.APIV2 == "" {
		return url
	}
	return strings.Replace(url, h.APIV2, h.APIPrivate, 1)
}
