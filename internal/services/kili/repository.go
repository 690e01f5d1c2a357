package kili

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"kiliexport/internal/config"
	"kiliexport/internal/export"
)

// ContentRepository fetches media over HTTP. Requests for router-served
// content carry the platform auth headers. It implements
// export.ContentRepository.
type ContentRepository struct {
	routerEndpoint string
	apiKey         string
	bypassKey      string
	httpClient     *http.Client
}

// NewContentRepository builds the media fetcher from configuration. The
// router endpoint should be the service-internal one, matching the rewritten
// URLs the export core hands over.
func NewContentRepository(cfg *config.Config) *ContentRepository {
	transport := http.DefaultTransport
	if !cfg.API.VerifySSL {
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return &ContentRepository{
		routerEndpoint: cfg.ServiceRouter(),
		apiKey:         cfg.API.Key,
		bypassKey:      cfg.API.BypassKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Minute,
		},
	}
}

// Frames resolves a jsonContent index into its frame URLs, ordered by
// numeric frame key. A non-OK response yields an empty list.
func (r *ContentRepository) Frames(ctx context.Context, contentURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, contentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build frames request: %w", err)
	}
	if strings.HasPrefix(contentURL, r.routerEndpoint) {
		r.setAuthHeaders(req)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch frame index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var index map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("decode frame index: %w", err)
	}

	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		left, leftErr := strconv.Atoi(keys[i])
		right, rightErr := strconv.Atoi(keys[j])
		if leftErr != nil || rightErr != nil {
			return keys[i] < keys[j]
		}
		return left < right
	})

	frames := make([]string, 0, len(keys))
	for _, key := range keys {
		frames = append(frames, index[key])
	}
	return frames, nil
}

// ContentStream opens the media at url. Non-OK responses surface as
// *export.DownloadError.
func (r *ContentRepository) ContentStream(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	r.setAuthHeaders(req)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &export.DownloadError{URL: url, Status: resp.StatusCode}
	}
	return resp.Body, nil
}

func (r *ContentRepository) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "X-API-Key: "+r.apiKey)
	if r.bypassKey != "" {
		req.Header.Set("X-bypass-key", r.bypassKey)
	}
}
