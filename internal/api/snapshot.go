package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"volley-rank/internal/config"
	"volley-rank/internal/constants"
	"volley-rank/internal/domain"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("snapshot %s: status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// SnapshotResponse is the published JSON document of tournament results.
type SnapshotResponse struct {
	GeneratedAt string         `json:"generatedAt,omitempty"`
	Tournaments []domain.Batch `json:"tournaments"`
}

type FetchInfo struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"lastModified,omitempty"`
	Tournaments  int       `json:"tournaments"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

type SnapshotClient struct {
	url    string
	client *fasthttp.Client
	logger zerolog.Logger

	lastFetchMu sync.RWMutex
	lastFetch   FetchInfo
}

func NewSnapshotClient(cfg *config.Config, logger zerolog.Logger) *SnapshotClient {
	return &SnapshotClient{
		url: cfg.SnapshotURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

// URL is the configured snapshot location.
func (c *SnapshotClient) URL() string {
	return c.url
}

func (c *SnapshotClient) LastFetch() FetchInfo {
	c.lastFetchMu.RLock()
	defer c.lastFetchMu.RUnlock()
	return c.lastFetch
}

func (c *SnapshotClient) recordFetch(url string, resp *fasthttp.Response, tournaments int) {
	c.lastFetchMu.Lock()
	defer c.lastFetchMu.Unlock()

	c.lastFetch = FetchInfo{
		URL:          url,
		ETag:         string(resp.Header.Peek("ETag")),
		LastModified: string(resp.Header.Peek("Last-Modified")),
		Tournaments:  tournaments,
		FetchedAt:    time.Now(),
	}
}

// FetchSnapshot downloads the tournament document at url.
func (c *SnapshotClient) FetchSnapshot(ctx context.Context, url string) (*SnapshotResponse, error) {
	if url == "" {
		return nil, fmt.Errorf("snapshot url is empty")
	}

	snapshot, resp, err := doRequest[SnapshotResponse](ctx, c.client, url)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("snapshot fetch failed")
		return nil, err
	}
	defer fasthttp.ReleaseResponse(resp)

	c.recordFetch(url, resp, len(snapshot.Tournaments))
	c.logger.Info().
		Str("url", url).
		Int("tournaments", len(snapshot.Tournaments)).
		Msg("snapshot fetched")

	return snapshot, nil
}

// doRequest GETs url and decodes a JSON body into T. The caller releases the
// returned response.
func doRequest[T any](ctx context.Context, client *fasthttp.Client, url string) (*T, *fasthttp.Response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.Do(req, resp)
	}
	if err != nil {
		fasthttp.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("request %s: %w", url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		code := resp.StatusCode()
		fasthttp.ReleaseResponse(resp)
		return nil, nil, &StatusError{URL: url, StatusCode: code}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		fasthttp.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &result, resp, nil
}
