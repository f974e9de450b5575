// Package cache provides a fail-open client for the external disk-cache
// service. Every failure degrades to a miss or no-store outcome; callers
// must treat the cache as advisory and keep a correct fallback path.
package cache

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const itemPath = "/api/v1/item"

// getTimeout caps the read path so one slow cache lookup cannot stall a
// request that can fall back cheaply.
const getTimeout = 500 * time.Millisecond

// Client talks to the disk-cache service. A client constructed with an empty
// base URL is disabled: Get always misses and Set never stores, with zero
// network calls.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

func New(baseURL string, log zerolog.Logger) *Client {
	c := &Client{log: log}
	if baseURL == "" {
		return c
	}
	c.http = resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	return c
}

// Set stores a value under key and reports whether it was stored. Values are
// passed through opaquely; the client never inspects them.
func (c *Client) Set(ctx context.Context, key string, value any) bool {
	if c.http == nil {
		return false
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"key": key, "value": value}).
		Post(itemPath)
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("disk cache set failed")
		return false
	}
	if resp.StatusCode() == http.StatusOK {
		return true
	}
	if resp.StatusCode() != http.StatusNotFound {
		c.log.Error().Int("status", resp.StatusCode()).Str("key", key).Msg("disk cache set failed")
	}
	return false
}

// Get retrieves the raw value stored under key. A 404 from the service is an
// ordinary miss; any other failure is logged and also reported as a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.http == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, getTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", key).
		Get(itemPath)
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("disk cache get failed")
		return nil, false
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), true
	case http.StatusNotFound:
		return nil, false
	default:
		c.log.Error().Int("status", resp.StatusCode()).Str("key", key).Msg("disk cache get failed")
		return nil, false
	}
}
