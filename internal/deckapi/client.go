package deckapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arcanaland/deckspawn/internal/logging"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

type Client struct {
	logger  *slog.Logger
	http    *http.Client
	baseURL string
}

// NewClient returns a client for the service rooted at baseURL.
// A nil httpClient gets a client with a 30s timeout.
func NewClient(logger *slog.Logger, baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("deck service base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid deck service base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		logger:  logger,
		http:    httpClient,
		baseURL: baseURL,
	}, nil
}

// DeckURL returns the lookup URL for slug.
func (c *Client) DeckURL(slug string) string {
	return c.baseURL + "/api/deck/" + url.PathEscape(slug) + "/"
}

// FetchDeck issues a single lookup for slug. It never retries.
func (c *Client) FetchDeck(ctx context.Context, slug string) (*Response, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, &Error{Kind: KindTransport, Msg: "deck id is empty"}
	}

	target := c.DeckURL(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("deck lookup", "url", target)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Msg: err.Error(), Err: err}
	}
	c.logger.Debug("deck lookup done",
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Msg: resp.Status}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &Error{Kind: KindEmptyResponse, Status: resp.StatusCode}
	}

	return decode(body)
}

func decode(body []byte) (*Response, error) {
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Kind: KindMalformed, Msg: err.Error(), Err: err}
	}
	// a blank name is left to the validator; only an absent one is malformed
	var head struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(body, &head); err != nil || head.Name == nil {
		return nil, &Error{Kind: KindMalformed, Msg: "missing deck name"}
	}
	return &out, nil
}
