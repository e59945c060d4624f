package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/litswap/litswap-server/internal/normalize"
	"github.com/litswap/litswap-server/internal/ratelimit"
)

const (
	// Rate limit: 1 request per second, burst of 3. The public volumes API
	// throttles aggressively on anonymous traffic.
	defaultRPS   = 1.0
	defaultBurst = 3

	defaultTimeout = 10 * time.Second

	// Fallbacks when the catalog record is incomplete.
	unknownTitle  = "Unknown Title"
	unknownAuthor = "Unknown Author"
)

// Client is a rate-limited Google Books volumes client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewClient creates a catalog client against the given volumes API base URL,
// e.g. "https://www.googleapis.com/books/v1".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// LookupByISBN resolves volume metadata for an ISBN.
// Returns ErrInvalidISBN for malformed input and ErrNotFound when the catalog
// has no record of the edition.
func (c *Client) LookupByISBN(ctx context.Context, isbn string) (*Volume, error) {
	cleaned := normalize.ISBN(isbn)
	if cleaned == "" {
		return nil, wrapError("lookup", isbn, ErrInvalidISBN)
	}

	query := url.Values{}
	query.Set("q", "isbn:"+cleaned)
	query.Set("maxResults", "1")

	body, err := c.doRequest(ctx, "/volumes", query)
	if err != nil {
		return nil, wrapError("lookup", cleaned, err)
	}

	var result volumesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, wrapError("lookup", cleaned, fmt.Errorf("parse response: %w", err))
	}

	if result.TotalItems == 0 || len(result.Items) == 0 {
		return nil, wrapError("lookup", cleaned, ErrNotFound)
	}

	return volumeFromItem(cleaned, result.Items[0].VolumeInfo), nil
}

// doRequest executes a catalog request with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "volumes"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "LitSwap/1.0")

	if c.logger != nil {
		c.logger.Debug("catalog request", "path", path, "query", query.Get("q"))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

// volumeFromItem maps a raw catalog record into a Volume, filling fallbacks
// for missing fields.
func volumeFromItem(isbn string, info rawVolumeInfo) *Volume {
	v := &Volume{
		ISBN:        isbn,
		Title:       strings.TrimSpace(info.Title),
		Description: descriptionToMarkdown(info.Description),
	}

	if v.Title == "" {
		v.Title = unknownTitle
	}

	if len(info.Authors) > 0 {
		v.Author = strings.Join(info.Authors, ", ")
	} else {
		v.Author = unknownAuthor
	}

	// PublishedDate is "YYYY", "YYYY-MM" or "YYYY-MM-DD"; keep the year
	if len(info.PublishedDate) >= 4 {
		v.Year = info.PublishedDate[:4]
	}

	if len(info.Categories) > 0 {
		v.Category = info.Categories[0]
	}

	return v
}

// Raw API response types (internal)

type volumesResponse struct {
	TotalItems int       `json:"totalItems"`
	Items      []rawItem `json:"items"`
}

type rawItem struct {
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
}
