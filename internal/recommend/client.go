package recommend

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/litswap/litswap-server/internal/domain"
)

const defaultTimeout = 300 * time.Millisecond

// Client is the HTTP implementation of Ranker. It POSTs candidate ISBNs to
// the ranking service and maps the returned ordering back onto the candidate
// books.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a ranking client. The timeout is the hard budget for a
// single ranking call; discovery never waits longer than this.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url:     url,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

type rankRequest struct {
	ISBNs []string `json:"isbns"`
	Count int      `json:"count"`
}

type rankResponse struct {
	ISBNs []string `json:"isbns"`
}

// Rank asks the service to order the candidates, best first.
func (c *Client) Rank(ctx context.Context, candidates []*domain.Book, count int) ([]*domain.Book, error) {
	if len(candidates) == 0 || count <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	isbns := make([]string, 0, len(candidates))
	byISBN := make(map[string][]*domain.Book, len(candidates))
	for _, book := range candidates {
		isbns = append(isbns, book.ISBN)
		byISBN[book.ISBN] = append(byISBN[book.ISBN], book)
	}

	payload, err := json.Marshal(rankRequest{ISBNs: isbns, Count: count})
	if err != nil {
		return nil, fmt.Errorf("marshal rank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create rank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute rank request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rank response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rank service returned status %d", resp.StatusCode)
	}

	var result rankResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse rank response: %w", err)
	}

	// Map the returned ordering back to books, ignoring ISBNs we never sent
	ranked := make([]*domain.Book, 0, count)
	for _, isbn := range result.ISBNs {
		books := byISBN[isbn]
		if len(books) == 0 {
			continue
		}
		ranked = append(ranked, books[0])
		byISBN[isbn] = books[1:]

		if len(ranked) >= count {
			break
		}
	}

	return ranked, nil
}
