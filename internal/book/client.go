package book

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chesslens/internal/analysis"
	"chesslens/internal/logger"
)

const defaultBaseURL = "https://explorer.lichess.ovh"

// Client queries the Lichess opening explorer for book-move frequency
// tables. It implements analysis.BookSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New() *Client {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL points the client at a different host, used by tests.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.Default().WithPrefix("book"),
	}
}

type explorerResp struct {
	White int `json:"white"`
	Draws int `json:"draws"`
	Black int `json:"black"`
	Moves []struct {
		UCI   string `json:"uci"`
		SAN   string `json:"san"`
		White int    `json:"white"`
		Draws int    `json:"draws"`
		Black int    `json:"black"`
	} `json:"moves"`
}

// Lookup returns the reference-move table for a position. An empty slice
// means the position was never reached in the master games database.
func (c *Client) Lookup(ctx context.Context, fen string) ([]analysis.BookMove, error) {
	log := logger.FromContext(ctx).WithPrefix("book")
	reqURL := fmt.Sprintf("%s/masters?fen=%s", c.baseURL, url.QueryEscape(fen))

	log.Debug("looking up position: %s", fen)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to query explorer: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("explorer response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("explorer request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("explorer status %d: %s", resp.StatusCode, string(body))
	}

	var out explorerResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode explorer response: %v", err)
		return nil, err
	}

	moves := make([]analysis.BookMove, 0, len(out.Moves))
	for _, m := range out.Moves {
		moves = append(moves, analysis.BookMove{
			UCI:   m.UCI,
			SAN:   m.SAN,
			Games: m.White + m.Draws + m.Black,
		})
	}
	return moves, nil
}

var _ analysis.BookSource = (*Client)(nil)
