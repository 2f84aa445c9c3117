package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"chesslens/internal/logger"
	"chesslens/internal/models"
)

// PositionEval is the engine's verdict on a single position.
type PositionEval struct {
	Score       models.Score
	BestMoveUCI string
	BestMoveSAN string
	Depth       int
}

// Evaluator scores a position from white's perspective.
type Evaluator interface {
	Evaluate(ctx context.Context, fen string, depth int) (PositionEval, error)
}

const defaultBaseURL = "https://chess-api.com/v1"

// Client evaluates positions through the chess-api.com service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Default().WithPrefix("engine"),
	}
}

type evalRequest struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth"`
}

type evalResponse struct {
	Eval  float64 `json:"eval"` // pawns from white's perspective
	Mate  *int    `json:"mate"`
	Move  string  `json:"move"` // long algebraic, e.g. e2e4
	SAN   string  `json:"san"`
	Depth int     `json:"depth"`
	Type  string  `json:"type"`
	Text  string  `json:"text"`
}

// Evaluate scores one position. The service reports pawns; scores are
// converted to centipawns, and forced mates carry the mate distance
// instead of a centipawn value.
func (c *Client) Evaluate(ctx context.Context, fen string, depth int) (PositionEval, error) {
	log := logger.FromContext(ctx).WithPrefix("engine").WithField("depth", depth)

	log.Debug("evaluating position: %s", fen)
	start := time.Now()

	payload, err := json.Marshal(evalRequest{FEN: fen, Depth: depth})
	if err != nil {
		return PositionEval{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return PositionEval{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to evaluate position: %v", err)
		return PositionEval{}, err
	}
	defer resp.Body.Close()

	log.Debug("engine response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("engine request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return PositionEval{}, fmt.Errorf("engine status %d: %s", resp.StatusCode, string(body))
	}

	var out evalResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode engine response: %v", err)
		return PositionEval{}, err
	}

	ev := PositionEval{
		Score:       models.Score{CP: int(math.Round(out.Eval * 100))},
		BestMoveUCI: out.Move,
		BestMoveSAN: out.SAN,
		Depth:       out.Depth,
	}
	if out.Mate != nil {
		mate := *out.Mate
		ev.Score = models.Score{Mate: &mate}
	}
	return ev, nil
}

var _ Evaluator = (*Client)(nil)
