package indicators

import (
	"context"
	"fmt"
	"time"

	"SMCAlert/internal/domain/models"
	domsvc "SMCAlert/internal/domain/service"
	"SMCAlert/pkg/config"
	xhttp "SMCAlert/pkg/http"
)

// Client fetches pre-computed macro sub-scores from the indicators service.
// The composer only blends what this returns; no sub-score math happens here.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// New builds an HTTP client with timeout and base URL from config.
func New(cfg *config.Config) *Client {
	timeout := cfg.Sentiment.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.Sentiment.IndicatorsURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// wire schema of the indicators service composite endpoint
type compositeResponse struct {
	Scores struct {
		FearGreed  float64 `json:"fear_greed"`
		VIX        float64 `json:"vix"`
		Breadth    float64 `json:"breadth"`
		Sector     float64 `json:"sector_rotation"`
		MA         float64 `json:"moving_averages"`
		YieldCurve float64 `json:"yield_curve"`
	} `json:"scores"`
	Raw struct {
		FearGreedIndex float64 `json:"fear_greed_index"`
		VIXLevel       float64 `json:"vix_level"`
		BreadthPct     float64 `json:"breadth_pct"`
	} `json:"raw"`
}

// FetchIndicators retrieves the current sub-scores, retrying transient errors.
func (c *Client) FetchIndicators(ctx context.Context) (models.SentimentInputs, error) {
	if c.client == nil || c.baseURL == "" {
		return models.SentimentInputs{}, fmt.Errorf("indicators http client not initialized")
	}

	var resp compositeResponse
	err := c.getWithRetry(ctx, "/v1/composite", &resp, 3)
	if err != nil {
		return models.SentimentInputs{}, fmt.Errorf("fetch composite: %w", err)
	}

	return models.SentimentInputs{
		FearGreedScore:  resp.Scores.FearGreed,
		VIXScore:        resp.Scores.VIX,
		BreadthScore:    resp.Scores.Breadth,
		SectorScore:     resp.Scores.Sector,
		MAScore:         resp.Scores.MA,
		YieldCurveScore: resp.Scores.YieldCurve,
		FearGreedValue:  resp.Raw.FearGreedIndex,
		VIXValue:        resp.Raw.VIXLevel,
		BreadthPct:      resp.Raw.BreadthPct,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + path,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// getWithRetry retries with a short linear backoff for transient errors.
func (c *Client) getWithRetry(ctx context.Context, path string, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return c.get(ctx, path, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = c.get(ctx, path, dest)
		if err == nil {
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

var _ domsvc.IndicatorSource = (*Client)(nil)
