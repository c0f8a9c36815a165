package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	models "SMCAlert/internal/domain/models"
	domrepo "SMCAlert/internal/domain/repository"
	icache "SMCAlert/internal/service/cache"
	"SMCAlert/internal/service/metrics"
	"SMCAlert/internal/service/ratelimit"
	"SMCAlert/internal/smc"
	"SMCAlert/internal/usecase"
	xhttp "SMCAlert/pkg/http"
	xlogger "SMCAlert/pkg/logger"

	"github.com/labstack/echo/v4"
)

const responseCacheTTL = 30 * time.Second

// AnalysisHandler exposes the analysis endpoints over Echo.
type AnalysisHandler struct {
	logger    *xlogger.Logger
	analysis  *usecase.AnalysisUseCase
	candles   *usecase.CandlesUseCase
	watchlist *usecase.WatchlistUseCase
	sentiment *usecase.SentimentUseCase
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
}

func NewAnalysisHandler(
	logger *xlogger.Logger,
	analysis *usecase.AnalysisUseCase,
	candles *usecase.CandlesUseCase,
	watchlist *usecase.WatchlistUseCase,
	sentiment *usecase.SentimentUseCase,
) *AnalysisHandler {
	metrics.Register()
	return &AnalysisHandler{
		logger:    logger,
		analysis:  analysis,
		candles:   candles,
		watchlist: watchlist,
		sentiment: sentiment,
		rl:        ratelimit.New(),
	}
}

// SetCache enables short-lived response caching.
func (h *AnalysisHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/consensus", h.Consensus)
	g.GET("/candles", h.Candles)
	g.GET("/candles/range", h.CandlesRange)
	g.GET("/sentiment", h.Sentiment)
	g.POST("/watchlist", h.Watchlist)
}

func (h *AnalysisHandler) Analysis(c echo.Context) error {
	start := time.Now()
	endpoint := "analysis"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if resp := h.checkRateLimit(c, endpoint, 5, 2); resp != nil {
		return resp()
	}

	key := fmt.Sprintf("analysis:%s:%s:%d", req.Symbol, req.TF, req.N)
	if cached := h.serveCached(c, endpoint, key); cached != nil {
		return cached()
	}

	res, err := h.analysis.GetAnalysis(c.Request().Context(), usecase.AnalysisParams{
		Symbol:    req.Symbol,
		N:         req.N,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, usecaseError(err))
	}
	for _, a := range res.Alerts {
		metrics.AlertsGenerated.WithLabelValues(string(a.Kind)).Inc()
	}

	h.storeCached(endpoint, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Consensus(c echo.Context) error {
	start := time.Now()
	endpoint := "consensus"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ConsensusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if resp := h.checkRateLimit(c, endpoint, 5, 2); resp != nil {
		return resp()
	}

	res, err := h.analysis.GetConsensus(c.Request().Context(), usecase.AnalysisParams{
		Symbol:    req.Symbol,
		N:         req.N,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("consensus usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, usecaseError(err))
	}
	metrics.ConsensusVerdicts.WithLabelValues(string(res.Verdict)).Inc()

	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Candles(c echo.Context) error {
	start := time.Now()
	endpoint := "candles"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if resp := h.checkRateLimit(c, endpoint, 10, 5); resp != nil {
		return resp()
	}

	res, err := h.candles.GetLatest(c.Request().Context(), req.Symbol, req.N, domrepo.NormalizeTimeframe(req.TF))
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, usecaseError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) CandlesRange(c echo.Context) error {
	start := time.Now()
	endpoint := "candles_range"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	if resp := h.checkRateLimit(c, endpoint, 10, 5); resp != nil {
		return resp()
	}

	now := time.Now().UTC()
	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:    symbol,
		From:      xhttp.ParseTimeDefault(c.QueryParam("from"), now.Add(-time.Hour)),
		To:        xhttp.ParseTimeDefault(c.QueryParam("to"), now),
		Timeframe: domrepo.NormalizeTimeframe(c.QueryParam("tf")),
		Limit:     xhttp.ParseIntDefault(c.QueryParam("limit"), 10000),
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("candles range usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Sentiment(c echo.Context) error {
	start := time.Now()
	endpoint := "sentiment"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	if resp := h.checkRateLimit(c, endpoint, 5, 1); resp != nil {
		return resp()
	}

	res, err := h.sentiment.GetSentiment(c.Request().Context())
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("sentiment usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Watchlist(c echo.Context) error {
	start := time.Now()
	endpoint := "watchlist"
	defer func() { metrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.WatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if resp := h.checkRateLimit(c, endpoint, 2, 0.5); resp != nil {
		return resp()
	}

	res, err := h.watchlist.Analyze(c.Request().Context(), usecase.WatchlistParams{
		Symbols:   req.Symbols,
		N:         req.N,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
	})
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("watchlist usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// usecaseError maps domain errors to typed API errors so clients get a
// 4xx instead of a blanket 500.
func usecaseError(err error) error {
	if errors.Is(err, smc.ErrInsufficientData) {
		return xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "n", err.Error(), http.StatusUnprocessableEntity)
	}
	return err
}

// checkRateLimit returns a non-nil response func when the caller is over
// its per-endpoint budget.
func (h *AnalysisHandler) checkRateLimit(c echo.Context, endpoint string, capacity, refillPerSec float64) func() error {
	if h.rl.Allow(c.RealIP()+":"+endpoint, capacity, refillPerSec) {
		return nil
	}
	h.logger.Warn("rate limited",
		xlogger.String("endpoint", endpoint),
		xlogger.String("remote", c.RealIP()),
	)
	return func() error {
		return xhttp.DataResponse(c, 429, "rate limited")
	}
}

// serveCached returns a response func when a fresh cached body exists.
func (h *AnalysisHandler) serveCached(c echo.Context, endpoint, key string) func() error {
	if h.cache == nil {
		return nil
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("response cache read failed",
			xlogger.String("endpoint", endpoint),
			xlogger.Error(err),
		)
		return nil
	}
	if !ok {
		return nil
	}
	return func() error {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}
}

func (h *AnalysisHandler) storeCached(endpoint, key string, v interface{}) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, responseCacheTTL); err != nil {
		h.logger.Warn("response cache write failed",
			xlogger.String("endpoint", endpoint),
			xlogger.Error(err),
		)
	}
}
