package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	models "BotFolio/internal/domain/models"
	icache "BotFolio/internal/service/cache"
	"BotFolio/internal/service/metrics"
	"BotFolio/internal/service/ratelimit"
	"BotFolio/internal/usecase"
	xhttp "BotFolio/pkg/http"
	xlogger "BotFolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OpportunitiesHandler serves the ranked opportunity endpoints.
type OpportunitiesHandler struct {
	logger *xlogger.Logger
	ranker *usecase.OpportunityRanker
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
}

func NewOpportunitiesHandler(logger *xlogger.Logger, ranker *usecase.OpportunityRanker) *OpportunitiesHandler {
	metrics.Register()
	return &OpportunitiesHandler{logger: logger, ranker: ranker, rl: ratelimit.New()}
}

// SetCache injects a response byte cache.
func (h *OpportunitiesHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *OpportunitiesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/opportunities", h.List)
	g.GET("/opportunities/:symbol", h.Get)
}

func (h *OpportunitiesHandler) List(c echo.Context) error {
	start := time.Now()
	endpoint := "opportunities"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.OpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":opps", 5, 2) {
		h.logger.Warn("opportunities rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(429, "rate limited")
	}

	cacheKey := fmt.Sprintf("opps:%d", req.Limit)
	if h.cache != nil && !req.Refresh {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("opportunities cache_get_error", xlogger.Error(err))
		} else if ok {
			h.logger.Debug("opportunities cache_hit", xlogger.String("key", cacheKey))
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
	}

	res, err := h.ranker.Opportunities(c.Request().Context(), req.Limit, req.Refresh)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("opportunities usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 30*time.Second); err != nil {
				h.logger.Warn("opportunities cache_set_error", xlogger.Error(err))
			}
		}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, res)
}

func (h *OpportunitiesHandler) Get(c echo.Context) error {
	start := time.Now()
	endpoint := "opportunity"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.OpportunityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":opp", 10, 5) {
		h.logger.Warn("opportunity rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(429, "rate limited")
	}

	res, err := h.ranker.Opportunity(c.Request().Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, usecase.ErrSymbolNotRanked) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no signals for %s in the current window", req.Symbol))
		}
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("opportunity usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
