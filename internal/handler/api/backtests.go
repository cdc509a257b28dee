package api

import (
	"time"

	models "BotFolio/internal/domain/models"
	"BotFolio/internal/service/metrics"
	"BotFolio/internal/usecase"
	xhttp "BotFolio/pkg/http"
	xlogger "BotFolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BacktestsHandler serves backtest performance analysis.
type BacktestsHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.BacktestAnalyzer
}

func NewBacktestsHandler(logger *xlogger.Logger, analyzer *usecase.BacktestAnalyzer) *BacktestsHandler {
	metrics.Register()
	return &BacktestsHandler{logger: logger, analyzer: analyzer}
}

func (h *BacktestsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/backtests/metrics", h.Metrics)
}

func (h *BacktestsHandler) Metrics(c echo.Context) error {
	start := time.Now()
	endpoint := "backtest_metrics"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BacktestMetricsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), *req)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("backtest analyze error", xlogger.String("run_id", req.RunID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
