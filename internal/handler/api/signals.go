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

// SignalsHandler accepts out-of-band signal batches (backfills, manual
// submissions) for ingestion.
type SignalsHandler struct {
	logger *xlogger.Logger
	ing    *usecase.SignalIngestor
}

func NewSignalsHandler(logger *xlogger.Logger, ing *usecase.SignalIngestor) *SignalsHandler {
	metrics.Register()
	return &SignalsHandler{logger: logger, ing: ing}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/signals", h.Ingest)
}

func (h *SignalsHandler) Ingest(c echo.Context) error {
	start := time.Now()
	endpoint := "signals_ingest"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalIngestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	batch := make([]*models.Signal, len(req.Signals))
	for i := range req.Signals {
		batch[i] = &req.Signals[i]
	}
	if err := h.ing.IngestBatch(c.Request().Context(), batch); err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signals ingest error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]int{"ingested": len(batch)})
}
