package api

import (
	"BotFolio/internal/usecase"
	xhttp "BotFolio/pkg/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports component liveness.
type HealthHandler struct {
	collector *usecase.SignalCollector
	checks    map[string]func(echo.Context) error
}

func NewHealthHandler(collector *usecase.SignalCollector) *HealthHandler {
	return &HealthHandler{collector: collector, checks: map[string]func(echo.Context) error{}}
}

// AddCheck registers a named health probe.
func (h *HealthHandler) AddCheck(name string, fn func(echo.Context) error) {
	h.checks[name] = fn
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	status := map[string]string{}
	healthy := true
	for name, fn := range h.checks {
		if err := fn(c); err != nil {
			status[name] = err.Error()
			healthy = false
		} else {
			status[name] = "ok"
		}
	}
	if h.collector != nil {
		if h.collector.IsConnected() {
			status["feed"] = "connected"
		} else {
			status["feed"] = "disconnected"
		}
	}
	if !healthy {
		return xhttp.DataResponse(c, 503, status)
	}
	return xhttp.SuccessResponse(c, status)
}
