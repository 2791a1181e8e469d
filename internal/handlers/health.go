package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memohai/quote/internal/healthcheck"
)

type HealthHandler struct {
	logger  *slog.Logger
	checker healthcheck.Checker
}

type HealthResponse struct {
	Status string                    `json:"status"`
	Checks []healthcheck.CheckResult `json:"checks"`
}

func NewHealthHandler(log *slog.Logger, checker healthcheck.Checker) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		logger:  log.With(slog.String("handler", "health")),
		checker: checker,
	}
}

func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health/checks", h.ListChecks)
}

// ListChecks responds 503 when any check is in error.
func (h *HealthHandler) ListChecks(c echo.Context) error {
	items := []healthcheck.CheckResult{}
	if h.checker != nil {
		if got := h.checker.ListChecks(c.Request().Context()); got != nil {
			items = got
		}
	}
	overall := healthcheck.Overall(items)
	code := http.StatusOK
	if overall == healthcheck.StatusError {
		code = http.StatusServiceUnavailable
		h.logger.Warn("health checks failing", slog.Int("checks", len(items)))
	}
	return c.JSON(code, HealthResponse{Status: overall, Checks: items})
}
