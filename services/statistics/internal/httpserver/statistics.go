package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/titaniclabs/titanic-api/pkg/logging"
	"github.com/titaniclabs/titanic-api/services/statistics/internal/service"
)

type StatisticsHTTP struct {
	Svc *service.StatisticsService
}

func (h *StatisticsHTTP) Overall(c echo.Context) error {
	ctx := c.Request().Context()

	sum, err := h.Svc.Overall(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("statistics_error", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "passenger service unavailable")
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *StatisticsHTTP) ByClass(c echo.Context) error {
	ctx := c.Request().Context()

	groups, err := h.Svc.ByClass(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("statistics_error", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "passenger service unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}

func (h *StatisticsHTTP) ByEmbarked(c echo.Context) error {
	ctx := c.Request().Context()

	groups, err := h.Svc.ByEmbarked(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("statistics_error", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "passenger service unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}
