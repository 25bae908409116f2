package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	StatisticsHandler *StatisticsHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": "titanic-statistics",
			"status":  "running",
		})
	})

	e.GET("/statistics", d.StatisticsHandler.Overall)
	e.GET("/statistics/class", d.StatisticsHandler.ByClass)
	e.GET("/statistics/embarked", d.StatisticsHandler.ByEmbarked)
}
