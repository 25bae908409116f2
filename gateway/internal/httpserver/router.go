package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/titaniclabs/titanic-api/gateway/internal/middleware"
	authmw "github.com/titaniclabs/titanic-api/pkg/middleware/auth"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
)

type Deps struct {
	AuthURL       string
	PassengerURL  string
	StatisticsURL string

	Codec *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range middleware.Common() {
		e.Use(m)
	}

	authProxy, err := newProxy(d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}

	passengerProxy, err := newProxy(d.PassengerURL, "/api/v1")
	if err != nil {
		return err
	}

	statisticsProxy, err := newProxy(d.StatisticsURL, "/api/v1")
	if err != nil {
		return err
	}

	// the auth service guards its own /me endpoints
	e.Any("/api/v1/auth/*", authProxy)

	e.Match([]string{http.MethodGet}, "/api/v1/passengers", passengerProxy)
	e.Match([]string{http.MethodGet}, "/api/v1/passengers/*", passengerProxy)
	e.Match([]string{http.MethodGet}, "/api/v1/statistics", statisticsProxy)
	e.Match([]string{http.MethodGet}, "/api/v1/statistics/*", statisticsProxy)

	api := e.Group("/api/v1")
	api.Use(authmw.RequireAuth(d.Codec))

	api.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, "/passengers", passengerProxy)
	api.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, "/passengers/*", passengerProxy)

	admin := api.Group("", authmw.RequireRole(authmw.RoleAdmin))
	admin.Match([]string{http.MethodDelete}, "/passengers/*", passengerProxy)

	return nil
}
