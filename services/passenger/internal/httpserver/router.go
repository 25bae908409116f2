package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/titaniclabs/titanic-api/pkg/middleware/auth"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
)

type Deps struct {
	PassengerHandler *PassengerHTTP
	Codec            *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": "titanic-passengers",
			"status":  "running",
		})
	})

	e.GET("/passengers", d.PassengerHandler.List)
	e.GET("/passengers/search", d.PassengerHandler.Search)
	e.GET("/passengers/:id", d.PassengerHandler.Get)

	private := e.Group("", authmw.RequireAuth(d.Codec))
	private.POST("/passengers", d.PassengerHandler.Create)
	private.PUT("/passengers/:id", d.PassengerHandler.Update)

	admin := private.Group("", authmw.RequireRole(authmw.RoleAdmin))
	admin.DELETE("/passengers/:id", d.PassengerHandler.Delete)
}
