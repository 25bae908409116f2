package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/titaniclabs/titanic-api/pkg/middleware/auth"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Codec       *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": "titanic-auth",
			"status":  "running",
		})
	})

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	// Logout needs only a well-formed refresh token, so an expired access
	// token does not trap the client in a logged-in state.
	e.POST("/logout", d.AuthHandler.Logout)

	private := e.Group("", authmw.RequireAuth(d.Codec))
	private.GET("/me", d.AuthHandler.Me)
	private.PUT("/me", d.AuthHandler.UpdateMe)
}
