package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/pkg/logging"
	authmw "github.com/titaniclabs/titanic-api/pkg/middleware/auth"
	"github.com/titaniclabs/titanic-api/services/auth/internal/models"
	"github.com/titaniclabs/titanic-api/services/auth/internal/service"
	"github.com/titaniclabs/titanic-api/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

// httpError keeps the externally observable status/message contract in one
// place. Unknown errors become opaque 500s so internals never leak.
func httpError(err error) *echo.HTTPError {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return echo.NewHTTPError(ae.HTTPStatus(), echo.Map{
			"code":    ae.Code,
			"message": ae.Message,
			"field":   ae.Field,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func tokenResponse(pair *service.TokenPair) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    pair.ExpiresIn(),
	}
}

func userResponse(u *models.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func callerID(c echo.Context) (uint, error) {
	sub, _ := c.Get(authmw.CtxUserID).(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return uint(id), nil
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, tokenResponse(pair))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := callerID(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.Me(ctx, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := callerID(c)
	if err != nil {
		return err
	}

	var patch transport.UpdateMeRequest
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateMe(ctx, id, patch)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, userResponse(user))
}
