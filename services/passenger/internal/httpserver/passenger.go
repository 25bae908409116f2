package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/pkg/logging"
	authmw "github.com/titaniclabs/titanic-api/pkg/middleware/auth"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/repo"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/service"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/transport"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/util"
)

type PassengerHTTP struct {
	Svc *service.PassengerService
}

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

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	return uint(id), nil
}

func (h *PassengerHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	f := repo.ListFilter{
		Sex:      c.QueryParam("sex"),
		Embarked: c.QueryParam("embarked"),
	}
	if raw := c.QueryParam("pclass"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 3 {
			return echo.NewHTTPError(http.StatusBadRequest, "pclass must be 1, 2 or 3")
		}
		f.Pclass = &v
	}
	if f.Sex != "" && f.Sex != models.SexMale && f.Sex != models.SexFemale {
		return echo.NewHTTPError(http.StatusBadRequest, "sex must be 'male' or 'female'")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	f.Offset, f.Limit = util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, f)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.ListResponse{
		Total: total,
		Page:  page,
		Size:  f.Limit,
		Items: items,
	})
}

func (h *PassengerHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchByName(ctx, name, offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.ListResponse{
		Total: total,
		Page:  page,
		Size:  limit,
		Items: items,
	})
}

func (h *PassengerHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PassengerHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "passenger_create")

	var req transport.PassengerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	createdBy, _ := c.Get(authmw.CtxUsername).(string)
	p, err := h.Svc.Create(ctx, req.ToModel(), createdBy)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *PassengerHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.PassengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.Update(ctx, id, req.ToModel())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PassengerHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
