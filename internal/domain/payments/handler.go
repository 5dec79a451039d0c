package payments

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/syncro/syncro/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/payments", h.Create)
	api.GET("/payments", h.List)
	api.GET("/payments/summary", h.Summary)
	api.GET("/payments/:id", h.Get)
	api.DELETE("/payments/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p Payment
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	var f ListFilter
	if v := c.QueryParam("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid customer_id")
		}
		f.CustomerID = id
	}
	var err error
	if f.From, f.To, err = parsePeriod(c); err != nil {
		return err
	}

	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list payments")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Summary(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	s, err := h.svc.Summarize(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get payment")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete payment")
	}
	return c.NoContent(http.StatusNoContent)
}

// parsePeriod reads the optional from/to query parameters, accepting RFC 3339
// timestamps or bare dates.
func parsePeriod(c echo.Context) (from, to time.Time, err error) {
	if v := c.QueryParam("from"); v != "" {
		if from, err = parseInstant(v); err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid from parameter")
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = parseInstant(v); err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid to parameter")
		}
	}
	return from, to, nil
}

func parseInstant(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
