package scheduling

import (
	"context"
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
	api.POST("/appointments", h.Create)
	api.GET("/appointments", h.List)
	api.GET("/appointments/:id", h.Get)
	api.PUT("/appointments/:id", h.Update)
	api.PATCH("/appointments/:id/status", h.UpdateStatus)
	api.DELETE("/appointments/:id", h.Delete)

	api.GET("/availability/professionals/:id", h.ProfessionalAvailability)
	api.GET("/availability/rooms/:id", h.RoomAvailability)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) List(c echo.Context) error {
	var f ListFilter
	if v := c.QueryParam("date"); v != "" {
		day, err := time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		f.Day = day
	}
	if v := c.QueryParam("from"); v != "" {
		from, err := parseInstant(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from parameter")
		}
		f.From = from
	}
	if v := c.QueryParam("to"); v != "" {
		to, err := parseInstant(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to parameter")
		}
		f.To = to
	}
	if v := c.QueryParam("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid customer_id")
		}
		f.CustomerID = id
	}
	if v := c.QueryParam("status"); v != "" {
		if !ValidStatus(v) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = v
	}

	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list appointments")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get appointment")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
		}
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update appointment")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete appointment")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ProfessionalAvailability(c echo.Context) error {
	return h.availability(c, h.svc.CheckProfessionalAvailability)
}

func (h *Handler) RoomAvailability(c echo.Context) error {
	return h.availability(c, h.svc.CheckRoomAvailability)
}

type availabilityCheck func(ctx context.Context, resourceID uuid.UUID, at time.Time) (*Availability, error)

func (h *Handler) availability(c echo.Context, check availabilityCheck) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource id")
	}
	atParam := c.QueryParam("at")
	if atParam == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "at parameter is required")
	}
	at, err := parseInstant(atParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at must be an RFC 3339 timestamp")
	}
	avail, err := check(c.Request().Context(), id, at)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "availability check failed")
	}
	return c.JSON(http.StatusOK, avail)
}

// parseInstant accepts an RFC 3339 timestamp or a bare date.
func parseInstant(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, v)
}
