package prefs

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/syncro/syncro/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/preferences", h.Get)
	api.PUT("/preferences/date-range", h.SetDateRange)
	api.PUT("/preferences/sidebar", h.SetSidebar)
}

func accountID(c echo.Context) (uuid.UUID, error) {
	raw := auth.AccountIDFromContext(c.Request().Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated account")
	}
	return id, nil
}

func (h *Handler) Get(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load preferences")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) SetDateRange(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}
	var body DateRangePref
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetDateRange(c.Request().Context(), id, body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) SetSidebar(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}
	var body SidebarPref
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetSidebar(c.Request().Context(), id, body.Collapsed); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save preference")
	}
	return c.JSON(http.StatusOK, body)
}
