package tasks

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the board outside the versioned API: the board
// client is a static page that predates it.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/tasks", h.List)
	e.POST("/api/tasks", h.Replace)
}

func (h *Handler) List(c echo.Context) error {
	tasks, err := h.svc.List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load tasks")
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) Replace(c echo.Context) error {
	var tasks []Task
	if err := c.Bind(&tasks); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be a task array")
	}
	saved, err := h.svc.Replace(tasks)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, saved)
}
