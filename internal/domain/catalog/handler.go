package catalog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/syncro/syncro/pkg/pagination"
)

// Handler serves the three catalog collections. Each collection gets its own
// Service bound to its table; the routes differ only in prefix.
type Handler struct {
	professionals *Service
	services      *Service
	rooms         *Service
}

func NewHandler(professionals, services, rooms *Service) *Handler {
	return &Handler{professionals: professionals, services: services, rooms: rooms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	for prefix, svc := range map[string]*Service{
		"/professionals": h.professionals,
		"/services":      h.services,
		"/rooms":         h.rooms,
	} {
		svc := svc
		api.POST(prefix, h.create(svc))
		api.GET(prefix, h.list(svc))
		api.GET(prefix+"/:id", h.get(svc))
		api.PUT(prefix+"/:id", h.update(svc))
		api.DELETE(prefix+"/:id", h.delete(svc))
	}
}

func (h *Handler) create(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var e Entry
		if err := c.Bind(&e); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err := svc.Create(c.Request().Context(), &e); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusCreated, e)
	}
}

func (h *Handler) get(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		e, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, svc.Kind()+" not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, e)
	}
}

func (h *Handler) list(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		pg := pagination.FromContext(c)
		items, total, err := svc.List(c.Request().Context(), pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if items == nil {
			items = []*Entry{}
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
}

func (h *Handler) update(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		var e Entry
		if err := c.Bind(&e); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		e.ID = id
		if err := svc.Update(c.Request().Context(), &e); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				return echo.NewHTTPError(http.StatusNotFound, svc.Kind()+" not found")
			case errors.Is(err, ErrDuplicateName):
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			default:
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
		return c.JSON(http.StatusOK, e)
	}
}

func (h *Handler) delete(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		if err := svc.Delete(c.Request().Context(), id); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				return echo.NewHTTPError(http.StatusNotFound, svc.Kind()+" not found")
			case errors.Is(err, ErrInUse):
				return echo.NewHTTPError(http.StatusConflict, err.Error())
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
		return c.NoContent(http.StatusNoContent)
	}
}
