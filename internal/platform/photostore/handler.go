package photostore

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves stored photos over HTTP.
type Handler struct {
	store PhotoStore
}

func NewHandler(store PhotoStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the photo-serving route on the Echo instance. Photos
// are public so the front end can embed them without a token.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/photos/*", h.Serve)
}

func (h *Handler) Serve(c echo.Context) error {
	path := c.Param("*")

	rc, photo, err := h.store.Open(c.Request().Context(), path)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "photo not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, rc)
}
