package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateSession starts a new analysis session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	session, err := h.service.CreateSession(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// GetSession returns a session.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}
