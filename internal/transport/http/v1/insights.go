package v1

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/john-thuo1/sentiment/internal/report"
)

// GetInsights returns the aggregate views as JSON.
// GET /v1/sessions/:session_id/insights
func (h *Handler) GetInsights(c echo.Context) error {
	in, err := h.service.Insights(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, in)
}

// GetCharts renders the selected views as an HTML page.
// GET /v1/sessions/:session_id/charts?views=a,b
func (h *Handler) GetCharts(c echo.Context) error {
	views, err := report.ParseViews(c.QueryParam("views"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := h.service.RenderCharts(c.Request().Context(), c.Param("session_id"), &buf, views); err != nil {
		return writeError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
