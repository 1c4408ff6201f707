// Package v1 provides the versioned REST handlers.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/john-thuo1/sentiment/internal/domain"
	"github.com/john-thuo1/sentiment/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Sessions
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:session_id", h.GetSession)

	// Dataset pipeline
	e.POST("/v1/sessions/:session_id/dataset", h.UploadDataset)
	e.POST("/v1/sessions/:session_id/scored", h.UploadScored)
	e.POST("/v1/sessions/:session_id/analyze", h.Analyze)
	e.GET("/v1/sessions/:session_id/export", h.Export)

	// Reports
	e.GET("/v1/sessions/:session_id/insights", h.GetInsights)
	e.GET("/v1/sessions/:session_id/charts", h.GetCharts)

	// Narrative
	e.POST("/v1/sessions/:session_id/recommendation", h.CreateRecommendation)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.POST("/v1/sessions/:session_id/messages", h.PostMessage)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// writeError maps service errors onto status codes.
func writeError(c echo.Context, err error) error {
	var schemaErr *domain.SchemaError
	var policyErr *domain.PolicyError

	switch {
	case errors.As(err, &schemaErr):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   schemaErr.Error(),
			"missing": schemaErr.Missing,
		})
	case errors.As(err, &policyErr):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   policyErr.Error(),
			"reasons": policyErr.Reasons,
		})
	case errors.Is(err, domain.ErrInvalidDateFormat):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": domain.ErrInvalidDateFormat.Error()})
	case errors.Is(err, domain.ErrEncoding):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": domain.ErrEncoding.Error()})
	case errors.Is(err, domain.ErrEmptyFile), errors.Is(err, domain.ErrMalformedCSV), errors.Is(err, domain.ErrEmptyQuestion):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNoDataset), errors.Is(err, domain.ErrNotScored), errors.Is(err, domain.ErrNoRecommendation):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		slog.Error("upstream failure", "path", c.Path(), "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
