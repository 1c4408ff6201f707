package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/john-thuo1/sentiment/internal/service"
)

type uploadFunc func(ctx context.Context, sessionID, filename string, raw []byte) (*service.DatasetSummary, error)

// UploadDataset ingests a raw review file.
// POST /v1/sessions/:session_id/dataset
func (h *Handler) UploadDataset(c echo.Context) error {
	return h.upload(c, h.service.IngestUpload)
}

// UploadScored imports a previously exported file.
// POST /v1/sessions/:session_id/scored
func (h *Handler) UploadScored(c echo.Context) error {
	return h.upload(c, h.service.ImportScored)
}

func (h *Handler) upload(c echo.Context, fn uploadFunc) error {
	fh, err := c.FormFile("file")
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds the size limit"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unable to open uploaded file"})
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unable to read uploaded file"})
	}

	summary, err := fn(c.Request().Context(), c.Param("session_id"), fh.Filename, raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Analyze scores every review of the session dataset.
// POST /v1/sessions/:session_id/analyze
func (h *Handler) Analyze(c echo.Context) error {
	result, err := h.service.Analyze(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Export downloads the scored dataset as CSV.
// GET /v1/sessions/:session_id/export
func (h *Handler) Export(c echo.Context) error {
	name, data, err := h.service.Export(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
