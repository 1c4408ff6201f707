package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// CreateRecommendation generates the session recommendation once.
// POST /v1/sessions/:session_id/recommendation
func (h *Handler) CreateRecommendation(c echo.Context) error {
	msg, created, err := h.service.Recommend(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]interface{}{
		"message": msg,
		"created": created,
	})
}

// GetSessionMessages retrieves the transcript of a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	messages, err := h.service.Transcript(c.Request().Context(), c.Param("session_id"), limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// PostMessageRequest is the body of a follow-up question.
type PostMessageRequest struct {
	Content string `json:"content"`
}

// PostMessage asks a follow-up question about the recommendation.
// POST /v1/sessions/:session_id/messages
func (h *Handler) PostMessage(c echo.Context) error {
	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	reply, err := h.service.FollowUp(c.Request().Context(), c.Param("session_id"), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": reply,
	})
}
