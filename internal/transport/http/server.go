// Package http provides the HTTP server for the review analyzer.
package http

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/john-thuo1/sentiment/internal/service"
	v1 "github.com/john-thuo1/sentiment/internal/transport/http/v1"
	"github.com/john-thuo1/sentiment/internal/transport/ws"
)

// multipartOverhead is the slack left above the upload limit for multipart
// framing, so files just over the limit still get the policy's explanation.
const multipartOverhead = 64 << 10

// NewServer creates and configures the HTTP server.
// It serves the REST API and the chat socket. maxUploadBytes <= 0 disables the body limit.
func NewServer(svc *service.Service, wsServer *ws.Server, maxUploadBytes int64) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if maxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(strconv.FormatInt(maxUploadBytes+multipartOverhead, 10)))
	}

	// Handlers
	v1Handler := v1.NewHandler(svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	e.GET("/ws", wsServer.HandleWebSocket)

	return e
}
