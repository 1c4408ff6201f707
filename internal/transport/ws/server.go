// Package ws serves the follow-up chat over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// ChatService is the part of the service the socket needs.
type ChatService interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	FollowUp(ctx context.Context, sessionID, question string) (*domain.Message, error)
}

// Options tunes connection timeouts and limits.
type Options struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	AskTimeout     time.Duration
}

// DefaultOptions returns the settings used by the server binary.
func DefaultOptions() Options {
	return Options{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
		AskTimeout:     2 * time.Minute,
	}
}

// Server handles WebSocket connections.
type Server struct {
	opts     Options
	hub      *Hub
	service  ChatService
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(opts Options, h *Hub, svc ChatService) *Server {
	return &Server{
		opts:    opts,
		hub:     h,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades GET /ws?session_id=... and binds the connection to the session.
func (s *Server) HandleWebSocket(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	if _, err := s.service.GetSession(c.Request().Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("failed to upgrade websocket", "error", err)
		return nil
	}

	conn := s.hub.NewConnection(ws, sessionID)
	s.hub.Register(conn)

	ws.SetReadLimit(s.opts.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection.
func (s *Server) readPump(conn *Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.Conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "conn_id", conn.ID, "error", err)
			}
			break
		}

		s.handleMessage(conn, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (s *Server) writePump(conn *Connection) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Warn("failed to write message", "conn_id", conn.ID, "error", err)
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *Connection, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch base.Type {
	case TypeAsk:
		s.handleAsk(conn, data)
	default:
		s.sendError(conn, base.RequestID, ErrorCodeInvalidMessage, "unknown message type: "+base.Type)
	}
}

// handleAsk runs a follow-up. The question and the reply reach the session
// through the hub as transcript appends.
func (s *Server) handleAsk(conn *Connection, data []byte) {
	var msg AskMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid ask message")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.AskTimeout)
		defer cancel()

		if _, err := s.service.FollowUp(ctx, conn.SessionID, msg.Content); err != nil {
			slog.Error("follow-up over websocket failed", "session_id", conn.SessionID, "error", err)
			s.sendError(conn, msg.RequestID, errorCode(err), err.Error())
		}
	}()
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		return ErrorCodeInvalidMessage
	case errors.Is(err, domain.ErrSessionNotFound):
		return ErrorCodeSessionNotFound
	case errors.Is(err, domain.ErrNoRecommendation):
		return ErrorCodeNoRecommendation
	case errors.Is(err, domain.ErrUpstream):
		return ErrorCodeUpstream
	default:
		return ErrorCodeInternal
	}
}

// sendError sends an error message to a connection.
func (s *Server) sendError(conn *Connection, requestID, code, message string) {
	errMsg := ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      TypeError,
			Ts:        time.Now().UnixMilli(),
			RequestID: requestID,
			SessionID: conn.SessionID,
		},
		Code:    code,
		Message: message,
	}
	if err := s.hub.SendJSONToConnection(conn, errMsg); err != nil {
		slog.Warn("failed to send error", "conn_id", conn.ID, "error", err)
	}
}
