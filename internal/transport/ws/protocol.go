package ws

import "github.com/john-thuo1/sentiment/internal/domain"

// Message types from client to server
const (
	TypeAsk = "ask"
)

// Message types from server to client
const (
	TypeMessage = "message"
	TypeError   = "error"
)

// Error codes carried by error messages.
const (
	ErrorCodeInvalidMessage   = "invalid_message"
	ErrorCodeSessionNotFound  = "session_not_found"
	ErrorCodeNoRecommendation = "no_recommendation"
	ErrorCodeUpstream         = "upstream_error"
	ErrorCodeInternal         = "internal_error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// AskMessage is sent by a client to ask a follow-up question.
type AskMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// TranscriptMessage carries one transcript append to every connection of a session.
type TranscriptMessage struct {
	BaseMessage
	Message domain.Message `json:"message"`
}

// ErrorMessage reports a failed request.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}
