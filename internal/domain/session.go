package domain

import "time"

// Session is the per-user context threaded through every request.
type Session struct {
	SessionID          string    `json:"session_id"`
	CreatedAt          time.Time `json:"created_at"`
	RecommendationDone bool      `json:"recommendation_done"`
}

// Message represents a single transcript entry in a session.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
