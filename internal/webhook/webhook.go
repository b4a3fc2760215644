package webhook

import (
	"context"
	"time"
)

type Citation struct {
	VideoID   int64  `json:"video_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

// ConversationPayload is posted after every answered question.
type ConversationPayload struct {
	ConversationID int64      `json:"conversation_id,omitempty"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	VideoID        *int64     `json:"video_id"`
	Timestamp      *string    `json:"timestamp"`
	Citations      []Citation `json:"citations"`
	AskedAt        time.Time  `json:"asked_at"`
}

type Sender interface {
	SendConversation(ctx context.Context, payload ConversationPayload) error
}
