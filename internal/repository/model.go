package repository

import "time"

type Video struct {
	ID          int64
	URL         string
	Title       string
	Description string
	Transcript  string
	CreatedAt   time.Time
}

// Conversation is a persisted question/answer pair. VideoID and Timestamp are set
// only when the answer cited at least one excerpt.
type Conversation struct {
	ID        int64
	Question  string
	Answer    string
	VideoID   *int64
	Timestamp *string
	CreatedAt time.Time
}
