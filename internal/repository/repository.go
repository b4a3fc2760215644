package repository

import (
	"context"
	"errors"
)

var (
	ErrStoreUnavailable = errors.New("transcript store unavailable")
	ErrDuplicateVideo   = errors.New("video with this url already exists")
	ErrVideoNotFound    = errors.New("video not found")
)

type NewVideo struct {
	URL         string
	Title       string
	Description string
	Transcript  string
}

type NewConversation struct {
	Question  string
	Answer    string
	VideoID   *int64
	Timestamp *string
}

type VideoRepository interface {
	// InsertVideo stores v unless its URL is already present, in which case it returns ErrDuplicateVideo.
	InsertVideo(ctx context.Context, v NewVideo) (*Video, error)
	ListVideos(ctx context.Context) ([]Video, error)
	// FindVideosContaining returns videos whose transcript contains substring, ignoring case,
	// newest first.
	FindVideosContaining(ctx context.Context, substring string) ([]Video, error)
	GetVideo(ctx context.Context, id int64) (*Video, error)
	CountVideos(ctx context.Context) (int, error)
}

type ConversationRepository interface {
	InsertConversation(ctx context.Context, c NewConversation) (*Conversation, error)
	ListConversations(ctx context.Context, limit int) ([]Conversation, error)
}

type Repository interface {
	VideoRepository
	ConversationRepository
	Close()
}
