package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/foxseedlab/videoqa/internal/answer"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/foxseedlab/videoqa/internal/search"
	"github.com/foxseedlab/videoqa/internal/webhook"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type Locator interface {
	Locate(ctx context.Context, query string) []search.Excerpt
}

type Result struct {
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Excerpts []search.Excerpt `json:"excerpts"`
}

type Service struct {
	locator       Locator
	synthesizer   answer.Synthesizer
	conversations repository.ConversationRepository
	webhook       webhook.Sender
	now           func() time.Time
}

func NewService(locator Locator, synthesizer answer.Synthesizer, conversations repository.ConversationRepository, wh webhook.Sender) *Service {
	return &Service{
		locator:       locator,
		synthesizer:   synthesizer,
		conversations: conversations,
		webhook:       wh,
		now:           time.Now,
	}
}

// Ask answers question from the transcript library. It always returns an answer; storing the
// conversation and notifying the webhook are best effort.
func (s *Service) Ask(ctx context.Context, question string) Result {
	askedAt := s.now()
	excerpts := s.locator.Locate(ctx, question)
	text := s.synthesizer.Synthesize(ctx, question, excerpts)

	record := repository.NewConversation{Question: question, Answer: text}
	if len(excerpts) > 0 {
		videoID := excerpts[0].VideoID
		timestamp := excerpts[0].Timestamp
		record.VideoID = &videoID
		record.Timestamp = &timestamp
	}

	var conversationID int64
	saved, err := s.conversations.InsertConversation(ctx, record)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save conversation", "error", err)
	} else {
		conversationID = saved.ID
	}

	if err := s.webhook.SendConversation(ctx, webhook.ConversationPayload{
		ConversationID: conversationID,
		Question:       question,
		Answer:         text,
		VideoID:        record.VideoID,
		Timestamp:      record.Timestamp,
		Citations:      citations(excerpts),
		AskedAt:        askedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send conversation webhook", "error", err, "conversation_id", conversationID)
	}

	slog.InfoContext(ctx, "question answered", "conversation_id", conversationID, "excerpts", len(excerpts), "duration_ms", s.now().Sub(askedAt).Milliseconds())
	return Result{Question: question, Answer: text, Excerpts: excerpts}
}

// History returns the most recent conversations, clamping limit to [1, MaxHistoryLimit].
func (s *Service) History(ctx context.Context, limit int) ([]repository.Conversation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	return s.conversations.ListConversations(ctx, limit)
}

func citations(excerpts []search.Excerpt) []webhook.Citation {
	out := make([]webhook.Citation, 0, len(excerpts))
	for _, e := range excerpts {
		out = append(out, webhook.Citation{VideoID: e.VideoID, Title: e.Title, URL: e.URL, Timestamp: e.Timestamp})
	}
	return out
}
