package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/foxseedlab/videoqa/internal/search"
)

type VideoGetter interface {
	GetVideo(ctx context.Context, id int64) (*repository.Video, error)
}

// TemplateSynthesizer builds a deterministic answer that lists each excerpt in order.
type TemplateSynthesizer struct {
	videos VideoGetter
}

func NewTemplateSynthesizer(videos VideoGetter) *TemplateSynthesizer {
	return &TemplateSynthesizer{videos: videos}
}

func (s *TemplateSynthesizer) Synthesize(ctx context.Context, question string, excerpts []search.Excerpt) string {
	if len(excerpts) == 0 {
		return messageNoExcerpts
	}

	var b strings.Builder
	fmt.Fprintf(&b, messagePreambleFormat, question)
	for i, e := range excerpts {
		s.checkVideo(ctx, e.VideoID)
		fmt.Fprintf(&b, messageExcerptFormat, i+1, e.Title, e.Timestamp)
		fmt.Fprintf(&b, messageContextFormat, e.Context)
	}
	b.WriteString(messageClosing)
	return b.String()
}

func (s *TemplateSynthesizer) checkVideo(ctx context.Context, id int64) {
	if s.videos == nil {
		return
	}
	if _, err := s.videos.GetVideo(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			slog.WarnContext(ctx, "excerpt refers to unknown video", "video_id", id)
			return
		}
		slog.WarnContext(ctx, "failed to look up excerpt video", "video_id", id, "error", err)
	}
}
