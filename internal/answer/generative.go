package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/videoqa/internal/generative"
	"github.com/foxseedlab/videoqa/internal/search"
)

const (
	maxOutputTokens = 500
	temperature     = 0.7
)

// GenerativeSynthesizer asks a generative backend for the answer and uses fallback whenever
// the call fails or returns nothing.
type GenerativeSynthesizer struct {
	backend  generative.Backend
	fallback Synthesizer
	timeout  time.Duration
}

func NewGenerativeSynthesizer(backend generative.Backend, fallback Synthesizer, timeout time.Duration) *GenerativeSynthesizer {
	return &GenerativeSynthesizer{backend: backend, fallback: fallback, timeout: timeout}
}

func (s *GenerativeSynthesizer) Synthesize(ctx context.Context, question string, excerpts []search.Excerpt) string {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.backend.Complete(callCtx, generative.CompletionRequest{
		SystemInstruction: systemInstruction,
		UserMessage:       buildUserMessage(question, excerpts),
		MaxOutputTokens:   maxOutputTokens,
		Temperature:       temperature,
	})
	if err != nil {
		slog.WarnContext(ctx, "generative answer failed; using template answer", "error", err, "excerpts", len(excerpts))
		return s.fallback.Synthesize(ctx, question, excerpts)
	}
	if strings.TrimSpace(text) == "" {
		slog.WarnContext(ctx, "generative answer was empty; using template answer", "excerpts", len(excerpts))
		return s.fallback.Synthesize(ctx, question, excerpts)
	}
	return text
}

func buildUserMessage(question string, excerpts []search.Excerpt) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptQuestionFormat, question)
	if len(excerpts) == 0 {
		b.WriteString(promptNoExcerptsFound)
		return b.String()
	}
	b.WriteString(promptExcerptsHeader)
	for i, e := range excerpts {
		fmt.Fprintf(&b, promptExcerptFormat, i+1, e.Title, e.Timestamp, e.Context)
	}
	return b.String()
}
