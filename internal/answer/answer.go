package answer

import (
	"context"

	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/generative"
	"github.com/foxseedlab/videoqa/internal/search"
)

// Synthesizer turns a question and its excerpts into an answer. Implementations never fail.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, excerpts []search.Excerpt) string
}

// New picks the generative strategy when a backend credential is configured and a backend is
// supplied, and the template strategy otherwise.
func New(cfg *config.Config, backend generative.Backend, videos VideoGetter) Synthesizer {
	fallback := NewTemplateSynthesizer(videos)
	if backend == nil || !cfg.HasGenerativeBackend() {
		return fallback
	}
	return NewGenerativeSynthesizer(backend, fallback, cfg.GenerativeTimeout)
}
