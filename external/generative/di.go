package generative

import (
	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/generative"
	"github.com/samber/do/v2"
)

// RegisterDI provides a generative.Backend. Resolving it fails with generative.ErrAuthMissing
// when no credential is configured.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (generative.Backend, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	})
}
