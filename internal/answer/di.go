package answer

import (
	"log/slog"

	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/generative"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (Synthesizer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)

		var backend generative.Backend
		if cfg.HasGenerativeBackend() {
			b, err := do.Invoke[generative.Backend](i)
			if err != nil {
				return nil, err
			}
			backend = b
			slog.Info("answer synthesis: generative backend enabled", "model", cfg.OpenAIModel)
		} else {
			slog.Info("answer synthesis: no generative credential; using template answers")
		}
		return New(cfg, backend, repo), nil
	})
}
