package chat

import (
	"github.com/foxseedlab/videoqa/internal/answer"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/foxseedlab/videoqa/internal/search"
	"github.com/foxseedlab/videoqa/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		repo := do.MustInvoke[repository.Repository](i)
		synth := do.MustInvoke[answer.Synthesizer](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewService(search.NewLocator(repo), synth, repo, wh), nil
	})
}
