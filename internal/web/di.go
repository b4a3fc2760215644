package web

import (
	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/ingest"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		svc := do.MustInvoke[*chat.Service](i)
		pipeline := do.MustInvoke[*ingest.Pipeline](i)
		repo := do.MustInvoke[repository.Repository](i)
		handlers := NewHandlers(svc, pipeline, repo, cfg.HasGenerativeBackend())
		return NewServer(cfg.HTTPAddr(), handlers), nil
	})
}
