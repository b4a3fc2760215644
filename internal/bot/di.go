package bot

import (
	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		svc := do.MustInvoke[*chat.Service](i)
		return NewHandler(cfg, svc), nil
	})
}
