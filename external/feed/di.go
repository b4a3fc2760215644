package feed

import (
	"github.com/foxseedlab/videoqa/internal/ingest"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (ingest.FeedReader, error) {
		return NewGofeedReader(), nil
	})
}
