package ingest

import (
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Pipeline, error) {
		repo := do.MustInvoke[repository.Repository](i)
		metadata := do.MustInvoke[MetadataClient](i)
		transcripts := do.MustInvoke[TranscriptFetcher](i)
		feeds := do.MustInvoke[FeedReader](i)
		return NewPipeline(repo, metadata, transcripts, feeds), nil
	})
}
