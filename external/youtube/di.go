package youtube

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/ingest"
	"github.com/samber/do/v2"
	"google.golang.org/api/option"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (ingest.MetadataClient, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.YouTubeAPIKey == "" {
			slog.Info("YOUTUBE_API_KEY is not set; video ingestion is disabled")
			return unavailableMetadataClient{}, nil
		}
		return NewDataAPIClient(context.Background(), option.WithAPIKey(cfg.YouTubeAPIKey))
	})
	do.Provide(injector, func(i do.Injector) (ingest.TranscriptFetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewCaptionScraper(cfg.TranscriptLanguages, cfg.TranscriptFetchInterval), nil
	})
}
