package ingest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/foxseedlab/videoqa/internal/repository"
)

const (
	NoTranscriptMarker = "No transcript available"

	maxDescriptionRunes        = 500
	maxFallbackTranscriptRunes = 1000
	searchResultsPerKeyword    = 50
	topLikedPercent            = 25
)

type Status string

const (
	StatusAdded   Status = "added"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type URLResult struct {
	URL     string `json:"url"`
	VideoID string `json:"video_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
}

type AddReport struct {
	Added   int         `json:"added"`
	Skipped int         `json:"skipped"`
	Failed  int         `json:"failed"`
	Results []URLResult `json:"results"`
}

func (r *AddReport) record(res URLResult) {
	switch res.Status {
	case StatusAdded:
		r.Added++
	case StatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	r.Results = append(r.Results, res)
}

type BuildReport struct {
	Found    int `json:"found"`
	Selected int `json:"selected"`
	AddReport
}

type Pipeline struct {
	videos      repository.VideoRepository
	metadata    MetadataClient
	transcripts TranscriptFetcher
	feeds       FeedReader
}

func NewPipeline(videos repository.VideoRepository, metadata MetadataClient, transcripts TranscriptFetcher, feeds FeedReader) *Pipeline {
	return &Pipeline{videos: videos, metadata: metadata, transcripts: transcripts, feeds: feeds}
}

// AddURLs resolves and stores each URL in order. Per-URL failures are reported, not returned.
func (p *Pipeline) AddURLs(ctx context.Context, urls []string) AddReport {
	report := AddReport{Results: make([]URLResult, 0, len(urls))}
	for _, u := range urls {
		report.record(p.addURL(ctx, u))
	}
	slog.InfoContext(ctx, "video urls ingested", "added", report.Added, "skipped", report.Skipped, "failed", report.Failed)
	return report
}

func (p *Pipeline) addURL(ctx context.Context, rawURL string) URLResult {
	res := URLResult{URL: rawURL}
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return failed(res, err)
	}
	res.VideoID = videoID

	meta, err := p.metadata.FetchVideo(ctx, videoID)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch video metadata", "video_id", videoID, "error", err)
		return failed(res, err)
	}
	res.Title = meta.Title
	return p.store(ctx, res, *meta)
}

// BuildLibrary searches each keyword and stores the most liked quarter of all results.
func (p *Pipeline) BuildLibrary(ctx context.Context, keywords []string) (BuildReport, error) {
	var found []VideoMetadata
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		videos, err := p.metadata.SearchVideos(ctx, kw, searchResultsPerKeyword)
		if err != nil {
			if errors.Is(err, ErrMetadataUnavailable) {
				return BuildReport{}, err
			}
			slog.WarnContext(ctx, "keyword search failed", "keyword", kw, "error", err)
			continue
		}
		slog.DebugContext(ctx, "keyword search finished", "keyword", kw, "videos", len(videos))
		found = append(found, videos...)
	}

	selected := TopLiked(found, topLikedPercent)
	report := BuildReport{Found: len(found), Selected: len(selected)}
	report.Results = make([]URLResult, 0, len(selected))
	for _, meta := range selected {
		res := URLResult{URL: WatchURL(meta.VideoID), VideoID: meta.VideoID, Title: meta.Title}
		report.record(p.store(ctx, res, meta))
	}
	slog.InfoContext(ctx, "library build finished", "found", report.Found, "selected", report.Selected, "added", report.Added)
	return report, nil
}

// ImportFeed stores every video linked from a channel or playlist feed.
func (p *Pipeline) ImportFeed(ctx context.Context, feedURL string) (AddReport, error) {
	links, err := p.feeds.ReadLinks(ctx, feedURL)
	if err != nil {
		return AddReport{}, fmt.Errorf("failed to read feed: %w", err)
	}
	return p.AddURLs(ctx, links), nil
}

// TopLiked returns the top percent of videos by like count, keeping at least one.
func TopLiked(videos []VideoMetadata, percent int) []VideoMetadata {
	if len(videos) == 0 {
		return nil
	}
	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b VideoMetadata) int {
		return cmp.Compare(b.LikeCount, a.LikeCount)
	})
	n := max(1, len(sorted)*percent/100)
	return sorted[:n]
}

func (p *Pipeline) store(ctx context.Context, res URLResult, meta VideoMetadata) URLResult {
	transcript := p.transcriptFor(ctx, meta)
	_, err := p.videos.InsertVideo(ctx, repository.NewVideo{
		URL:         WatchURL(meta.VideoID),
		Title:       meta.Title,
		Description: truncateRunes(meta.Description, maxDescriptionRunes),
		Transcript:  transcript,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateVideo) {
			res.Status = StatusSkipped
			res.Error = err.Error()
			return res
		}
		slog.ErrorContext(ctx, "failed to store video", "video_id", meta.VideoID, "error", err)
		return failed(res, err)
	}
	res.Status = StatusAdded
	return res
}

func (p *Pipeline) transcriptFor(ctx context.Context, meta VideoMetadata) string {
	text, err := p.transcripts.FetchTranscript(ctx, meta.VideoID)
	if err == nil {
		if t := NormalizeTranscript(text); t != "" {
			return t
		}
	} else {
		slog.WarnContext(ctx, "transcript fetch failed; using description", "video_id", meta.VideoID, "error", err)
	}
	if d := NormalizeTranscript(truncateRunes(meta.Description, maxFallbackTranscriptRunes)); d != "" {
		return d
	}
	return NoTranscriptMarker
}

// NormalizeTranscript joins all whitespace separated tokens with single spaces.
func NormalizeTranscript(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func failed(res URLResult, err error) URLResult {
	res.Status = StatusFailed
	res.Error = err.Error()
	return res
}
