package search

import (
	"context"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/foxseedlab/videoqa/internal/repository"
)

// contextRadius is the number of characters kept on each side of a match.
const contextRadius = 100

type Excerpt struct {
	VideoID          int64  `json:"video_id"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Context          string `json:"context"`
	Timestamp        string `json:"timestamp"`
	TimestampSeconds int    `json:"timestamp_seconds"`
}

type VideoSearcher interface {
	FindVideosContaining(ctx context.Context, substring string) ([]repository.Video, error)
}

type Locator struct {
	videos VideoSearcher
}

func NewLocator(videos VideoSearcher) *Locator {
	return &Locator{videos: videos}
}

// Locate returns one excerpt per video whose transcript contains query, in store order.
// Store failures are logged and reported as no results.
func (l *Locator) Locate(ctx context.Context, query string) []Excerpt {
	videos, err := l.videos.FindVideosContaining(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search transcripts", "error", err, "query", query)
		return []Excerpt{}
	}

	q := []rune(query)
	excerpts := make([]Excerpt, 0, len(videos))
	for _, v := range videos {
		transcript := []rune(v.Transcript)
		start := indexFold(transcript, q)
		if start < 0 {
			slog.DebugContext(ctx, "store match not confirmed in transcript; skipping", "video_id", v.ID, "query", query)
			continue
		}
		from := max(0, start-contextRadius)
		to := min(len(transcript), start+len(q)+contextRadius)
		seconds, label := EstimateTimestamp(string(transcript), start)
		excerpts = append(excerpts, Excerpt{
			VideoID:          v.ID,
			Title:            v.Title,
			URL:              v.URL,
			Context:          string(transcript[from:to]),
			Timestamp:        label,
			TimestampSeconds: seconds,
		})
	}
	return excerpts
}

// indexFold returns the rune index of the first case-insensitive occurrence of needle, or -1.
func indexFold(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if equalFoldRunes(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func equalFoldRunes(a, b []rune) bool {
	for i := range a {
		if !equalFoldRune(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if a == utf8.RuneError || b == utf8.RuneError {
		return false
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
