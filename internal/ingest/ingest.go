package ingest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMetadataUnavailable   = errors.New("video metadata service is not configured")
	ErrInvalidVideoURL       = errors.New("url does not contain a youtube video id")
	ErrVideoNotFound         = errors.New("video not found by metadata service")
	ErrTranscriptUnavailable = errors.New("no transcript available for video")
)

type VideoMetadata struct {
	VideoID      string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  string
	ViewCount    uint64
	LikeCount    uint64
}

type MetadataClient interface {
	FetchVideo(ctx context.Context, videoID string) (*VideoMetadata, error)
	// SearchVideos returns up to maxResults videos for keyword, most viewed first.
	SearchVideos(ctx context.Context, keyword string, maxResults int64) ([]VideoMetadata, error)
}

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

type FeedReader interface {
	ReadLinks(ctx context.Context, feedURL string) ([]string, error)
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^"&?/\s]{11})`),
	regexp.MustCompile(`youtu\.be/([^"&?/\s]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([^"&?/\s]{11})`),
}

// ExtractVideoID returns the 11-character id from a watch, short or embed URL.
func ExtractVideoID(rawURL string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(rawURL); len(m) == 2 {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVideoURL, rawURL)
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ParseURLList splits newline separated input into trimmed, non-empty URLs.
func ParseURLList(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		if u := strings.TrimSpace(line); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
