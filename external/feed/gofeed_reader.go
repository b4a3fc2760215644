package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// GofeedReader reads entry links from RSS and Atom feeds such as YouTube channel feeds.
type GofeedReader struct {
	parser *gofeed.Parser
}

func NewGofeedReader() *GofeedReader {
	return &GofeedReader{parser: gofeed.NewParser()}
}

func (r *GofeedReader) ReadLinks(ctx context.Context, feedURL string) ([]string, error) {
	f, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	if f == nil || len(f.Items) == 0 {
		return nil, errors.New("feed contains no items")
	}

	seen := make(map[string]struct{}, len(f.Items))
	links := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	if len(links) == 0 {
		return nil, errors.New("no links found in feed items")
	}
	return links, nil
}
