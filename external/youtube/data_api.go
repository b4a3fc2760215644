package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/foxseedlab/videoqa/internal/ingest"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

var videoParts = []string{"snippet", "statistics", "contentDetails"}

// DataAPIClient reads video metadata from the YouTube Data API v3.
type DataAPIClient struct {
	svc *yt.Service
}

func NewDataAPIClient(ctx context.Context, opts ...option.ClientOption) (*DataAPIClient, error) {
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &DataAPIClient{svc: svc}, nil
}

func (c *DataAPIClient) FetchVideo(ctx context.Context, videoID string) (*ingest.VideoMetadata, error) {
	resp, err := c.svc.Videos.List(videoParts).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("videos.list", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ingest.ErrVideoNotFound, videoID)
	}
	meta := toMetadata(resp.Items[0])
	return &meta, nil
}

func (c *DataAPIClient) SearchVideos(ctx context.Context, keyword string, maxResults int64) ([]ingest.VideoMetadata, error) {
	search, err := c.svc.Search.List([]string{"snippet"}).
		Q(keyword).
		Type("video").
		MaxResults(maxResults).
		Order("viewCount").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("search.list", err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := c.svc.Videos.List(videoParts).Id(ids...).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("videos.list", err)
	}
	out := make([]ingest.VideoMetadata, 0, len(resp.Items))
	for _, v := range resp.Items {
		out = append(out, toMetadata(v))
	}
	return out, nil
}

func toMetadata(v *yt.Video) ingest.VideoMetadata {
	meta := ingest.VideoMetadata{VideoID: v.Id}
	if v.Snippet != nil {
		meta.Title = v.Snippet.Title
		meta.Description = v.Snippet.Description
		meta.ChannelTitle = v.Snippet.ChannelTitle
		meta.PublishedAt = v.Snippet.PublishedAt
	}
	if v.Statistics != nil {
		meta.ViewCount = v.Statistics.ViewCount
		meta.LikeCount = v.Statistics.LikeCount
	}
	return meta
}

func wrapAPIError(call string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", call, ingest.ErrVideoNotFound, err)
	}
	return fmt.Errorf("%s: %w", call, err)
}

// unavailableMetadataClient stands in when no API key is configured.
type unavailableMetadataClient struct{}

func (unavailableMetadataClient) FetchVideo(context.Context, string) (*ingest.VideoMetadata, error) {
	return nil, ingest.ErrMetadataUnavailable
}

func (unavailableMetadataClient) SearchVideos(context.Context, string, int64) ([]ingest.VideoMetadata, error) {
	return nil, ingest.ErrMetadataUnavailable
}
