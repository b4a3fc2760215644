package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/foxseedlab/videoqa/internal/ingest"
	"golang.org/x/time/rate"
)

const (
	defaultWatchBaseURL   = "https://www.youtube.com/watch?v="
	playerResponseMarker  = "ytInitialPlayerResponse = "
	maxWatchPageBytes     = 6 * 1024 * 1024
	maxTimedTextBytes     = 2 * 1024 * 1024
	captionRequestTimeout = 30 * time.Second
	userAgent             = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type playerResponse struct {
	Captions *struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// CaptionScraper reads caption tracks from the public watch page.
type CaptionScraper struct {
	client       *http.Client
	limiter      *rate.Limiter
	languages    []string
	watchBaseURL string
}

// NewCaptionScraper spaces outgoing requests at least interval apart; zero disables limiting.
func NewCaptionScraper(languages []string, interval time.Duration) *CaptionScraper {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &CaptionScraper{
		client:       &http.Client{Timeout: captionRequestTimeout},
		limiter:      rate.NewLimiter(limit, 1),
		languages:    languages,
		watchBaseURL: defaultWatchBaseURL,
	}
}

func (s *CaptionScraper) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	page, err := s.get(ctx, s.watchBaseURL+videoID, maxWatchPageBytes)
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}
	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return "", err
	}
	track := pickTrack(tracks, s.languages)

	body, err := s.get(ctx, track.BaseURL, maxTimedTextBytes)
	if err != nil {
		return "", fmt.Errorf("timedtext: %w", err)
	}
	text, err := parseTimedText(body)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty caption track", ingest.ErrTranscriptUnavailable)
	}
	return text, nil
}

func (s *CaptionScraper) get(ctx context.Context, url string, limit int64) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func extractCaptionTracks(page []byte) ([]captionTrack, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if strings.Contains(text, playerResponseMarker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}

	raw := script[strings.Index(script, playerResponseMarker)+len(playerResponseMarker):]
	var resp playerResponse
	// Decode reads only the leading object and ignores the trailing script.
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if resp.Captions == nil || len(resp.Captions.Renderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks", ingest.ErrTranscriptUnavailable)
	}
	return resp.Captions.Renderer.CaptionTracks, nil
}

// pickTrack prefers a manual track in a preferred language, then an auto-generated one,
// then any English track, then the first track.
func pickTrack(tracks []captionTrack, languages []string) captionTrack {
	for _, lang := range languages {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range languages {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}
	parts := make([]string, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		if text := ingest.NormalizeTranscript(html.UnescapeString(line.Text)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
