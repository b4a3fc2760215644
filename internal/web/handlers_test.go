package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/ingest"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/foxseedlab/videoqa/internal/search"
)

type mockChat struct {
	questions  []string
	limits     []int
	historyErr error
}

func (m *mockChat) Ask(_ context.Context, question string) chat.Result {
	m.questions = append(m.questions, question)
	return chat.Result{
		Question: question,
		Answer:   "answer to " + question,
		Excerpts: []search.Excerpt{},
	}
}

func (m *mockChat) History(_ context.Context, limit int) ([]repository.Conversation, error) {
	m.limits = append(m.limits, limit)
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return []repository.Conversation{{ID: 1, Question: "q", Answer: "a"}}, nil
}

type mockIngester struct {
	urls     []string
	keywords []string
	feedURL  string
	buildErr error
	feedErr  error
}

func (m *mockIngester) AddURLs(_ context.Context, urls []string) ingest.AddReport {
	m.urls = urls
	return ingest.AddReport{Added: len(urls), Results: []ingest.URLResult{}}
}

func (m *mockIngester) BuildLibrary(_ context.Context, keywords []string) (ingest.BuildReport, error) {
	m.keywords = keywords
	if m.buildErr != nil {
		return ingest.BuildReport{}, m.buildErr
	}
	return ingest.BuildReport{Found: 8, Selected: 2, AddReport: ingest.AddReport{Added: 2}}, nil
}

func (m *mockIngester) ImportFeed(_ context.Context, feedURL string) (ingest.AddReport, error) {
	m.feedURL = feedURL
	if m.feedErr != nil {
		return ingest.AddReport{}, m.feedErr
	}
	return ingest.AddReport{Added: 1}, nil
}

type mockLibrary struct {
	videos   []repository.Video
	countErr error
}

func (m *mockLibrary) ListVideos(context.Context) ([]repository.Video, error) {
	return m.videos, nil
}

func (m *mockLibrary) CountVideos(context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.videos), nil
}

type fixture struct {
	chat     *mockChat
	ingester *mockIngester
	library  *mockLibrary
	router   http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		chat:     &mockChat{},
		ingester: &mockIngester{},
		library:  &mockLibrary{videos: []repository.Video{{ID: 1, Title: "Cats"}, {ID: 2, Title: "Dogs"}}},
	}
	f.router = NewRouter(NewHandlers(f.chat, f.ingester, f.library, true))
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestChat(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/chat", `{"question":"what about cats?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got chat.Result
	decodeBody(t, rec, &got)
	if got.Answer != "answer to what about cats?" {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
	if got.Excerpts == nil {
		t.Fatal("expected excerpts to be an empty list, not null")
	}
}

func TestChat_EmptyQuestionAccepted(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/chat", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(f.chat.questions) != 1 || f.chat.questions[0] != "" {
		t.Fatalf("unexpected questions: %v", f.chat.questions)
	}
}

func TestChat_InvalidBody(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/chat", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChat_MethodNotAllowed(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/api/chat", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestConversations(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/api/conversations?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(f.chat.limits) != 1 || f.chat.limits[0] != 5 {
		t.Fatalf("unexpected limits: %v", f.chat.limits)
	}

	rec = f.do(t, http.MethodGet, "/api/conversations", "")
	if rec.Code != http.StatusOK || f.chat.limits[1] != 0 {
		t.Fatalf("expected default limit to be delegated, got status %d limits %v", rec.Code, f.chat.limits)
	}
}

func TestConversations_InvalidLimit(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/api/conversations?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConversations_StoreError(t *testing.T) {
	f := newFixture()
	f.chat.historyErr = repository.ErrStoreUnavailable
	rec := f.do(t, http.MethodGet, "/api/conversations", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestListVideos(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/api/videos", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		Videos []repository.Video `json:"videos"`
		Total  int                `json:"total"`
	}
	decodeBody(t, rec, &got)
	if got.Total != 2 || len(got.Videos) != 2 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestAddVideos_MergesURLsAndText(t *testing.T) {
	f := newFixture()
	body := `{"urls":["https://youtu.be/aaaaaaaaaaa"," "],"text":"https://www.youtube.com/watch?v=bbbbbbbbbbb\n\n"}`
	rec := f.do(t, http.MethodPost, "/api/videos", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := []string{"https://youtu.be/aaaaaaaaaaa", "https://www.youtube.com/watch?v=bbbbbbbbbbb"}
	if fmt.Sprint(f.ingester.urls) != fmt.Sprint(want) {
		t.Fatalf("unexpected urls: %v", f.ingester.urls)
	}
}

func TestAddVideos_Empty(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/videos", `{"urls":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBuildLibrary(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/library/build", `{"keywords":["cats","dogs"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got ingest.BuildReport
	decodeBody(t, rec, &got)
	if got.Added != 2 || got.Found != 8 {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestBuildLibrary_MetadataUnavailable(t *testing.T) {
	f := newFixture()
	f.ingester.buildErr = ingest.ErrMetadataUnavailable
	rec := f.do(t, http.MethodPost, "/api/library/build", `{"keywords":["cats"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestImportFeed(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/library/feed", `{"feed_url":" https://example.com/feed "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.ingester.feedURL != "https://example.com/feed" {
		t.Fatalf("unexpected feed url: %q", f.ingester.feedURL)
	}

	f.ingester.feedErr = errors.New("failed to read feed: no links")
	rec = f.do(t, http.MethodPost, "/api/library/feed", `{"feed_url":"https://example.com/feed"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got healthResponse
	decodeBody(t, rec, &got)
	if got != (healthResponse{Status: "ok", Videos: 2, Generative: true}) {
		t.Fatalf("unexpected health: %+v", got)
	}

	f.library.countErr = repository.ErrStoreUnavailable
	rec = f.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/healthz", "")
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestLogHandler_AddsRequestID(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(NewLogHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(WithRequestID(context.Background(), "req-1"), "hello")
	logger.InfoContext(context.Background(), "bye")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"request_id":"req-1"`) {
		t.Fatalf("expected request id in %s", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Fatalf("unexpected request id in %s", lines[1])
	}
}
