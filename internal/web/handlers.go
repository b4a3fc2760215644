package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/ingest"
	"github.com/foxseedlab/videoqa/internal/repository"
)

const maxRequestBodyBytes = 1 << 20

type ChatService interface {
	Ask(ctx context.Context, question string) chat.Result
	History(ctx context.Context, limit int) ([]repository.Conversation, error)
}

type Ingester interface {
	AddURLs(ctx context.Context, urls []string) ingest.AddReport
	BuildLibrary(ctx context.Context, keywords []string) (ingest.BuildReport, error)
	ImportFeed(ctx context.Context, feedURL string) (ingest.AddReport, error)
}

type Library interface {
	ListVideos(ctx context.Context) ([]repository.Video, error)
	CountVideos(ctx context.Context) (int, error)
}

type Handlers struct {
	chat       ChatService
	ingester   Ingester
	library    Library
	generative bool
}

func NewHandlers(chatService ChatService, ingester Ingester, library Library, generative bool) *Handlers {
	return &Handlers{chat: chatService, ingester: ingester, library: library, generative: generative}
}

type chatRequest struct {
	Question string `json:"question"`
}

// HandleChat accepts any question, including an empty one.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.chat.Ask(r.Context(), req.Question))
}

func (h *Handlers) HandleConversations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	conversations, err := h.chat.History(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list conversations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

func (h *Handlers) HandleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.library.ListVideos(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list videos", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"videos": videos,
		"total":  len(videos),
	})
}

type addVideosRequest struct {
	URLs []string `json:"urls"`
	Text string   `json:"text"`
}

func (h *Handlers) HandleAddVideos(w http.ResponseWriter, r *http.Request) {
	var req addVideosRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var urls []string
	for _, u := range req.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	urls = append(urls, ingest.ParseURLList(req.Text)...)
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "no video urls given")
		return
	}
	writeJSON(w, http.StatusOK, h.ingester.AddURLs(r.Context(), urls))
}

type buildLibraryRequest struct {
	Keywords []string `json:"keywords"`
}

func (h *Handlers) HandleBuildLibrary(w http.ResponseWriter, r *http.Request) {
	var req buildLibraryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Keywords) == 0 {
		writeError(w, http.StatusBadRequest, "no keywords given")
		return
	}

	report, err := h.ingester.BuildLibrary(r.Context(), req.Keywords)
	if err != nil {
		if errors.Is(err, ingest.ErrMetadataUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "video metadata service is not configured")
			return
		}
		slog.ErrorContext(r.Context(), "failed to build library", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build library")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type importFeedRequest struct {
	FeedURL string `json:"feed_url"`
}

func (h *Handlers) HandleImportFeed(w http.ResponseWriter, r *http.Request) {
	var req importFeedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	feedURL := strings.TrimSpace(req.FeedURL)
	if feedURL == "" {
		writeError(w, http.StatusBadRequest, "feed_url is required")
		return
	}

	report, err := h.ingester.ImportFeed(r.Context(), feedURL)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to import feed", "feed_url", feedURL, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type healthResponse struct {
	Status     string `json:"status"`
	Videos     int    `json:"videos"`
	Generative bool   `json:"generative"`
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := h.library.CountVideos(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Generative: h.generative})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Videos: count, Generative: h.generative})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
