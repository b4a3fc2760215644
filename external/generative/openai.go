package generative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/foxseedlab/videoqa/internal/generative"
	"github.com/sashabaranov/go-openai"
)

type OpenAIBackend struct {
	client *openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, baseURL, model string) (*OpenAIBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, generative.ErrAuthMissing
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

func (b *OpenAIBackend) Complete(ctx context.Context, req generative.CompletionRequest) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.UserMessage},
		},
		MaxTokens:   req.MaxOutputTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", generative.CallFailed(generative.ErrMalformedResponse, errors.New("response has no choices"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", generative.CallFailed(generative.ErrMalformedResponse, errors.New("response content is empty"))
	}
	return content, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return generative.CallFailed(kindForStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return generative.CallFailed(kindForStatus(reqErr.HTTPStatusCode), err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return generative.CallFailed(generative.ErrMalformedResponse, err)
	}

	// Transport failures, timeouts and cancellations.
	return generative.CallFailed(generative.ErrNetwork, err)
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return generative.ErrAuth
	case status == http.StatusTooManyRequests:
		return generative.ErrQuota
	case status >= 500:
		return generative.ErrNetwork
	default:
		return generative.ErrMalformedResponse
	}
}
