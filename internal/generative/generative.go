package generative

import (
	"context"
	"errors"
)

var (
	// ErrAuthMissing is returned when a backend is constructed without a credential.
	ErrAuthMissing = errors.New("generative backend credential is not configured")
	// ErrCallFailed wraps every failed completion; one of the kind errors below is joined with it.
	ErrCallFailed = errors.New("generative backend call failed")

	ErrAuth              = errors.New("authentication rejected")
	ErrQuota             = errors.New("quota or rate limit exceeded")
	ErrNetwork           = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
)

type CompletionRequest struct {
	SystemInstruction string
	UserMessage       string
	MaxOutputTokens   int
	Temperature       float32
}

type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CallFailed builds the error returned for a failed completion of the given kind.
func CallFailed(kind error, cause error) error {
	if cause == nil {
		return errors.Join(ErrCallFailed, kind)
	}
	return errors.Join(ErrCallFailed, kind, cause)
}
