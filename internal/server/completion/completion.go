// Package completion talks to the external chat-completion service.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sarkie/sarkie-backend/internal/common"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Provider returns the assistant's reply to an ordered message list.
// An empty reply is not an error.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %v", e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// UpstreamError is the final failure handed to callers once retries are
// exhausted. It matches common.ErrUpstreamUnavailable with errors.Is.
type UpstreamError struct {
	StatusCode int
	Details    string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%v: %v", common.ErrUpstreamUnavailable, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{common.ErrUpstreamUnavailable, e.Err}
}

func newUpstreamError(err error) *UpstreamError {
	ue := &UpstreamError{Details: err.Error(), Err: err}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		ue.StatusCode = apiErr.StatusCode
		if apiErr.Body != "" {
			ue.Details = apiErr.Body
		}
	}
	return ue
}
