package completion

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/metrics"
)

// Observer receives one call per provider attempt.
type Observer interface {
	ObserveCompletion(outcome string, d time.Duration)
}

type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// RetryingProvider bounds each attempt with a timeout and retries transient
// failures with capped exponential backoff. Whatever fails last is returned
// as *UpstreamError.
type RetryingProvider struct {
	next     Provider
	policy   RetryPolicy
	observer Observer
	logger   logging.Logger
}

// NewRetryingProvider wraps next. observer may be nil.
func NewRetryingProvider(next Provider, policy RetryPolicy, observer Observer, logger logging.Logger) *RetryingProvider {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = 5 * time.Second
	}
	return &RetryingProvider{next: next, policy: policy, observer: observer, logger: logger}
}

func (p *RetryingProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	b := backoff.NewExponentialBackOff()
	if p.policy.InitialBackoff > 0 {
		b.InitialInterval = p.policy.InitialBackoff
	}
	b.MaxInterval = p.policy.MaxBackoff

	attempts := 0
	op := func() (string, error) {
		attempts++
		start := time.Now()
		reply, err := p.attempt(ctx, messages)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			p.observe(metrics.OutcomeSuccess, elapsed)
			return reply, nil
		case ctx.Err() != nil || !retryable(err):
			p.observe(metrics.OutcomePermanent, elapsed)
			return "", backoff.Permanent(err)
		default:
			p.observe(metrics.OutcomeRetryable, elapsed)
			return "", err
		}
	}

	reply, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.policy.MaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.logger.Warn(ctx, "completion attempt failed, retrying",
				"attempt", attempts, "retry_in", next.String(), "error", err)
		}),
	)
	if err != nil {
		p.logger.Error(ctx, "completion failed", "attempts", attempts, "error", err)
		return "", newUpstreamError(err)
	}
	return reply, nil
}

func (p *RetryingProvider) attempt(ctx context.Context, messages []Message) (string, error) {
	if p.policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.policy.AttemptTimeout)
		defer cancel()
	}
	return p.next.Complete(ctx, messages)
}

func (p *RetryingProvider) observe(outcome string, d time.Duration) {
	if p.observer != nil {
		p.observer.ObserveCompletion(outcome, d)
	}
}

// retryable treats network failures and attempt timeouts as transient;
// provider answers decide by status code.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}
