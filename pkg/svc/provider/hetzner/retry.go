package hetzner

import (
	"context"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

// Retry defaults for transient Hetzner API errors.
const (
	DefaultRetryTimeout = 2 * time.Minute
	DefaultRetryUnit    = time.Second
)

// Option configures a Provider.
type Option func(*Provider)

// WithRetry bounds how long transient API errors are retried and sets the
// base unit of the exponential backoff.
func WithRetry(timeout, unit time.Duration) Option {
	return func(p *Provider) {
		p.retryTimeout = timeout
		p.retryUnit = unit
	}
}

// withRetry runs call until it succeeds, fails with a non-retryable error or
// the retry timeout elapses. The last API error is returned unchanged so that
// callers can still classify it.
func (p *Provider) withRetry(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	var lastErr error

	err := retry.Exponential(p.retryTimeout, retry.WithUnits(p.retryUnit)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			lastErr = call(ctx)
			if lastErr == nil {
				return nil
			}

			if IsRetryableHetznerError(lastErr) {
				p.log.WithField("operation", operation).
					WithField("class", classify(lastErr)).
					Debugf("retrying: %v", lastErr)

				return retry.ExpectedError(lastErr)
			}

			return lastErr
		})
	if err == nil {
		return nil
	}

	if lastErr != nil {
		return lastErr
	}

	return err
}
