// Package netretry retries provider calls that fail with transient network errors.
package netretry

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// httpStatusCodePattern matches HTTP 5xx status codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

//nolint:gochecknoglobals // fixed pattern list
var transientPatterns = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
	"Client.Timeout exceeded",
}

// IsRetryable returns true if the error indicates a transient network error
// that should be retried. This covers HTTP 5xx status codes and TCP-level errors
// such as connection resets, timeouts, and unexpected EOF.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}

// ExponentialDelay returns min(baseWait * 2^(attempt-1), maxWait).
func ExponentialDelay(
	attempt int,
	baseWait, maxWait time.Duration,
) time.Duration {
	return min(baseWait*time.Duration(1<<(attempt-1)), maxWait)
}

// Policy bounds how often and how long Do retries.
type Policy struct {
	Attempts int
	BaseWait time.Duration
	MaxWait  time.Duration
}

// DefaultPolicy is used for image pulls and similar registry traffic.
//
//nolint:gochecknoglobals // shared default
var DefaultPolicy = Policy{Attempts: 3, BaseWait: 2 * time.Second, MaxWait: 10 * time.Second}

// Do runs fn until it succeeds, fails with a non-retryable error or the
// policy runs out of attempts. Waiting honours ctx.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	attempts := max(policy.Attempts, 1)

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsRetryable(err) || attempt == attempts {
			break
		}

		timer := time.NewTimer(ExponentialDelay(attempt, policy.BaseWait, policy.MaxWait))

		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("retry aborted after %d attempt(s): %w", attempt, ctx.Err())
		case <-timer.C:
		}
	}

	return err
}
