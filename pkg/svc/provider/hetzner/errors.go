package hetzner

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Sentinel errors for Hetzner-specific failure modes.
var (
	// ErrMissingToken is returned when neither the configuration nor HCLOUD_TOKEN carries an API token.
	ErrMissingToken = errors.New("hetzner API token is not set (hcloudToken or HCLOUD_TOKEN)")
	// ErrHetznerActionFailed indicates that a Hetzner action failed.
	ErrHetznerActionFailed = errors.New("hetzner action failed")
	// ErrNetworkNotFound indicates that the configured network does not exist.
	ErrNetworkNotFound = errors.New("hetzner network not found")
)

// retryableErrorCodes are Hetzner API error codes that warrant a retry.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var retryableErrorCodes = []hcloud.ErrorCode{
	hcloud.ErrorCodeResourceUnavailable,
	hcloud.ErrorCodeConflict,
	hcloud.ErrorCodeTimeout,
	hcloud.ErrorCodeRateLimitExceeded,
	hcloud.ErrorCodeRobotUnavailable,
	hcloud.ErrorCodeLocked,
}

// IsRetryableHetznerError returns true if the error is a transient Hetzner API error
// that may succeed on retry.
func IsRetryableHetznerError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err, retryableErrorCodes...)
}

// IsResourceLimitError returns true if the error indicates a permanent problem
// such as an exhausted quota or rejected credentials.
func IsResourceLimitError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err,
		hcloud.ErrorCodeResourceLimitExceeded,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeForbidden,
		hcloud.ErrorCodeUnauthorized,
	)
}

// classify returns a short hint describing whether err is worth retrying.
func classify(err error) string {
	switch {
	case IsRetryableHetznerError(err):
		return "transient"
	case IsResourceLimitError(err):
		return "permanent"
	default:
		return "unknown"
	}
}
