package batchwrite

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/smithy-go"
)

// RetryableFunc reports whether a failed call may succeed if re-issued with
// the same input.
type RetryableFunc func(err error) bool

var sdkRetryables = retry.IsErrorRetryables(retry.DefaultRetryables)

// IsRetryable is the default classifier.
//
// Errors implementing RetryableError() bool decide for themselves. Anything
// else is classified by the SDK's default retry rules: throttling codes such
// as ProvisionedThroughputExceededException, transient 5xx responses and
// connection failures are retryable. Context cancellation never is, and an
// error the rules do not recognise is treated as terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var r interface{ RetryableError() bool }
	if errors.As(err, &r) {
		return r.RetryableError()
	}
	return sdkRetryables.IsErrorRetryable(err) == aws.TrueTernary
}

// errorCode extracts the service error code, if any, for logging.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
