package ocaf

import (
	"context"
	"errors"
	log "log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retry policy knobs. Tests shorten RetryBaseDelay to keep backoff fast.
var (
	MaxRetries     uint64 = 5
	RetryBaseDelay        = 1 * time.Second
)

// Retry executes task with Fibonacci backoff up to MaxRetries retries.
// If retries are exhausted, gaveUpTask is invoked (when not nil) and the final error is returned.
// Only errors wrapped with retry.RetryableError are retried.
func Retry(ctx context.Context, task func(ctx context.Context) error, gaveUpTask func(ctx context.Context)) error {
	b := retry.NewFibonacci(RetryBaseDelay)
	if err := retry.Do(ctx, retry.WithMaxRetries(MaxRetries, b), task); err != nil {
		log.Warn(err.Error() + ", gave up")
		if gaveUpTask != nil {
			gaveUpTask(ctx)
		}
		return err
	}
	return nil
}

// RetryIO runs op under Retry, marking transient failures as retryable and wrapping
// them in an Error carrying code.
func RetryIO(ctx context.Context, op func(ctx context.Context) error, code ErrorCode) error {
	return Retry(ctx, func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if ShouldRetry(err) {
			return retry.RetryableError(Error{Code: code, Err: err})
		}
		return err
	}, nil)
}

// ShouldRetry reports whether the error is retryable (non-nil and not a known permanent failure).
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	// Context cancellations/timeouts are permanent from the caller's POV.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, os.ErrExist) {
		return false
	}

	// Treat resource/quota/readonly/path errors as permanent to avoid tight retry loops.
	switch {
	case errors.Is(err, syscall.EROFS),
		errors.Is(err, syscall.ENOSPC),
		errors.Is(err, syscall.EDQUOT),
		errors.Is(err, syscall.EACCES),
		errors.Is(err, syscall.EPERM),
		errors.Is(err, syscall.ENAMETOOLONG),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.EISDIR),
		errors.Is(err, syscall.EINVAL):
		return false
	}

	// Our own non-IO error classes never heal by retrying.
	var oe Error
	if errors.As(err, &oe) && oe.Code < FileIOError {
		return false
	}

	if strings.Contains(err.Error(), "read-only file system") {
		return false
	}

	return true
}
