package notes

import (
	"context"
	"errors"
	"time"

	"topicnotes/internal/db"
)

// DefaultStoreTimeout bounds a single store operation when no explicit
// timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// storeErr maps timeouts and transient SQLite lock errors to
// ErrStoreUnavailable. Everything else passes through.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || db.IsBusy(err) {
		return ErrStoreUnavailable
	}
	return err
}
