package events

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	maxDialAttempts = 4
	initialBackoff  = 200 * time.Millisecond
)

// dialWithRetry retries broker connects with exponential backoff while
// respecting context cancellation.
func dialWithRetry[T any](ctx context.Context, name string, dial func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	backoff := initialBackoff

	for attempt := 1; attempt <= maxDialAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		conn, err := dial()
		if err == nil {
			return conn, nil
		}
		lastErr = err

		if attempt == maxDialAttempts {
			break
		}
		log.Printf("dial %s failed attempt=%d retry_in=%s err=%v", name, attempt, backoff, err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return zero, fmt.Errorf("dial %s: giving up after %d attempts: %w", name, maxDialAttempts, lastErr)
}
