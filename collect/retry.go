package collect

import (
	"context"
	"time"
)

// FetchFunc fetches the HTML of a page.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff between fetch attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, sleeping delays[i] after
// the i-th failure. It makes len(delays)+1 attempts and returns the last
// error. Cancellation of ctx stops retrying immediately.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= len(delays) {
			return "", lastErr
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}
