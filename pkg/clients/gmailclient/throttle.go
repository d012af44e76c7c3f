package gmailclient

import (
	"context"
	"sync"
	"time"
)

// throttle serialises sends and spaces them at least interval apart
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval, now: time.Now}
}

// wait blocks until the next send may start, or ctx is done.
// The caller must call release once its send has finished.
func (t *throttle) wait(ctx context.Context) (func(), error) {
	t.mu.Lock()

	if !t.last.IsZero() {
		if remaining := t.interval - t.now().Sub(t.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				t.mu.Unlock()
				return nil, ctx.Err()
			}
		}
	}

	return func() {
		t.last = t.now()
		t.mu.Unlock()
	}, nil
}
