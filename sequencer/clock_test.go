package sequencer

import (
	"context"
	"sync"
	"time"
)

// fakeClock jumps to every deadline instead of sleeping.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Time
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) SleepUntil(ctx context.Context, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, t)
	n := len(c.sleeps)
	if t.After(c.now) {
		c.now = t
	}
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *fakeClock) offsets(anchor time.Time) []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	for i, t := range c.sleeps {
		out[i] = t.Sub(anchor)
	}
	return out
}

// blockingClock parks every sleep until ctx is done, signalling entry.
type blockingClock struct {
	entered chan struct{}
}

func newBlockingClock() *blockingClock {
	return &blockingClock{entered: make(chan struct{}, 16)}
}

func (c *blockingClock) Now() time.Time { return time.Now() }

func (c *blockingClock) SleepUntil(ctx context.Context, t time.Time) error {
	c.entered <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}
