// Package poller runs a function periodically until stopped.
package poller

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval replaces a non-positive interval passed to Start.
const DefaultInterval = 30 * time.Second

// Task is a running poll loop.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start calls fn right away and then every interval until Stop is called or
// ctx is done. Runs never overlap: a tick that arrives while fn is running
// is dropped. A non-positive interval means DefaultInterval.
func Start(ctx context.Context, interval time.Duration, fn func(context.Context)) *Task {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		fn(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a stop may race the tick
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()

	return t
}

// Stop cancels the loop and waits for an in-flight run to return. No run
// starts after Stop returns. Safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed when the loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
