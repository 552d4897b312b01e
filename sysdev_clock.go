// sysdev_clock.go - Host tick scheduler for the system board

package main

import (
	"sync"
	"time"
)

// Ticker is anything that advances by whole service rounds.
type Ticker interface {
	Tick(n int)
}

// Clock drives a Ticker from a wall-clock ticker goroutine at a fixed
// rate. A non-zero limit stops the clock after that many ticks and closes
// Done.
type Clock struct {
	target   Ticker
	interval time.Duration
	limit    uint64
	count    uint64

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
	started bool
}

// NewClock creates a clock running at hz ticks per second. hz below 1 is
// raised to 1.
func NewClock(target Ticker, hz int, limit uint64) *Clock {
	if hz < 1 {
		hz = 1
	}
	return &Clock{
		target:   target,
		interval: time.Second / time.Duration(hz),
		limit:    limit,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (c *Clock) Start() {
	if c.started {
		return
	}
	c.started = true

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stopCh:
				return
			case <-ticker.C:
				c.target.Tick(1)
				c.count++
				if c.limit != 0 && c.count >= c.limit {
					return
				}
			}
		}
	}()
}

// Done is closed once the clock goroutine has exited.
func (c *Clock) Done() <-chan struct{} {
	return c.done
}

// Stop halts the clock and waits for the goroutine to exit. It is safe to
// call more than once, and before Start.
func (c *Clock) Stop() {
	c.stopped.Do(func() {
		close(c.stopCh)
	})
	if !c.started {
		return
	}
	<-c.done
}
