package main

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingTicker struct {
	n atomic.Int64
}

func (c *countingTicker) Tick(n int) { c.n.Add(int64(n)) }

func TestClock_StopsAtLimit(t *testing.T) {
	target := &countingTicker{}
	clk := NewClock(target, 1000, 5)
	clk.Start()

	select {
	case <-clk.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("clock did not reach its limit")
	}
	if got := target.n.Load(); got != 5 {
		t.Fatalf("expected 5 ticks, got %d", got)
	}
	clk.Stop()
}

func TestClock_StopIsIdempotent(t *testing.T) {
	target := &countingTicker{}
	clk := NewClock(target, 1000, 0)
	clk.Stop()

	clk = NewClock(target, 1000, 0)
	clk.Start()
	clk.Start()
	time.Sleep(10 * time.Millisecond)
	clk.Stop()
	clk.Stop()

	stopped := target.n.Load()
	time.Sleep(10 * time.Millisecond)
	if target.n.Load() != stopped {
		t.Fatalf("expected no ticks after Stop")
	}
}

func TestClock_DrivesSystem(t *testing.T) {
	sys := newTestSystem(t)
	clk := NewClock(sys, 2000, 10)
	clk.Start()
	<-clk.Done()
	if sys.Ticks() != 10 {
		t.Fatalf("expected 10 system ticks, got %d", sys.Ticks())
	}
}
