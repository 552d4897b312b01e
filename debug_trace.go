// debug_trace.go - Device trace observer

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// TraceMask selects which trace categories a tracer reports.
type TraceMask uint8

const (
	TRACE_INIT TraceMask = 1 << iota
	TRACE_READ
	TRACE_WRITE
	TRACE_EXECUTE

	TRACE_ALL = TRACE_INIT | TRACE_READ | TRACE_WRITE | TRACE_EXECUTE
)

var traceNames = map[string]TraceMask{
	"init":    TRACE_INIT,
	"read":    TRACE_READ,
	"write":   TRACE_WRITE,
	"execute": TRACE_EXECUTE,
	"all":     TRACE_ALL,
}

// ParseTraceMask parses a comma separated list of category names.
func ParseTraceMask(s string) (TraceMask, error) {
	var mask TraceMask
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		bit, ok := traceNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown trace category %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

// Tracer observes bus accesses and device state transitions. The bus calls
// TraceRead/TraceWrite after an access has completed; devices call
// TraceEvent after they change state.
type Tracer interface {
	TraceRead(dev string, addr uint32, size uint8, value uint32)
	TraceWrite(dev string, addr uint32, size uint8, value uint32)
	TraceEvent(dev string, mask TraceMask, format string, args ...any)
}

type nopTracer struct{}

func (nopTracer) TraceRead(string, uint32, uint8, uint32) {}
func (nopTracer) TraceWrite(string, uint32, uint8, uint32) {}
func (nopTracer) TraceEvent(string, TraceMask, string, ...any) {}

// traceable is implemented by devices that emit TraceEvent calls.
type traceable interface {
	setTracer(t Tracer)
}

// TextTracer writes one line per traced event.
type TextTracer struct {
	mu   sync.Mutex
	w    io.Writer
	mask TraceMask
}

func NewTextTracer(w io.Writer, mask TraceMask) *TextTracer {
	return &TextTracer{w: w, mask: mask}
}

func (t *TextTracer) TraceRead(dev string, addr uint32, size uint8, value uint32) {
	if t.mask&TRACE_READ == 0 {
		return
	}
	t.mu.Lock()
	fmt.Fprintf(t.w, "[%s] READ %d @ %08X = %08X\n", dev, size, addr, value)
	t.mu.Unlock()
}

func (t *TextTracer) TraceWrite(dev string, addr uint32, size uint8, value uint32) {
	if t.mask&TRACE_WRITE == 0 {
		return
	}
	t.mu.Lock()
	fmt.Fprintf(t.w, "[%s] WRITE %d @ %08X = %08X\n", dev, size, addr, value)
	t.mu.Unlock()
}

func (t *TextTracer) TraceEvent(dev string, mask TraceMask, format string, args ...any) {
	if t.mask&mask == 0 {
		return
	}
	t.mu.Lock()
	fmt.Fprintf(t.w, "[%s] %s\n", dev, fmt.Sprintf(format, args...))
	t.mu.Unlock()
}

// causeTracer is an InterruptSink that reports cause transitions.
type causeTracer struct {
	t Tracer
}

func (c causeTracer) Assert(cause Cause) {
	c.t.TraceEvent("IRQ", TRACE_EXECUTE, "assert %s", cause)
}

func (c causeTracer) Deassert(cause Cause) {
	c.t.TraceEvent("IRQ", TRACE_EXECUTE, "deassert %s", cause)
}
