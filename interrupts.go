// interrupts.go - Interrupt bus between the peripherals, the CSR and the CPU

package main

import "sync"

// Cause identifies one CSR cause bit. The value is the bit position and the
// CSR read offset at which the bit is visible.
type Cause uint8

// InterruptSink consumes interrupt cause transitions.
type InterruptSink interface {
	Assert(c Cause)
	Deassert(c Cause)
}

// InterruptBus fans cause transitions out to its sinks in registration
// order. Devices hold the bus, never the sinks.
type InterruptBus struct {
	sinks []InterruptSink
}

func NewInterruptBus(sinks ...InterruptSink) *InterruptBus {
	return &InterruptBus{sinks: sinks}
}

// Attach adds a sink after the existing ones.
func (ib *InterruptBus) Attach(s InterruptSink) {
	ib.sinks = append(ib.sinks, s)
}

func (ib *InterruptBus) Assert(c Cause) {
	for _, s := range ib.sinks {
		s.Assert(c)
	}
}

func (ib *InterruptBus) Deassert(c Cause) {
	for _, s := range ib.sinks {
		s.Deassert(c)
	}
}

// irqLevel is the CPU interrupt vector and priority a cause requests.
type irqLevel struct {
	vector   uint8
	priority uint8
}

// causeIRQ lists the causes wired to a CPU interrupt line.
var causeIRQ = map[Cause]irqLevel{
	CSR_UART: {vector: UART_IRQ_VECTOR, priority: UART_IRQ_PRIORITY},
	CSR_DISK: {vector: IF_IRQ_VECTOR, priority: IF_IRQ_PRIORITY},
}

// IRQLatch stands in for the CPU interrupt controller. It latches the
// highest priority request and holds it until the CPU acknowledges it.
// Deassert does not drop a latched request: the CPU clears it during its
// acknowledge cycle.
type IRQLatch struct {
	mu       sync.Mutex
	pending  bool
	vector   uint8
	priority uint8
	raised   uint64

	onIRQ func(vector, priority uint8)
}

func NewIRQLatch() *IRQLatch {
	return &IRQLatch{}
}

// OnIRQ registers a callback invoked whenever a request is latched.
func (l *IRQLatch) OnIRQ(fn func(vector, priority uint8)) {
	l.mu.Lock()
	l.onIRQ = fn
	l.mu.Unlock()
}

func (l *IRQLatch) Assert(c Cause) {
	lvl, ok := causeIRQ[c]
	if !ok {
		return
	}

	l.mu.Lock()
	if !l.pending || lvl.priority > l.priority {
		l.pending = true
		l.vector = lvl.vector
		l.priority = lvl.priority
	}
	l.raised++
	fn := l.onIRQ
	l.mu.Unlock()

	if fn != nil {
		fn(lvl.vector, lvl.priority)
	}
}

func (l *IRQLatch) Deassert(Cause) {}

// Pending returns the latched request, if any.
func (l *IRQLatch) Pending() (vector, priority uint8, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vector, l.priority, l.pending
}

// Acknowledge clears the latched request.
func (l *IRQLatch) Acknowledge() {
	l.mu.Lock()
	l.pending = false
	l.vector = 0
	l.priority = 0
	l.mu.Unlock()
}

// Raised returns the number of requests seen since the last reset.
func (l *IRQLatch) Raised() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.raised
}
