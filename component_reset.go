// component_reset.go - Reset() methods for every system board device

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "fmt"

// CSR.Reset clears every cause.
func (c *CSR) Reset() error {
	c.data = 0
	return nil
}

// Timer.Reset stops all three channels.
func (t *Timer) Reset() error {
	t.channels = [TIMER_CHANNELS]TimerChannel{}
	t.mode = 0
	return nil
}

// NVRAM.Reset allocates the backing store on first use and fills it with
// NVRAM_FILL. Later resets keep the contents.
func (n *NVRAM) Reset() error {
	if n.data != nil {
		return nil
	}
	if n.size <= 0 || n.size > NVRAM_SIZE {
		return fmt.Errorf("%w: %d bytes", ErrNVRAMAlloc, n.size)
	}
	n.data = make([]byte, n.size)
	for i := range n.data {
		n.data[i] = NVRAM_FILL
	}
	n.trace.TraceEvent("NVRAM", TRACE_INIT, "allocated %d bytes", n.size)
	return nil
}

// UART.Reset clears both ports, the interrupt registers and the counter.
// Port sinks and the console stay attached.
func (u *UART) Reset() error {
	for i := range u.ports {
		sink := u.ports[i].sink
		u.ports[i] = UARTPort{sink: sink}
	}
	u.istat = 0
	u.imask = 0
	u.acr = 0
	u.ctrSet = 0
	u.ctrVal = 0
	u.ctrEnabled = false
	return nil
}

// Floppy.Reset returns the controller to idle with the head on track 0.
// The mounted disk stays in the drive.
func (f *Floppy) Reset() error {
	f.data = 0
	f.cmd = 0
	f.cmdType = IF_TYPE_I
	f.track = 0
	f.sector = 0
	f.side = 0
	f.drq = false
	f.head = 0
	f.stepIn = false
	f.phase = ifIdle
	f.countdown = 0
	f.failing = false
	f.failBits = 0
	f.buf = nil
	f.pos = 0
	f.writing = false
	f.lostTicks = 0
	f.intrq = false
	f.status = f.typeIStatus()
	return nil
}

// IRQLatch.Reset drops any latched request and the request count.
func (l *IRQLatch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = false
	l.vector = 0
	l.priority = 0
	l.raised = 0
}

// ConsoleIO.Reset discards pending input and buffered output.
func (c *ConsoleIO) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputHead = 0
	c.inputTail = 0
	c.inputLen = 0
	c.outputBuf = c.outputBuf[:0]
}
