// csr.go - System Control/Status Register

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

// CSR is the system board's interrupt cause / status bitfield. Software
// reads one cause per offset and sets or clears causes by touching fixed
// write offsets. Peripherals reach it through the InterruptBus.
type CSR struct {
	data  uint16
	trace Tracer
}

func NewCSR() *CSR {
	return &CSR{trace: nopTracer{}}
}

func (c *CSR) setTracer(t Tracer) { c.trace = t }

// HandleRead returns the cause selected by the offset in bit 0.
func (c *CSR) HandleRead(addr uint32, size uint8) uint32 {
	reg := addr - CSR_BASE
	if reg >= CSR_CAUSES {
		return 0
	}
	return uint32(c.data>>reg) & 1
}

// HandleWrite performs the set or clear action bound to the offset.
func (c *CSR) HandleWrite(addr uint32, size uint8, value uint32) {
	action, ok := csrWriteTable[addr-CSR_BASE]
	if !ok {
		return
	}
	if action.set {
		c.Set(action.cause)
	} else {
		c.Clear(action.cause)
	}
}

func (c *CSR) Service() {}

func (c *CSR) Set(cause Cause) {
	if cause >= CSR_CAUSES {
		return
	}
	c.data |= 1 << cause
}

func (c *CSR) Clear(cause Cause) {
	if cause >= CSR_CAUSES {
		return
	}
	c.data &^= 1 << cause
}

func (c *CSR) Test(cause Cause) bool {
	if cause >= CSR_CAUSES {
		return false
	}
	return c.data&(1<<cause) != 0
}

// Bits returns the whole register.
func (c *CSR) Bits() uint16 {
	return c.data
}

// Assert and Deassert make the CSR an InterruptSink.
func (c *CSR) Assert(cause Cause) {
	if !c.Test(cause) {
		c.trace.TraceEvent("CSR", TRACE_EXECUTE, "set %s, csr=%04X", cause, c.data|1<<cause)
	}
	c.Set(cause)
}

func (c *CSR) Deassert(cause Cause) {
	if c.Test(cause) {
		c.trace.TraceEvent("CSR", TRACE_EXECUTE, "clear %s, csr=%04X", cause, c.data&^(1<<cause))
	}
	c.Clear(cause)
}
