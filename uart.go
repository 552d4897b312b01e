// uart.go - 2681 dual asynchronous receiver/transmitter

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

/*
The system board carries one 2681 with two serial ports. Port A is the
system console; port B is the contty port. Both share the interrupt status
and mask registers and the one-shot counter/timer that firmware uses for
its baud-rate and sanity delays.

Register reads have side effects: the mode register cycles between MR1 and
MR2, status A and the rx holding registers drop RXR, and the counter is
started and stopped by reading offsets 14 and 15. All interrupt requests
go through the InterruptBus as the UART cause.

Characters arrive from a ConsoleIO polled once per service tick, or from
ReceiveByte. Transmitted bytes go to the port's sink: the console for port A
and an optional io.ByteWriter for port B.
*/

package main

import "io"

type UARTPort struct {
	mode    [2]uint8
	modePtr uint8
	cmd     uint8
	stat    uint8
	buf     uint8

	sink io.ByteWriter
}

type UART struct {
	ports [UART_PORTS]UARTPort

	istat uint8
	imask uint8
	acr   uint8

	ctrSet     uint16
	ctrVal     int32
	ctrEnabled bool
	ctrStep    int32

	irq     *InterruptBus
	console *ConsoleIO
	trace   Tracer
}

// NewUART creates the DUART. console may be nil, in which case nothing is
// polled and port A output is discarded. step is the counter decrement per
// service tick; values below 1 select UART_COUNTER_STEP.
func NewUART(irq *InterruptBus, console *ConsoleIO, step int) *UART {
	if step < 1 {
		step = UART_COUNTER_STEP
	}
	if irq == nil {
		irq = NewInterruptBus()
	}
	u := &UART{
		irq:     irq,
		console: console,
		ctrStep: int32(step),
		trace:   nopTracer{},
	}
	if console != nil {
		u.ports[UART_PORT_A].sink = console
	}
	return u
}

func (u *UART) setTracer(t Tracer) { u.trace = t }

// SetPortSink installs the transmit sink for port.
func (u *UART) SetPortSink(port int, w io.ByteWriter) {
	if port < 0 || port >= UART_PORTS {
		return
	}
	u.ports[port].sink = w
}

func (u *UART) HandleRead(addr uint32, size uint8) uint32 {
	switch addr - UART_BASE {
	case UART_REG_MODE_A:
		return uint32(u.readMode(UART_PORT_A))
	case UART_REG_STAT_A:
		p := &u.ports[UART_PORT_A]
		data := p.stat
		p.stat &^= STS_RXR
		return uint32(data)
	case UART_REG_DATA_A:
		return u.readData(UART_PORT_A)
	case UART_REG_ISTAT:
		return uint32(u.istat)
	case UART_REG_MODE_B:
		return uint32(u.readMode(UART_PORT_B))
	case UART_REG_STAT_B:
		// Unlike port A, reading status B leaves RXR alone.
		return uint32(u.ports[UART_PORT_B].stat)
	case UART_REG_DATA_B:
		return u.readData(UART_PORT_B)
	case UART_REG_START_CT:
		u.ctrEnabled = true
		u.trace.TraceEvent("UART", TRACE_EXECUTE, "start counter, value=%04X mode=%d", u.ctrVal&0xFFFF, (u.acr>>4)&0x7)
		return 0
	case UART_REG_STOP_CT:
		u.ctrEnabled = false
		u.istat &^= ISTS_CRI
		u.trace.TraceEvent("UART", TRACE_EXECUTE, "stop counter")
		return 0
	}
	return 0
}

func (u *UART) HandleWrite(addr uint32, size uint8, value uint32) {
	val := uint8(value)
	switch addr - UART_BASE {
	case UART_REG_MODE_A:
		u.writeMode(UART_PORT_A, val)
	case UART_REG_CMD_A:
		u.writeCommand(UART_PORT_A, val)
		u.updateTxInterrupt()
	case UART_REG_DATA_A:
		u.transmit(UART_PORT_A, val)
		u.updateTxInterrupt()
	case UART_REG_ACR:
		u.acr = val
	case UART_REG_ISTAT:
		u.imask = val
	case UART_REG_CTU:
		u.ctrSet = u.ctrSet&0x00FF | uint16(val)<<8
		u.ctrVal = u.ctrVal&0x00FF | int32(val)<<8
	case UART_REG_CTL:
		u.ctrSet = u.ctrSet&0xFF00 | uint16(val)
		u.ctrVal = u.ctrVal&0xFF00 | int32(val)
	case UART_REG_MODE_B:
		u.writeMode(UART_PORT_B, val)
	case UART_REG_CMD_B:
		u.writeCommand(UART_PORT_B, val)
		u.updateTxInterrupt()
	case UART_REG_DATA_B:
		u.transmit(UART_PORT_B, val)
		u.updateTxInterrupt()
	}
}

// Service runs the counter/timer and polls the console once.
func (u *UART) Service() {
	if u.ctrEnabled {
		u.ctrVal -= u.ctrStep
		if u.ctrVal <= 0 {
			u.istat |= ISTS_CRI
			u.ctrVal = int32(u.ctrSet)
			// One-shot only: square-wave mode in ACR is not modelled.
			u.ctrEnabled = false
			u.trace.TraceEvent("UART", TRACE_EXECUTE, "counter expired, istat=%02X imask=%02X", u.istat, u.imask)
			if u.imask&ISTS_CRI != 0 {
				u.irq.Assert(CSR_UART)
			}
		}
	}

	if u.console == nil || u.ports[UART_PORT_A].cmd&CMD_ERX == 0 {
		return
	}
	if b, ok := u.console.PollByte(); ok {
		u.ReceiveByte(b)
	}
}

// ReceiveByte delivers an incoming character to every port whose receiver
// is enabled. A port that still holds an unread byte keeps it and flags an
// overrun. A port with its receiver disabled drops any pending byte.
//
// Setting OER and asserting the UART cause on receive are intentional
// departures from the older peripheral model, which did neither. The 2681
// does both, and console-driven firmware waits on the receive interrupt.
func (u *UART) ReceiveByte(b byte) {
	for i := range u.ports {
		p := &u.ports[i]
		rx := uartPortIRQ[i].rx
		if p.cmd&CMD_ERX == 0 {
			p.stat &^= STS_RXR
			u.istat &^= rx
			continue
		}
		if p.stat&STS_RXR != 0 {
			p.stat |= STS_OER
			continue
		}
		p.buf = b
		p.stat |= STS_RXR
		u.istat |= rx
	}
	if u.istat&u.imask&(ISTS_RAI|ISTS_RBI) != 0 {
		u.irq.Assert(CSR_UART)
	}
}

func (u *UART) readMode(port int) uint8 {
	p := &u.ports[port]
	data := p.mode[p.modePtr]
	p.modePtr ^= 1
	return data
}

func (u *UART) writeMode(port int, val uint8) {
	p := &u.ports[port]
	p.mode[p.modePtr] = val
	p.modePtr ^= 1
}

// readData returns the rx holding register with the status register in
// the byte above it.
func (u *UART) readData(port int) uint32 {
	p := &u.ports[port]
	data := uint32(p.buf) | uint32(p.stat)<<8
	p.stat &^= STS_RXR
	u.istat &^= uartPortIRQ[port].rx
	return data
}

func (u *UART) writeCommand(port int, val uint8) {
	p := &u.ports[port]

	if val&CMD_ETX != 0 {
		p.cmd |= CMD_ETX
	} else if val&CMD_DTX != 0 {
		p.cmd &^= CMD_ETX
	}

	if val&CMD_ERX != 0 {
		p.cmd |= CMD_ERX
	} else if val&CMD_DRX != 0 {
		p.cmd &^= CMD_ERX
	}

	switch (val >> CMD_V_CMD) & CMD_M_CMD {
	case UART_MISC_RESET_MR:
		p.modePtr = 0
	case UART_MISC_RESET_RX:
		p.cmd &^= CMD_ERX
		p.stat &^= STS_RXR
	case UART_MISC_RESET_TX:
		p.stat &^= STS_TXR
	case UART_MISC_RESET_ERR:
		p.stat &^= STS_FER | STS_PER | STS_OER
	}
}

func (u *UART) transmit(port int, val uint8) {
	p := &u.ports[port]
	if p.cmd&CMD_ETX == 0 || p.sink == nil {
		return
	}
	_ = p.sink.WriteByte(val)
}

// updateTxInterrupt recomputes the transmitter status of both ports and
// the UART cause. The CPU line is only ever raised here; a latched CPU
// request is cleared by the CPU's acknowledge cycle.
func (u *UART) updateTxInterrupt() {
	for i := range u.ports {
		p := &u.ports[i]
		tx := uartPortIRQ[i].tx
		if p.cmd&CMD_ETX != 0 {
			p.stat |= STS_TXR | STS_TXE
			u.istat |= tx
		} else {
			p.stat &^= STS_TXR | STS_TXE
			u.istat &^= tx
		}
	}

	if u.istat&u.imask != 0 {
		u.trace.TraceEvent("UART", TRACE_EXECUTE, "tx interrupt, istat=%02X imask=%02X", u.istat, u.imask)
		u.irq.Assert(CSR_UART)
	} else {
		u.irq.Deassert(CSR_UART)
	}
}

func (u *UART) Status(port int) uint8 {
	if port < 0 || port >= UART_PORTS {
		return 0
	}
	return u.ports[port].stat
}

func (u *UART) Command(port int) uint8 {
	if port < 0 || port >= UART_PORTS {
		return 0
	}
	return u.ports[port].cmd
}

func (u *UART) IStat() uint8 { return u.istat }
func (u *UART) IMask() uint8 { return u.imask }

// Counter returns the live count, the preset and whether the counter runs.
func (u *UART) Counter() (value int32, preset uint16, enabled bool) {
	return u.ctrVal, u.ctrSet, u.ctrEnabled
}
