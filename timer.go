// timer.go - 8253 programmable interval timer

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
The system board's 8253 is modelled as three independent divide-down
counters. A write to a channel register loads the divider and restarts the
count; every host tick decrements each live counter and reloads it from the
divider once it reaches zero. Only the low byte of the live count is
visible to software. The control register latches the mode byte but no mode
changes the counting behaviour.
*/

package main

type TimerChannel struct {
	divider uint32
	counter int32
}

type Timer struct {
	channels [TIMER_CHANNELS]TimerChannel
	mode     uint8
	trace    Tracer
}

func NewTimer() *Timer {
	return &Timer{trace: nopTracer{}}
}

func (t *Timer) setTracer(tr Tracer) { t.trace = tr }

func (t *Timer) HandleRead(addr uint32, size uint8) uint32 {
	ch, ok := timerChannelReg[addr-TIMER_BASE]
	if !ok {
		return 0
	}
	return uint32(t.channels[ch].counter) & 0xFF
}

func (t *Timer) HandleWrite(addr uint32, size uint8, value uint32) {
	reg := addr - TIMER_BASE
	if reg == TIMER_REG_CONTROL {
		t.mode = uint8(value)
		return
	}
	ch, ok := timerChannelReg[reg]
	if !ok {
		return
	}
	c := &t.channels[ch]
	c.divider = value & TIMER_DIVIDER_MASK
	c.counter = int32(c.divider)
	t.trace.TraceEvent("TIMER", TRACE_EXECUTE, "channel %d divider=%d", ch, c.divider)
}

// Service advances every channel by one tick.
func (t *Timer) Service() {
	for i := range t.channels {
		c := &t.channels[i]
		c.counter--
		if c.counter <= 0 {
			c.counter = int32(c.divider)
		}
	}
}

// Counter returns the full live count of channel ch.
func (t *Timer) Counter(ch int) int32 {
	if ch < 0 || ch >= TIMER_CHANNELS {
		return 0
	}
	return t.channels[ch].counter
}

func (t *Timer) Divider(ch int) uint32 {
	if ch < 0 || ch >= TIMER_CHANNELS {
		return 0
	}
	return t.channels[ch].divider
}

func (t *Timer) Mode() uint8 {
	return t.mode
}
