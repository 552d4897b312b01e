// system.go - System board context owning every peripheral

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

import (
	"fmt"
	"io"
	"sync"
)

// Region names on the system bus.
const (
	DEV_TIMER = "TIMER"
	DEV_NVRAM = "NVRAM"
	DEV_CSR   = "CSR"
	DEV_UART  = "UART"
	DEV_IF    = "IF"
)

type SystemConfig struct {
	NVRAMSize       int           // 0 selects NVRAM_SIZE
	UARTCounterStep int           // 0 selects UART_COUNTER_STEP
	Tracer          Tracer        // nil disables tracing
	Console         *ConsoleIO    // nil creates a private console
	Disk            DiskStore     // nil leaves the floppy drive empty
	PortB           io.ByteWriter // nil discards port B output
}

// System owns one instance of every system board device and the buses
// that connect them. The peripheral core is single-threaded; every entry
// point here takes mu so the clock, the terminal and scripts can share it.
type System struct {
	mu sync.Mutex

	Bus     *SystemBus
	IRQ     *InterruptBus
	CPU     *IRQLatch
	CSR     *CSR
	Timer   *Timer
	NVRAM   *NVRAM
	UART    *UART
	Floppy  *Floppy
	Console *ConsoleIO

	ticks uint64
}

// NewSystem builds, maps, resets and seals the system board.
func NewSystem(cfg SystemConfig) (*System, error) {
	if cfg.NVRAMSize == 0 {
		cfg.NVRAMSize = NVRAM_SIZE
	}
	if cfg.Console == nil {
		cfg.Console = NewConsoleIO()
	}

	s := &System{
		Bus:     NewSystemBus(),
		CSR:     NewCSR(),
		CPU:     NewIRQLatch(),
		Console: cfg.Console,
	}
	s.IRQ = NewInterruptBus(s.CSR, s.CPU)
	s.Timer = NewTimer()
	s.NVRAM = NewNVRAM(cfg.NVRAMSize)
	s.UART = NewUART(s.IRQ, cfg.Console, cfg.UARTCounterStep)
	s.Floppy = NewFloppy(s.IRQ, cfg.Disk)
	if cfg.PortB != nil {
		s.UART.SetPortSink(UART_PORT_B, cfg.PortB)
	}

	if cfg.Tracer != nil {
		s.Bus.SetTracer(cfg.Tracer)
		s.IRQ.Attach(causeTracer{t: cfg.Tracer})
		tracer := cfg.Tracer
		s.CPU.OnIRQ(func(vector, priority uint8) {
			tracer.TraceEvent("CPU", TRACE_EXECUTE, "IRQ vector %d priority %d", vector, priority)
		})
	}

	s.Bus.MapIO(DEV_TIMER, TIMER_BASE, TIMER_END, s.Timer)
	s.Bus.MapIO(DEV_NVRAM, NVRAM_BASE, NVRAM_END, s.NVRAM)
	s.Bus.MapIO(DEV_CSR, CSR_BASE, CSR_END, s.CSR)
	s.Bus.MapIO(DEV_UART, UART_BASE, UART_END, s.UART)
	s.Bus.MapIO(DEV_IF, IF_BASE, IF_END, s.Floppy)

	if err := s.Bus.Reset(); err != nil {
		return nil, fmt.Errorf("system reset: %w", err)
	}
	s.Bus.SealMappings()
	return s, nil
}

// Read performs one sized bus read.
func (s *System) Read(addr uint32, size uint8) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Bus.Read(addr, size)
}

// Write performs one sized bus write.
func (s *System) Write(addr uint32, size uint8, value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Bus.Write(addr, size, value)
}

// Tick runs n service rounds over every device.
func (s *System) Tick(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.Bus.Service()
		s.ticks++
	}
}

// Ticks returns the number of service rounds run so far.
func (s *System) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Reset performs a hard reset of the system board. NVRAM contents and the
// mounted floppy survive.
func (s *System) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Bus.Reset(); err != nil {
		return err
	}
	s.CPU.Reset()
	s.Console.Reset()
	return nil
}

// DRQHandled forwards a DMA acknowledge to the floppy controller.
func (s *System) DRQHandled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Floppy.DRQHandled()
}

// CSRBits returns the whole CSR.
func (s *System) CSRBits() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CSR.Bits()
}

// Dump renders the register view of one device.
func (s *System) Dump(device string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatIOView(s, device)
}
