// debug_ioview.go - Register viewer for the system board devices

package main

import (
	"fmt"
	"sort"
)

// IORegisterDesc describes a single I/O register for display. Many device
// registers have side effects when read through the bus, so the viewer
// reads device state through peek instead.
type IORegisterDesc struct {
	Name   string
	Addr   uint32
	Width  int    // 1, 2, or 4 bytes
	Access string // "RW", "RO", "WO"
	peek   func(s *System) uint32
}

// IODeviceDesc describes a group of I/O registers for a device.
type IODeviceDesc struct {
	Name      string
	Registers []IORegisterDesc
}

func uartPortRegs(port int, base uint32, suffix string) []IORegisterDesc {
	return []IORegisterDesc{
		{"MR1" + suffix, base + UART_REG_MODE_A, 1, "RW", func(s *System) uint32 { return uint32(s.UART.ports[port].mode[0]) }},
		{"MR2" + suffix, base + UART_REG_MODE_A, 1, "RW", func(s *System) uint32 { return uint32(s.UART.ports[port].mode[1]) }},
		{"SR" + suffix, base + UART_REG_STAT_A, 1, "RO", func(s *System) uint32 { return uint32(s.UART.ports[port].stat) }},
		{"CR" + suffix, base + UART_REG_CMD_A, 1, "WO", func(s *System) uint32 { return uint32(s.UART.ports[port].cmd) }},
		{"RHR" + suffix, base + UART_REG_DATA_A, 1, "RW", func(s *System) uint32 { return uint32(s.UART.ports[port].buf) }},
	}
}

func timerRegs() []IORegisterDesc {
	var regs []IORegisterDesc
	for reg, ch := range timerChannelReg {
		ch := ch
		regs = append(regs,
			IORegisterDesc{fmt.Sprintf("DIV%d", ch), TIMER_BASE + reg, 2, "WO", func(s *System) uint32 { return s.Timer.channels[ch].divider }},
			IORegisterDesc{fmt.Sprintf("CNT%d", ch), TIMER_BASE + reg, 2, "RO", func(s *System) uint32 { return uint32(s.Timer.channels[ch].counter) & 0xFFFF }},
		)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Name < regs[j].Name })
	return append(regs, IORegisterDesc{"MODE", TIMER_BASE + TIMER_REG_CONTROL, 1, "WO", func(s *System) uint32 { return uint32(s.Timer.mode) }})
}

func csrRegs() []IORegisterDesc {
	regs := []IORegisterDesc{
		{"CSR", CSR_BASE, 2, "RO", func(s *System) uint32 { return uint32(s.CSR.data) }},
	}
	for c := Cause(0); c < CSR_CAUSES; c++ {
		c := c
		regs = append(regs, IORegisterDesc{c.String(), CSR_BASE + uint32(c), 1, "RO", func(s *System) uint32 {
			if s.CSR.Test(c) {
				return 1
			}
			return 0
		}})
	}
	return regs
}

var ioDevices = map[string]*IODeviceDesc{
	"csr": {
		Name:      "CSR",
		Registers: csrRegs(),
	},
	"timer": {
		Name:      "8253 Timer",
		Registers: timerRegs(),
	},
	"nvram": {
		Name: "NVRAM",
		Registers: []IORegisterDesc{
			{"WORD0", NVRAM_BASE, 4, "RW", func(s *System) uint32 { return nvramPeek(s.NVRAM, 0) }},
			{"WORD1", NVRAM_BASE + 4, 4, "RW", func(s *System) uint32 { return nvramPeek(s.NVRAM, 4) }},
			{"WORD2", NVRAM_BASE + 8, 4, "RW", func(s *System) uint32 { return nvramPeek(s.NVRAM, 8) }},
			{"WORD3", NVRAM_BASE + 12, 4, "RW", func(s *System) uint32 { return nvramPeek(s.NVRAM, 12) }},
		},
	},
	"uart": {
		Name: "2681 DUART",
		Registers: append(append(uartPortRegs(UART_PORT_A, UART_BASE, "A"),
			uartPortRegs(UART_PORT_B, UART_BASE+UART_REG_MODE_B, "B")...),
			IORegisterDesc{"ACR", UART_BASE + UART_REG_ACR, 1, "WO", func(s *System) uint32 { return uint32(s.UART.acr) }},
			IORegisterDesc{"ISR", UART_BASE + UART_REG_ISTAT, 1, "RO", func(s *System) uint32 { return uint32(s.UART.istat) }},
			IORegisterDesc{"IMR", UART_BASE + UART_REG_ISTAT, 1, "WO", func(s *System) uint32 { return uint32(s.UART.imask) }},
			IORegisterDesc{"CTPRESET", UART_BASE + UART_REG_CTU, 2, "WO", func(s *System) uint32 { return uint32(s.UART.ctrSet) }},
			IORegisterDesc{"CTVALUE", UART_BASE + UART_REG_CTU, 2, "RO", func(s *System) uint32 { return uint32(s.UART.ctrVal) & 0xFFFF }},
			IORegisterDesc{"CTRUN", UART_BASE + UART_REG_START_CT, 1, "RO", func(s *System) uint32 {
				if s.UART.ctrEnabled {
					return 1
				}
				return 0
			}},
		),
	},
	"if": {
		Name: "TMS2797 Floppy",
		Registers: []IORegisterDesc{
			{"STATUS", IF_BASE + IF_STATUS_REG, 1, "RO", func(s *System) uint32 { return uint32(s.Floppy.status) }},
			{"COMMAND", IF_BASE + IF_CMD_REG, 1, "WO", func(s *System) uint32 { return uint32(s.Floppy.cmd) }},
			{"TRACK", IF_BASE + IF_TRACK_REG, 1, "RW", func(s *System) uint32 { return uint32(s.Floppy.track) }},
			{"SECTOR", IF_BASE + IF_SECTOR_REG, 1, "RW", func(s *System) uint32 { return uint32(s.Floppy.sector) }},
			{"DATA", IF_BASE + IF_DATA_REG, 1, "RW", func(s *System) uint32 { return uint32(s.Floppy.data) }},
			{"SIDE", IF_BASE + IF_CMD_REG, 1, "--", func(s *System) uint32 { return uint32(s.Floppy.side) }},
			{"HEAD", IF_BASE + IF_TRACK_REG, 1, "--", func(s *System) uint32 { return uint32(s.Floppy.head) }},
		},
	},
}

func nvramPeek(n *NVRAM, off uint32) uint32 {
	if int(off)+4 > len(n.data) {
		return 0
	}
	return n.HandleRead(NVRAM_BASE+off, ACCESS_32)
}

// formatIOView renders the register view for a device without touching
// any register side effect.
func formatIOView(s *System, deviceName string) []string {
	dev, ok := ioDevices[deviceName]
	if !ok {
		return []string{fmt.Sprintf("Unknown device: %s", deviceName)}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("--- %s Registers ---", dev.Name))

	for _, reg := range dev.Registers {
		val := reg.peek(s)
		switch reg.Width {
		case 1:
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = $%02X       [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		case 2:
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = $%04X     [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		case 4:
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = $%08X [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		}
	}

	switch deviceName {
	case "csr":
		lines = append(lines, fmt.Sprintf("  pending IRQ: %s", describeIRQ(s.CPU)))
	case "if":
		lines = append(lines, fmt.Sprintf("  status bits: %s (type %d)", s.Floppy.DescribeStatus(), s.Floppy.cmdType))
	}

	return lines
}

func describeIRQ(l *IRQLatch) string {
	vector, priority, ok := l.Pending()
	if !ok {
		return "none"
	}
	return fmt.Sprintf("vector %d priority %d", vector, priority)
}

// listIODevices returns the names of all available IO devices.
func listIODevices() []string {
	return []string{"csr", "timer", "nvram", "uart", "if"}
}
