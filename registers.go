// registers.go - Centralized I/O register address map for the system board peripherals

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
This file provides a centralized reference for the memory-mapped I/O windows
of the system board. Individual devices define their detailed register
constants in separate *_constants.go files.

MEMORY MAP OVERVIEW
===================

Address Range       Size    Device                      Constants File
---------------------------------------------------------------------------
0x42000-0x4201F     32B     8253 Interval Timer         timer_constants.go
0x43000-0x43FFF     4KB     Non-Volatile RAM            registers.go
0x44000-0x440FF     256B    Control/Status Register     csr_constants.go
0x49000-0x490FF     256B    2681 Dual UART              uart_constants.go
0x4D000-0x4D00F     16B     TMS2797 Floppy Controller   floppy_constants.go

Accesses that fall outside every window read as zero and ignore writes.
*/

package main

const (
	TIMER_BASE = 0x42000
	TIMER_SIZE = 0x20
	TIMER_END  = TIMER_BASE + TIMER_SIZE - 1

	NVRAM_BASE = 0x43000
	NVRAM_SIZE = 0x1000
	NVRAM_END  = NVRAM_BASE + NVRAM_SIZE - 1

	CSR_BASE = 0x44000
	CSR_SIZE = 0x100
	CSR_END  = CSR_BASE + CSR_SIZE - 1

	UART_BASE = 0x49000
	UART_SIZE = 0x100
	UART_END  = UART_BASE + UART_SIZE - 1

	IF_BASE = 0x4D000
	IF_SIZE = 0x10
	IF_END  = IF_BASE + IF_SIZE - 1
)

// Access sizes in bits, as carried on every bus transaction.
const (
	ACCESS_8  uint8 = 8
	ACCESS_16 uint8 = 16
	ACCESS_32 uint8 = 32
)

// accessBytes returns the byte count of a sized access. Anything that is not
// a 16- or 32-bit access is treated as a byte access.
func accessBytes(size uint8) uint32 {
	switch size {
	case ACCESS_16:
		return 2
	case ACCESS_32:
		return 4
	default:
		return 1
	}
}

// NVRAM fill pattern for a freshly allocated store.
const NVRAM_FILL = 0x5A
