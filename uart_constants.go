// uart_constants.go - 2681 DUART register offsets and bit definitions

package main

const (
	UART_PORT_A = 0
	UART_PORT_B = 1
	UART_PORTS  = 2
)

// Register offsets from UART_BASE. Most offsets have a different meaning
// for reads and writes.
const (
	UART_REG_MODE_A   = 0x00 // R/W mode 1A/2A
	UART_REG_STAT_A   = 0x01 // R status A, W clock select A
	UART_REG_CMD_A    = 0x02 // W command A
	UART_REG_DATA_A   = 0x03 // R rx holding A, W tx holding A
	UART_REG_ACR      = 0x04 // R input port change, W aux control
	UART_REG_ISTAT    = 0x05 // R interrupt status, W interrupt mask
	UART_REG_CTU      = 0x06 // W counter preset upper
	UART_REG_CTL      = 0x07 // W counter preset lower
	UART_REG_MODE_B   = 0x08
	UART_REG_STAT_B   = 0x09
	UART_REG_CMD_B    = 0x0A
	UART_REG_DATA_B   = 0x0B
	UART_REG_IP       = 0x0D // R input ports, W output port config
	UART_REG_START_CT = 0x0E // R start counter, W set output bits
	UART_REG_STOP_CT  = 0x0F // R stop counter, W reset output bits
)

// Command register
const (
	CMD_ERX = 0x01 // enable receiver
	CMD_DRX = 0x02 // disable receiver
	CMD_ETX = 0x04 // enable transmitter
	CMD_DTX = 0x08 // disable transmitter

	CMD_V_CMD = 4 // misc command field shift
	CMD_M_CMD = 0x7
)

// Misc command field values
const (
	UART_MISC_RESET_MR  = 1
	UART_MISC_RESET_RX  = 2
	UART_MISC_RESET_TX  = 3
	UART_MISC_RESET_ERR = 4
)

// Port status register
const (
	STS_RXR = 0x01 // receiver ready
	STS_FFL = 0x02 // FIFO full
	STS_TXR = 0x04 // transmitter ready
	STS_TXE = 0x08 // transmitter empty
	STS_OER = 0x10 // overrun error
	STS_PER = 0x20 // parity error
	STS_FER = 0x40 // framing error
	STS_RXB = 0x80 // received break
)

// Interrupt status / mask register
const (
	ISTS_TAI = 0x01 // transmitter A ready
	ISTS_RAI = 0x02 // receiver A ready
	ISTS_DBA = 0x04 // delta break A
	ISTS_CRI = 0x08 // counter ready
	ISTS_TBI = 0x10 // transmitter B ready
	ISTS_RBI = 0x20 // receiver B ready
	ISTS_DBB = 0x40 // delta break B
	ISTS_IPC = 0x80 // input port change
)

const (
	UART_IRQ_VECTOR   = 9
	UART_IRQ_PRIORITY = 9

	UART_COUNTER_STEP = 1 // default counter decrement per tick
)

// uartPortIRQ holds the istat bits owned by each port.
var uartPortIRQ = [UART_PORTS]struct{ tx, rx uint8 }{
	UART_PORT_A: {tx: ISTS_TAI, rx: ISTS_RAI},
	UART_PORT_B: {tx: ISTS_TBI, rx: ISTS_RBI},
}
