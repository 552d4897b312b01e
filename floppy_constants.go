// floppy_constants.go - TMS2797 floppy controller registers, commands and status bits

package main

// Register offsets from IF_BASE. Offset 0 is status on read, command on write.
const (
	IF_STATUS_REG = 0
	IF_CMD_REG    = 0
	IF_TRACK_REG  = 1
	IF_SECTOR_REG = 2
	IF_DATA_REG   = 3
)

// Status bits. Several positions carry a different meaning for Type I
// commands than for Type II/III commands.
const (
	IF_BUSY        = 0x01
	IF_DRQ         = 0x02 // Type II/III
	IF_INDEX       = 0x02 // Type I
	IF_TK_0        = 0x04 // Type I
	IF_LOST_DATA   = 0x04 // Type II/III
	IF_CRC_ERR     = 0x08
	IF_SEEK_ERR    = 0x10 // Type I
	IF_RNF         = 0x10 // Type II/III
	IF_HEAD_LOADED = 0x20 // Type I
	IF_RECORD_TYPE = 0x20 // Type II/III
	IF_WP          = 0x40
	IF_NRDY        = 0x80
)

// Type I commands: cccuhvrr
const (
	IF_RESTORE    = 0x00
	IF_SEEK       = 0x10
	IF_STEP       = 0x20
	IF_STEP_T     = 0x30
	IF_STEP_IN    = 0x40
	IF_STEP_IN_T  = 0x50
	IF_STEP_OUT   = 0x60
	IF_STEP_OUT_T = 0x70

	IF_U_FLAG = 0x10 // update track register while stepping
	IF_H_FLAG = 0x08 // load head
	IF_V_FLAG = 0x04 // verify track on completion
)

// Type II commands: cccmslea
const (
	IF_READ_SEC    = 0x80
	IF_READ_SEC_M  = 0x90
	IF_WRITE_SEC   = 0xA0
	IF_WRITE_SEC_M = 0xB0

	IF_M_FLAG    = 0x10 // multiple sectors
	IF_SIDE_FLAG = 0x02 // side select
)

// Type III commands
const (
	IF_READ_ADDR   = 0xC0
	IF_READ_TRACK  = 0xE0
	IF_WRITE_TRACK = 0xF0
)

// Type IV command
const (
	IF_FORCE_INT = 0xD0

	IF_IMMEDIATE_INT = 0x08
)

const IF_CMD_MASK = 0xF0

// Command types, remembered so status bits can be interpreted after the
// command that produced them has finished.
const (
	IF_TYPE_I   = 1
	IF_TYPE_II  = 2
	IF_TYPE_III = 3
	IF_TYPE_IV  = 4
)

// Disk geometry
const (
	IF_SIDES          = 2
	IF_TRACK_COUNT    = 80
	IF_TRACK_SIZE     = 4608
	IF_SECTOR_SIZE    = 512
	IF_SECTOR_COUNT   = IF_TRACK_SIZE / IF_SECTOR_SIZE
	IF_ID_FIELD_SIZE  = 6
	IF_SECTOR_SIZE_ID = 2 // 512-byte sectors in the ID field length code

	IF_DSK_SIZE = IF_SIDES * IF_TRACK_SIZE * IF_TRACK_COUNT

	IF_FILL = 0xE5
)

// Timing, in service ticks
const (
	IF_STEP_TICKS      = 1  // per track stepped
	IF_SETTLE_TICKS    = 1  // command start to first DRQ or failure
	IF_LOST_DATA_TICKS = 50 // DRQ left unserviced this long aborts the command
)

const (
	IF_IRQ_VECTOR   = 11
	IF_IRQ_PRIORITY = 11
)

var ifTypeIStatusNames = [8]string{"BUSY", "INDEX", "TK_0", "CRC_ERR", "SEEK_ERR", "HEAD_LOADED", "WP", "NRDY"}
var ifTypeIIStatusNames = [8]string{"BUSY", "DRQ", "LOST_DATA", "CRC_ERR", "RNF", "RECORD_TYPE", "WP", "NRDY"}

// ifCommandType classifies a command byte by its high nibble.
func ifCommandType(cmd uint8) uint8 {
	switch {
	case cmd < 0x80:
		return IF_TYPE_I
	case cmd < 0xC0:
		return IF_TYPE_II
	case cmd&IF_CMD_MASK == IF_FORCE_INT:
		return IF_TYPE_IV
	default:
		return IF_TYPE_III
	}
}
