// floppy.go - TMS2797 integrated floppy controller

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
The TMS2797 is a WD279x-family controller. Software writes a command byte
to the command register; the controller runs it over several service ticks
and raises the DISK cause when it finishes. The high nibble of the command
selects one of four command types, and the controller remembers the type
of the last command because the same status bits mean different things for
Type I commands (TK_0, HEAD_LOADED, SEEK_ERR) and for Type II/III commands
(LOST_DATA, RECORD_TYPE, RNF).

Sector data moves one byte at a time through the data register while DRQ
is set. Reading or writing the data register moves a byte and keeps DRQ up
until the sector is exhausted. A DMA engine instead calls DRQHandled, which
moves a byte and drops DRQ until the next service tick. A request left
unserviced for IF_LOST_DATA_TICKS aborts the command with LOST_DATA.
*/

package main

import (
	"errors"
	"strings"
)

type ifPhase uint8

const (
	ifIdle     ifPhase = iota
	ifStepping         // Type I head movement
	ifSettling         // before the first DRQ, or before a failing command completes
	ifTransfer         // bytes move through the data register
)

type Floppy struct {
	data    uint8
	cmd     uint8
	cmdType uint8
	status  uint8
	track   uint8
	sector  uint8
	side    uint8
	drq     bool

	head   uint8 // physical head position
	stepIn bool  // direction of the last step

	phase     ifPhase
	countdown int
	failing   bool
	failBits  uint8

	buf       []byte
	pos       int
	writing   bool
	lostTicks int
	intrq     bool

	disk  DiskStore
	irq   *InterruptBus
	trace Tracer
}

// NewFloppy creates the controller. disk may be nil for an empty drive.
func NewFloppy(irq *InterruptBus, disk DiskStore) *Floppy {
	if irq == nil {
		irq = NewInterruptBus()
	}
	f := &Floppy{
		irq:     irq,
		disk:    disk,
		cmdType: IF_TYPE_I,
		trace:   nopTracer{},
	}
	f.status = f.typeIStatus()
	return f
}

func (f *Floppy) setTracer(t Tracer) { f.trace = t }

// Mount inserts a disk, or ejects the current one when disk is nil. Ejecting
// during a sector or track command ends it with NRDY and RNF.
func (f *Floppy) Mount(disk DiskStore) {
	f.disk = disk
	if disk == nil && f.phase != ifIdle && (f.cmdType == IF_TYPE_II || f.cmdType == IF_TYPE_III) {
		f.trace.TraceEvent("IF", TRACE_EXECUTE, "disk ejected during command %02X", f.cmd)
		f.failing = false
		f.complete(IF_NRDY | IF_RNF)
		return
	}
	if f.phase == ifIdle && f.cmdType != IF_TYPE_II && f.cmdType != IF_TYPE_III {
		f.status = f.typeIStatus()
	}
}

func (f *Floppy) Disk() DiskStore {
	return f.disk
}

func (f *Floppy) HandleRead(addr uint32, size uint8) uint32 {
	switch addr - IF_BASE {
	case IF_STATUS_REG:
		status := f.status
		if f.intrq {
			f.intrq = false
			f.irq.Deassert(CSR_DISK)
		}
		return uint32(status)
	case IF_TRACK_REG:
		return uint32(f.track)
	case IF_SECTOR_REG:
		return uint32(f.sector)
	case IF_DATA_REG:
		data := f.data
		if f.phase == ifTransfer && f.drq && !f.writing {
			f.advance(true)
		}
		return uint32(data)
	}
	return 0
}

func (f *Floppy) HandleWrite(addr uint32, size uint8, value uint32) {
	val := uint8(value)
	switch addr - IF_BASE {
	case IF_CMD_REG:
		f.command(val)
	case IF_TRACK_REG:
		if !f.Busy() {
			f.track = val
		}
	case IF_SECTOR_REG:
		if !f.Busy() {
			f.sector = val
		}
	case IF_DATA_REG:
		f.data = val
		if f.phase == ifTransfer && f.drq && f.writing {
			f.advance(true)
		}
	}
}

// DRQHandled acknowledges the pending data request on behalf of a DMA
// engine: the current byte is moved and DRQ drops until the next tick.
func (f *Floppy) DRQHandled() {
	if f.phase == ifTransfer && f.drq {
		f.advance(false)
	}
}

func (f *Floppy) Service() {
	switch f.phase {
	case ifStepping:
		f.countdown--
		if f.countdown <= 0 {
			f.finishTypeI()
		}
	case ifSettling:
		f.countdown--
		if f.countdown > 0 {
			return
		}
		if f.failing {
			f.failing = false
			f.complete(f.failBits)
			return
		}
		f.phase = ifTransfer
		f.lostTicks = 0
		if !f.writing {
			f.data = f.buf[f.pos]
		}
		f.setDRQ(true)
	case ifTransfer:
		if !f.drq {
			f.lostTicks = 0
			f.setDRQ(true)
			return
		}
		f.lostTicks++
		if f.lostTicks >= IF_LOST_DATA_TICKS {
			f.trace.TraceEvent("IF", TRACE_EXECUTE, "lost data at byte %d of %d", f.pos, len(f.buf))
			f.complete(IF_LOST_DATA)
		}
	}
}

func (f *Floppy) command(cmd uint8) {
	cmdType := ifCommandType(cmd)
	if f.Busy() && cmdType != IF_TYPE_IV {
		f.trace.TraceEvent("IF", TRACE_EXECUTE, "command %02X ignored while busy", cmd)
		return
	}

	f.cmd = cmd
	f.cmdType = cmdType
	if f.intrq {
		f.intrq = false
		f.irq.Deassert(CSR_DISK)
	}
	f.trace.TraceEvent("IF", TRACE_EXECUTE, "command %02X type %d track=%d sector=%d data=%02X",
		cmd, cmdType, f.track, f.sector, f.data)

	switch cmdType {
	case IF_TYPE_I:
		f.startTypeI(cmd)
	case IF_TYPE_II:
		f.startTypeII(cmd)
	case IF_TYPE_III:
		f.startTypeIII(cmd)
	case IF_TYPE_IV:
		f.forceInterrupt(cmd)
	}
}

func (f *Floppy) startTypeI(cmd uint8) {
	steps := 1
	switch {
	case cmd < IF_SEEK:
		steps = int(f.head)
		f.head = 0
		f.track = 0
	case cmd < IF_STEP:
		delta := int(f.data) - int(f.track)
		steps = absInt(delta)
		f.head = clampHead(int(f.head) + delta)
		f.track = f.data
	default:
		switch cmd & 0xE0 {
		case IF_STEP_IN:
			f.stepIn = true
		case IF_STEP_OUT:
			f.stepIn = false
		}
		dir := -1
		if f.stepIn {
			dir = 1
		}
		f.head = clampHead(int(f.head) + dir)
		// The track register stops at 0 and 255 instead of wrapping.
		if next := int(f.track) + dir; cmd&IF_U_FLAG != 0 && next >= 0 && next <= 0xFF {
			f.track = uint8(next)
		}
	}

	if steps < 1 {
		steps = 1
	}
	f.status = IF_BUSY
	f.phase = ifStepping
	f.countdown = steps * IF_STEP_TICKS
}

func (f *Floppy) finishTypeI() {
	status := f.typeIStatus()
	if f.cmd&IF_V_FLAG != 0 && (f.disk == nil || f.track != f.head) {
		status |= IF_SEEK_ERR
	}
	f.status = status | IF_BUSY
	f.complete(0)
}

// typeIStatus returns the drive-state bits reported outside sector
// transfers.
func (f *Floppy) typeIStatus() uint8 {
	var status uint8
	if f.head == 0 {
		status |= IF_TK_0
	}
	if f.cmdType == IF_TYPE_I && f.cmd&IF_H_FLAG != 0 {
		status |= IF_HEAD_LOADED
	}
	if f.disk == nil {
		status |= IF_NRDY
	} else if f.disk.WriteProtected() {
		status |= IF_WP
	}
	return status
}

func (f *Floppy) startTypeII(cmd uint8) {
	f.side = (cmd & IF_SIDE_FLAG) >> 1
	f.writing = cmd&IF_CMD_MASK == IF_WRITE_SEC || cmd&IF_CMD_MASK == IF_WRITE_SEC_M
	f.status = IF_BUSY

	if f.disk == nil {
		f.fail(IF_NRDY | IF_RNF)
		return
	}
	if f.writing && f.disk.WriteProtected() {
		f.fail(IF_WP)
		return
	}
	if !ifValidSector(f.track, f.sector) {
		f.fail(IF_RNF)
		return
	}
	f.buf = make([]byte, IF_SECTOR_SIZE)
	f.pos = 0
	if !f.writing {
		if err := f.disk.ReadSector(f.side, f.track, f.sector, f.buf); err != nil {
			f.fail(ifErrorBits(err))
			return
		}
	}
	f.settle()
}

func (f *Floppy) startTypeIII(cmd uint8) {
	f.side = (cmd & IF_SIDE_FLAG) >> 1
	f.writing = false
	f.status = IF_BUSY
	f.pos = 0

	if f.disk == nil {
		f.fail(IF_NRDY | IF_RNF)
		return
	}

	switch cmd & IF_CMD_MASK {
	case IF_READ_ADDR:
		// Track, side, sector, length code, then a CRC left at zero.
		f.buf = make([]byte, IF_ID_FIELD_SIZE)
		f.buf[0] = f.head
		f.buf[1] = f.side
		f.buf[2] = 1
		f.buf[3] = IF_SECTOR_SIZE_ID
	case IF_READ_TRACK:
		if f.track >= IF_TRACK_COUNT {
			f.fail(IF_RNF)
			return
		}
		f.buf = make([]byte, IF_TRACK_SIZE)
		for s := uint8(1); s <= IF_SECTOR_COUNT; s++ {
			off := int(s-1) * IF_SECTOR_SIZE
			if err := f.disk.ReadSector(f.side, f.track, s, f.buf[off:off+IF_SECTOR_SIZE]); err != nil {
				f.fail(ifErrorBits(err))
				return
			}
		}
	case IF_WRITE_TRACK:
		if f.disk.WriteProtected() {
			f.fail(IF_WP)
			return
		}
		if f.track >= IF_TRACK_COUNT {
			f.fail(IF_RNF)
			return
		}
		f.buf = make([]byte, IF_TRACK_SIZE)
		f.writing = true
	}
	f.settle()
}

func (f *Floppy) forceInterrupt(cmd uint8) {
	f.phase = ifIdle
	f.failing = false
	f.drq = false
	f.buf = nil
	f.pos = 0
	f.writing = false
	f.status = f.typeIStatus()
	if cmd&IF_IMMEDIATE_INT != 0 {
		f.intrq = true
		f.irq.Assert(CSR_DISK)
	}
}

func (f *Floppy) settle() {
	f.phase = ifSettling
	f.countdown = IF_SETTLE_TICKS
}

// fail ends the running command with bits once the settle delay expires,
// so software always observes BUSY first.
func (f *Floppy) fail(bits uint8) {
	f.failing = true
	f.failBits = bits
	f.settle()
}

// advance moves the current byte and either presents the next one or
// finishes the buffer.
func (f *Floppy) advance(keepDRQ bool) {
	if f.writing {
		f.buf[f.pos] = f.data
	}
	f.pos++
	f.lostTicks = 0
	if f.pos >= len(f.buf) {
		f.setDRQ(false)
		f.bufferDone()
		return
	}
	if !f.writing {
		f.data = f.buf[f.pos]
	}
	f.setDRQ(keepDRQ)
}

func (f *Floppy) bufferDone() {
	if f.disk == nil {
		f.complete(IF_NRDY | IF_RNF)
		return
	}
	switch f.cmd & IF_CMD_MASK {
	case IF_WRITE_SEC, IF_WRITE_SEC_M:
		if err := f.disk.WriteSector(f.side, f.track, f.sector, f.buf); err != nil {
			f.complete(ifErrorBits(err))
			return
		}
	case IF_WRITE_TRACK:
		for s := uint8(1); s <= IF_SECTOR_COUNT; s++ {
			off := int(s-1) * IF_SECTOR_SIZE
			if err := f.disk.WriteSector(f.side, f.track, s, f.buf[off:off+IF_SECTOR_SIZE]); err != nil {
				f.complete(ifErrorBits(err))
				return
			}
		}
	case IF_READ_ADDR:
		f.sector = f.buf[0]
	}

	if f.cmdType == IF_TYPE_II && f.cmd&IF_M_FLAG != 0 && f.sector < IF_SECTOR_COUNT {
		f.sector++
		f.pos = 0
		if !f.writing {
			if err := f.disk.ReadSector(f.side, f.track, f.sector, f.buf); err != nil {
				f.complete(ifErrorBits(err))
				return
			}
		}
		f.settle()
		return
	}
	f.complete(0)
}

// complete ends the running command and raises the DISK cause.
func (f *Floppy) complete(bits uint8) {
	f.phase = ifIdle
	if f.drq {
		f.setDRQ(false)
	}
	f.buf = nil
	f.status = f.status&^IF_BUSY | bits
	f.intrq = true
	f.trace.TraceEvent("IF", TRACE_EXECUTE, "command %02X done, status=%02X (%s)", f.cmd, f.status, f.DescribeStatus())
	f.irq.Assert(CSR_DISK)
}

func (f *Floppy) setDRQ(on bool) {
	f.drq = on
	if on {
		f.status |= IF_DRQ
	} else {
		f.status &^= IF_DRQ
	}
}

// DescribeStatus names the set status bits according to the type of the
// last command.
func (f *Floppy) DescribeStatus() string {
	names := &ifTypeIStatusNames
	if f.cmdType == IF_TYPE_II || f.cmdType == IF_TYPE_III {
		names = &ifTypeIIStatusNames
	}
	var parts []string
	for bit := 0; bit < 8; bit++ {
		if f.status&(1<<bit) != 0 {
			parts = append(parts, names[bit])
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func (f *Floppy) Busy() bool { return f.status&IF_BUSY != 0 }
func (f *Floppy) DRQ() bool { return f.drq }
func (f *Floppy) Status() uint8 { return f.status }
func (f *Floppy) CommandType() uint8 { return f.cmdType }
func (f *Floppy) Track() uint8 { return f.track }
func (f *Floppy) Sector() uint8 { return f.sector }
func (f *Floppy) Side() uint8 { return f.side }
func (f *Floppy) Head() uint8 { return f.head }

func ifValidSector(track, sector uint8) bool {
	return track < IF_TRACK_COUNT && sector >= 1 && sector <= IF_SECTOR_COUNT
}

func ifErrorBits(err error) uint8 {
	if errors.Is(err, ErrWriteProtected) {
		return IF_WP
	}
	return IF_RNF
}

func clampHead(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v >= IF_TRACK_COUNT {
		return IF_TRACK_COUNT - 1
	}
	return uint8(v)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
