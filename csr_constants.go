// csr_constants.go - Control/Status Register cause bits and write offsets

package main

// CSR cause bits. The bit position doubles as the read offset from CSR_BASE
// at which the bit is returned (shifted down into bit 0).
const (
	CSR_IOF  Cause = iota // I/O board fail
	CSR_DMA               // DMA interrupt
	CSR_DISK              // floppy interrupt
	CSR_UART              // UART interrupt
	CSR_PIR9              // programmed interrupt 9
	CSR_PIR8              // programmed interrupt 8
	CSR_CLK               // clock interrupt
	CSR_IFLT              // inhibit faults
	CSR_ITIM              // inhibit timers
	CSR_FLOP              // floppy motor on
	CSR_LED               // failure LED
	CSR_ALGN              // memory alignment fault
	CSR_RRST              // system reset request
	CSR_PARE              // memory parity error
	CSR_TIMO              // bus timeout (sanity)
	CSR_RSVD              // reserved

	CSR_CAUSES = 16
)

var csrCauseNames = [CSR_CAUSES]string{
	"IOF", "DMA", "DISK", "UART", "PIR9", "PIR8", "CLK", "IFLT",
	"ITIM", "FLOP", "LED", "ALGN", "RRST", "PARE", "TIMO", "RSVD",
}

func (c Cause) String() string {
	if int(c) < len(csrCauseNames) {
		return csrCauseNames[c]
	}
	return "?"
}

// CSR write offsets. Each offset performs one fixed set or clear action;
// the written value is ignored.
const (
	CSR_CLR_SANITY = 0x03
	CSR_CLR_PARITY = 0x07
	CSR_SET_RRST   = 0x0B
	CSR_CLR_ALIGN  = 0x0F
	CSR_SET_LED    = 0x13
	CSR_CLR_LED    = 0x17
	CSR_SET_FLOP   = 0x1B
	CSR_CLR_FLOP   = 0x1F
	CSR_SET_ITIM   = 0x23
	CSR_CLR_ITIM   = 0x27
	CSR_SET_IFLT   = 0x2B
	CSR_CLR_IFLT   = 0x2F
	CSR_SET_PIR9   = 0x33
	CSR_CLR_PIR9   = 0x37
	CSR_SET_PIR8   = 0x3B
	CSR_CLR_PIR8   = 0x3F
)

type csrAction struct {
	cause Cause
	set   bool
}

var csrWriteTable = map[uint32]csrAction{
	CSR_CLR_SANITY: {CSR_TIMO, false},
	CSR_CLR_PARITY: {CSR_PARE, false},
	CSR_SET_RRST:   {CSR_RRST, true},
	CSR_CLR_ALIGN:  {CSR_ALGN, false},
	CSR_SET_LED:    {CSR_LED, true},
	CSR_CLR_LED:    {CSR_LED, false},
	CSR_SET_FLOP:   {CSR_FLOP, true},
	CSR_CLR_FLOP:   {CSR_FLOP, false},
	CSR_SET_ITIM:   {CSR_ITIM, true},
	CSR_CLR_ITIM:   {CSR_ITIM, false},
	CSR_SET_IFLT:   {CSR_IFLT, true},
	CSR_CLR_IFLT:   {CSR_IFLT, false},
	CSR_SET_PIR9:   {CSR_PIR9, true},
	CSR_CLR_PIR9:   {CSR_PIR9, false},
	CSR_SET_PIR8:   {CSR_PIR8, true},
	CSR_CLR_PIR8:   {CSR_PIR8, false},
}
