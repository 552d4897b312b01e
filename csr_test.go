package main

import "testing"

func TestCSR_WriteTable(t *testing.T) {
	tests := []struct {
		offset uint32
		cause  Cause
		set    bool
	}{
		{CSR_CLR_SANITY, CSR_TIMO, false},
		{CSR_CLR_PARITY, CSR_PARE, false},
		{CSR_SET_RRST, CSR_RRST, true},
		{CSR_CLR_ALIGN, CSR_ALGN, false},
		{CSR_SET_LED, CSR_LED, true},
		{CSR_CLR_LED, CSR_LED, false},
		{CSR_SET_FLOP, CSR_FLOP, true},
		{CSR_CLR_FLOP, CSR_FLOP, false},
		{CSR_SET_ITIM, CSR_ITIM, true},
		{CSR_CLR_ITIM, CSR_ITIM, false},
		{CSR_SET_IFLT, CSR_IFLT, true},
		{CSR_CLR_IFLT, CSR_IFLT, false},
		{CSR_SET_PIR9, CSR_PIR9, true},
		{CSR_CLR_PIR9, CSR_PIR9, false},
		{CSR_SET_PIR8, CSR_PIR8, true},
		{CSR_CLR_PIR8, CSR_PIR8, false},
	}

	for _, tt := range tests {
		csr := NewCSR()
		if !tt.set {
			csr.Set(tt.cause)
		}
		for _, payload := range []uint32{0, 0xFF, 0xFFFFFFFF} {
			csr.HandleWrite(CSR_BASE+tt.offset, ACCESS_8, payload)
			want := uint32(0)
			if tt.set {
				want = 1
			}
			if got := csr.HandleRead(CSR_BASE+uint32(tt.cause), ACCESS_8); got != want {
				t.Fatalf("offset 0x%02X payload 0x%X: expected %s=%d, got %d", tt.offset, payload, tt.cause, want, got)
			}
		}
	}
}

func TestCSR_WriteOffsetsAreThreeModFour(t *testing.T) {
	for off := range csrWriteTable {
		if off%4 != 3 {
			t.Fatalf("write offset 0x%02X is not 3 mod 4", off)
		}
	}
	if len(csrWriteTable) != 16 {
		t.Fatalf("expected 16 write actions, got %d", len(csrWriteTable))
	}
}

func TestCSR_EveryCauseReadsAtItsOffset(t *testing.T) {
	for c := Cause(0); c < CSR_CAUSES; c++ {
		csr := NewCSR()
		csr.Assert(c)
		for off := uint32(0); off < CSR_CAUSES; off++ {
			want := uint32(0)
			if off == uint32(c) {
				want = 1
			}
			if got := csr.HandleRead(CSR_BASE+off, ACCESS_8); got != want {
				t.Fatalf("cause %s: offset %d expected %d, got %d", c, off, want, got)
			}
		}
		csr.Deassert(c)
		if csr.Bits() != 0 {
			t.Fatalf("cause %s: expected empty CSR after deassert, got 0x%04X", c, csr.Bits())
		}
	}
}

func TestCSR_UnmappedOffsets(t *testing.T) {
	csr := NewCSR()
	csr.Set(CSR_LED)
	for _, off := range []uint32{0x00, 0x01, 0x12, 0x40, 0xFF} {
		csr.HandleWrite(CSR_BASE+off, ACCESS_8, 0xFF)
	}
	if csr.Bits() != 1<<CSR_LED {
		t.Fatalf("expected only LED set, got 0x%04X", csr.Bits())
	}
	if got := csr.HandleRead(CSR_BASE+0x10, ACCESS_8); got != 0 {
		t.Fatalf("expected 0 past the read offsets, got %d", got)
	}
}

func TestCSR_ResetClearsAll(t *testing.T) {
	csr := NewCSR()
	for c := Cause(0); c < CSR_CAUSES; c++ {
		csr.Set(c)
	}
	if err := csr.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if csr.Bits() != 0 {
		t.Fatalf("expected 0 after reset, got 0x%04X", csr.Bits())
	}
}
