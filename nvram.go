// nvram.go - Non-volatile RAM

package main

import (
	"encoding/binary"
	"errors"
)

var ErrNVRAMAlloc = errors.New("nvram: cannot allocate backing store")

// NVRAM is a flat byte array holding the firmware's persistent settings.
// Multi-byte values are big-endian. The backing store is allocated on the
// first Reset and survives later resets, so its contents live for the whole
// session and can be saved through an ImageStore.
type NVRAM struct {
	size int
	data []byte

	trace Tracer
}

func NewNVRAM(size int) *NVRAM {
	return &NVRAM{size: size, trace: nopTracer{}}
}

func (n *NVRAM) setTracer(t Tracer) { n.trace = t }

// span returns the offset of addr and reports whether an access of size
// fits inside the store.
func (n *NVRAM) span(addr uint32, size uint8) (uint32, bool) {
	off := addr - NVRAM_BASE
	end := uint64(off) + uint64(accessBytes(size))
	return off, end <= uint64(len(n.data))
}

func (n *NVRAM) HandleRead(addr uint32, size uint8) uint32 {
	off, ok := n.span(addr, size)
	if !ok {
		return 0
	}
	switch size {
	case ACCESS_16:
		return uint32(binary.BigEndian.Uint16(n.data[off:]))
	case ACCESS_32:
		return binary.BigEndian.Uint32(n.data[off:])
	default:
		return uint32(n.data[off])
	}
}

func (n *NVRAM) HandleWrite(addr uint32, size uint8, value uint32) {
	off, ok := n.span(addr, size)
	if !ok {
		return
	}
	switch size {
	case ACCESS_16:
		binary.BigEndian.PutUint16(n.data[off:], uint16(value))
	case ACCESS_32:
		binary.BigEndian.PutUint32(n.data[off:], value)
	default:
		n.data[off] = uint8(value)
	}
}

func (n *NVRAM) Service() {}

// Bytes exposes the backing store for persistence. It is nil before the
// first Reset.
func (n *NVRAM) Bytes() []byte {
	return n.data
}

// Load copies an image into the store. Short images leave the tail alone;
// long images are an error.
func (n *NVRAM) Load(image []byte) error {
	if n.data == nil {
		return ErrNVRAMAlloc
	}
	if len(image) > len(n.data) {
		return ErrImageSize
	}
	copy(n.data, image)
	n.trace.TraceEvent("NVRAM", TRACE_INIT, "loaded %d bytes", len(image))
	return nil
}
