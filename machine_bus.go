// machine_bus.go - System bus for the peripheral core

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
This module implements the bus that routes physical-address accesses to the
memory-mapped peripherals of the system board. Each device registers a
window with MapIO; every access carries an address, a size in bits (8, 16 or
32) and, for writes, a value. The bus looks the address up in a page-keyed
region table and dispatches to the owning Peripheral.

Core Features:

    Page-keyed region table (PAGE_MASK / PAGE_SIZE) so lookup cost does not
    depend on the number of mapped devices.
    Sized reads and writes; accesses outside every window read zero and
    ignore writes.
    Service and Reset fan-out to every mapped device in mapping order.
    SealMappings forbids late mapping once the machine is running.
    A Tracer observes every completed access.

The bus holds no device state and performs no locking: the peripheral core
is single-threaded and the System context serialises access to it.
*/

package main

import (
	"fmt"
	"sync/atomic"
)

const (
	PAGE_SIZE = 0x100
	PAGE_MASK = 0xFFFFFF00
)

// Peripheral is the contract every memory-mapped device presents to the bus.
type Peripheral interface {
	HandleRead(addr uint32, size uint8) uint32
	HandleWrite(addr uint32, size uint8, value uint32)
	// Service advances the device by one host tick.
	Service()
	Reset() error
}

type IORegion struct {
	/*
		IORegion represents a memory-mapped window owned by one device.
		Accesses whose address falls inside [start, end] are dispatched
		to dev.
	*/
	name  string
	start uint32
	end   uint32
	dev   Peripheral
}

type SystemBus struct {
	mapping map[uint32][]*IORegion
	regions []*IORegion

	tracer Tracer

	// Sealed state to prevent I/O mapping after execution has started
	sealed atomic.Bool
}

func NewSystemBus() *SystemBus {
	return &SystemBus{
		mapping: make(map[uint32][]*IORegion),
		tracer:  nopTracer{},
	}
}

// SealMappings marks the region table immutable.
func (bus *SystemBus) SealMappings() {
	bus.sealed.Store(true)
}

// MapIO registers dev for the inclusive address window [start, end].
func (bus *SystemBus) MapIO(name string, start, end uint32, dev Peripheral) {
	if bus.sealed.Load() {
		panic(fmt.Sprintf("MapIO called after execution started (mapping %s $%05X-$%05X)", name, start, end))
	}
	if end < start {
		panic(fmt.Sprintf("MapIO %s: end $%05X before start $%05X", name, end, start))
	}
	for _, r := range bus.regions {
		if start <= r.end && end >= r.start {
			panic(fmt.Sprintf("MapIO %s $%05X-$%05X overlaps %s $%05X-$%05X",
				name, start, end, r.name, r.start, r.end))
		}
	}

	region := &IORegion{name: name, start: start, end: end, dev: dev}
	bus.regions = append(bus.regions, region)

	firstPage := start & PAGE_MASK
	lastPage := end & PAGE_MASK
	for page := firstPage; ; page += PAGE_SIZE {
		bus.mapping[page] = append(bus.mapping[page], region)
		if page == lastPage {
			break
		}
	}

	if t, ok := dev.(traceable); ok {
		t.setTracer(bus.tracer)
	}
}

// SetTracer installs t on the bus and on every traceable device.
func (bus *SystemBus) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	bus.tracer = t
	for _, r := range bus.regions {
		if tr, ok := r.dev.(traceable); ok {
			tr.setTracer(t)
		}
	}
}

func (bus *SystemBus) findIORegion(addr uint32) *IORegion {
	for _, r := range bus.mapping[addr&PAGE_MASK] {
		if addr >= r.start && addr <= r.end {
			return r
		}
	}
	return nil
}

// Read performs a sized read. Unmapped addresses read as zero.
func (bus *SystemBus) Read(addr uint32, size uint8) uint32 {
	r := bus.findIORegion(addr)
	if r == nil {
		return 0
	}
	value := r.dev.HandleRead(addr, size)
	bus.tracer.TraceRead(r.name, addr, size, value)
	return value
}

// Write performs a sized write. Writes to unmapped addresses are dropped.
func (bus *SystemBus) Write(addr uint32, size uint8, value uint32) {
	r := bus.findIORegion(addr)
	if r == nil {
		return
	}
	r.dev.HandleWrite(addr, size, value)
	bus.tracer.TraceWrite(r.name, addr, size, value)
}

func (bus *SystemBus) Read8(addr uint32) uint8 {
	return uint8(bus.Read(addr, ACCESS_8))
}

func (bus *SystemBus) Read16(addr uint32) uint16 {
	return uint16(bus.Read(addr, ACCESS_16))
}

func (bus *SystemBus) Read32(addr uint32) uint32 {
	return bus.Read(addr, ACCESS_32)
}

func (bus *SystemBus) Write8(addr uint32, value uint8) {
	bus.Write(addr, ACCESS_8, uint32(value))
}

func (bus *SystemBus) Write16(addr uint32, value uint16) {
	bus.Write(addr, ACCESS_16, uint32(value))
}

func (bus *SystemBus) Write32(addr uint32, value uint32) {
	bus.Write(addr, ACCESS_32, value)
}

// Service runs one host tick on every mapped device, in mapping order.
func (bus *SystemBus) Service() {
	for _, r := range bus.regions {
		r.dev.Service()
	}
}

// Reset resets every mapped device and returns the first failure.
func (bus *SystemBus) Reset() error {
	for _, r := range bus.regions {
		if err := r.dev.Reset(); err != nil {
			return fmt.Errorf("reset %s: %w", r.name, err)
		}
		bus.tracer.TraceEvent(r.name, TRACE_INIT, "reset")
	}
	return nil
}

// Device returns the peripheral mapped under name.
func (bus *SystemBus) Device(name string) (Peripheral, bool) {
	for _, r := range bus.regions {
		if r.name == name {
			return r.dev, true
		}
	}
	return nil, false
}
