package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func newTestScriptHost(t *testing.T) (*ScriptHost, *System) {
	t.Helper()
	sys := newTestSystem(t)
	h := NewScriptHost(sys)
	t.Cleanup(h.Close)
	return h, sys
}

func TestScriptHost_BusAccess(t *testing.T) {
	h, sys := newTestScriptHost(t)
	src := `
		write32(0x43000, 0xCAFEBABE)
		result = read16(0x43002)
		write8(0x44013, 0)
		led = read8(0x4400A)
	`
	if err := h.RunString(src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := lua.LVAsNumber(h.L.GetGlobal("result")); got != 0xBABE {
		t.Fatalf("expected 0xBABE, got 0x%X", uint32(got))
	}
	if got := lua.LVAsNumber(h.L.GetGlobal("led")); got != 1 {
		t.Fatalf("expected LED bit 1, got %v", got)
	}
	if !sys.CSR.Test(CSR_LED) {
		t.Fatalf("expected LED set in CSR")
	}
}

func TestScriptHost_ConsoleLoop(t *testing.T) {
	h, _ := newTestScriptHost(t)
	src := `
		write8(0x49002, 0x05) -- enable rx and tx on port A
		type("a")
		tick()
		local c = read16(0x49003) % 256
		write8(0x49003, c)
		echoed = output()
		vector = irq()
	`
	if err := h.RunString(src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := lua.LVAsString(h.L.GetGlobal("echoed")); got != "a" {
		t.Fatalf("expected echo \"a\", got %q", got)
	}
	if h.L.GetGlobal("vector") != lua.LNil {
		t.Fatalf("expected no CPU request with an empty mask")
	}
}

func TestScriptHost_IRQAndAck(t *testing.T) {
	h, _ := newTestScriptHost(t)
	src := `
		write8(0x49005, 0x01)
		write8(0x49002, 0x04)
		v, p = irq()
		ack()
		after = irq()
	`
	if err := h.RunString(src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lua.LVAsNumber(h.L.GetGlobal("v")) != UART_IRQ_VECTOR {
		t.Fatalf("expected vector %d, got %v", UART_IRQ_VECTOR, h.L.GetGlobal("v"))
	}
	if h.L.GetGlobal("after") != lua.LNil {
		t.Fatalf("expected ack to clear the request")
	}
}

func TestScriptHost_FloppyWithDMAAck(t *testing.T) {
	h, sys := newTestScriptHost(t)
	_ = sys.Floppy.Disk().WriteSector(0, 0, 1, sectorPattern(0x30))
	src := `
		write8(0x4D002, 1)
		write8(0x4D000, 0x80)
		tick()
		first = read8(0x4D003)
		dma_ack()
		tick()
		second = read8(0x4D003)
		view = dump("if")
	`
	if err := h.RunString(src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lua.LVAsNumber(h.L.GetGlobal("first")) != 0x30 {
		t.Fatalf("expected first byte 0x30, got %v", h.L.GetGlobal("first"))
	}
	if lua.LVAsNumber(h.L.GetGlobal("second")) != 0x32 {
		t.Fatalf("expected third byte 0x32 after a DMA acknowledge, got %v", h.L.GetGlobal("second"))
	}
	if !strings.Contains(lua.LVAsString(h.L.GetGlobal("view")), "TMS2797") {
		t.Fatalf("expected floppy register view")
	}
}

func TestScriptHost_ErrorsAreWrapped(t *testing.T) {
	h, _ := newTestScriptHost(t)
	if err := h.RunString(`tick(-1)`); err == nil {
		t.Fatalf("expected error for a negative tick count")
	}

	path := filepath.Join(t.TempDir(), "bad.lua")
	if err := os.WriteFile(path, []byte("this is not lua"), 0644); err != nil {
		t.Fatal(err)
	}
	err := h.RunFile(path)
	if err == nil || !strings.Contains(err.Error(), "bad.lua") {
		t.Fatalf("expected error naming the script, got %v", err)
	}
}

func TestScriptHost_ResetAndCSR(t *testing.T) {
	h, _ := newTestScriptHost(t)
	src := `
		write8(0x4401B, 0)
		before = csr()
		reset()
		after = csr()
	`
	if err := h.RunString(src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lua.LVAsNumber(h.L.GetGlobal("before")) != 1<<CSR_FLOP {
		t.Fatalf("expected FLOP bit, got %v", h.L.GetGlobal("before"))
	}
	if lua.LVAsNumber(h.L.GetGlobal("after")) != 0 {
		t.Fatalf("expected empty CSR after reset, got %v", h.L.GetGlobal("after"))
	}
}
