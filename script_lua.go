// script_lua.go - Lua bus exerciser

package main

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ScriptHost runs Lua scripts against a System in place of a CPU. Scripts
// see the bus through read/write functions and drive time with tick().
type ScriptHost struct {
	sys *System
	L   *lua.LState
}

func NewScriptHost(sys *System) *ScriptHost {
	h := &ScriptHost{sys: sys, L: lua.NewState()}
	h.register()
	return h
}

func (h *ScriptHost) Close() {
	h.L.Close()
}

func (h *ScriptHost) RunFile(path string) error {
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func (h *ScriptHost) RunString(src string) error {
	if err := h.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (h *ScriptHost) register() {
	for name, size := range map[string]uint8{"8": ACCESS_8, "16": ACCESS_16, "32": ACCESS_32} {
		h.L.SetGlobal("read"+name, h.L.NewFunction(h.readFn(size)))
		h.L.SetGlobal("write"+name, h.L.NewFunction(h.writeFn(size)))
	}

	funcs := map[string]lua.LGFunction{
		"tick":    h.luaTick,
		"reset":   h.luaReset,
		"csr":     h.luaCSR,
		"type":    h.luaType,
		"output":  h.luaOutput,
		"irq":     h.luaIRQ,
		"ack":     h.luaAck,
		"dma_ack": h.luaDMAAck,
		"dump":    h.luaDump,
	}
	for name, fn := range funcs {
		h.L.SetGlobal(name, h.L.NewFunction(fn))
	}
}

func (h *ScriptHost) readFn(size uint8) lua.LGFunction {
	return func(L *lua.LState) int {
		addr := uint32(L.CheckInt64(1))
		L.Push(lua.LNumber(h.sys.Read(addr, size)))
		return 1
	}
}

func (h *ScriptHost) writeFn(size uint8) lua.LGFunction {
	return func(L *lua.LState) int {
		addr := uint32(L.CheckInt64(1))
		value := uint32(L.CheckInt64(2))
		h.sys.Write(addr, size, value)
		return 0
	}
}

// tick([n]) runs n service rounds, one by default.
func (h *ScriptHost) luaTick(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if n < 0 {
		L.ArgError(1, "tick count must not be negative")
		return 0
	}
	h.sys.Tick(n)
	return 0
}

func (h *ScriptHost) luaReset(L *lua.LState) int {
	if err := h.sys.Reset(); err != nil {
		L.RaiseError("reset: %v", err)
	}
	return 0
}

func (h *ScriptHost) luaCSR(L *lua.LState) int {
	L.Push(lua.LNumber(h.sys.CSRBits()))
	return 1
}

// type(s) queues s as console keyboard input.
func (h *ScriptHost) luaType(L *lua.LState) int {
	h.sys.Console.EnqueueString(L.CheckString(1))
	return 0
}

// output() returns and clears everything the console port transmitted.
func (h *ScriptHost) luaOutput(L *lua.LState) int {
	L.Push(lua.LString(h.sys.Console.DrainOutput()))
	return 1
}

// irq() returns the latched CPU interrupt as vector, priority, or nil.
func (h *ScriptHost) luaIRQ(L *lua.LState) int {
	vector, priority, ok := h.sys.CPU.Pending()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(vector))
	L.Push(lua.LNumber(priority))
	return 2
}

func (h *ScriptHost) luaAck(L *lua.LState) int {
	h.sys.CPU.Acknowledge()
	return 0
}

func (h *ScriptHost) luaDMAAck(L *lua.LState) int {
	h.sys.DRQHandled()
	return 0
}

// dump(name) returns the register view of a device as one string.
func (h *ScriptHost) luaDump(L *lua.LState) int {
	L.Push(lua.LString(strings.Join(h.sys.Dump(L.CheckString(1)), "\n")))
	return 1
}
