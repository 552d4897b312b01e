package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseTraceMask(t *testing.T) {
	tests := []struct {
		in   string
		want TraceMask
		err  bool
	}{
		{"", 0, false},
		{"read", TRACE_READ, false},
		{"read, WRITE", TRACE_READ | TRACE_WRITE, false},
		{"all", TRACE_ALL, false},
		{"init,,execute", TRACE_INIT | TRACE_EXECUTE, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTraceMask(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("%q: expected error=%v, got %v", tt.in, tt.err, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected mask %04b, got %04b", tt.in, tt.want, got)
		}
	}
}

func TestTextTracer_Mask(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTextTracer(&buf, TRACE_WRITE|TRACE_EXECUTE)

	tr.TraceRead("UART", UART_BASE, ACCESS_8, 1)
	tr.TraceWrite("UART", UART_BASE+2, ACCESS_8, 5)
	tr.TraceEvent("NVRAM", TRACE_INIT, "allocated %d bytes", 16)
	tr.TraceEvent("IF", TRACE_EXECUTE, "command %02X", 0x80)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"[UART] WRITE 8 @ 00049002 = 00000005",
		"[IF] command 80",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}
