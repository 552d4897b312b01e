package main

import (
	"sync"
	"testing"
)

func TestConsoleIO_InputOrder(t *testing.T) {
	c := NewConsoleIO()
	c.EnqueueString("HELLO")
	var result []byte
	for {
		b, ok := c.PollByte()
		if !ok {
			break
		}
		result = append(result, b)
	}
	if string(result) != "HELLO" {
		t.Fatalf("expected %q, got %q", "HELLO", string(result))
	}
}

func TestConsoleIO_RingFull(t *testing.T) {
	c := NewConsoleIO()
	for i := 0; i < 1100; i++ {
		c.EnqueueByte(byte(i))
	}
	if c.Pending() != 1024 {
		t.Fatalf("expected 1024 pending, got %d", c.Pending())
	}
	b, _ := c.PollByte()
	if b != 0 {
		t.Fatalf("expected oldest byte kept, got %d", b)
	}
	c.EnqueueByte(0xEE)
	if c.Pending() != 1024 {
		t.Fatalf("expected ring to wrap, got %d pending", c.Pending())
	}
}

func TestConsoleIO_OutputBufferAndCallback(t *testing.T) {
	c := NewConsoleIO()
	_ = c.WriteByte('A')
	if out := c.DrainOutput(); out != "A" {
		t.Fatalf("expected output 'A', got %q", out)
	}
	if out := c.DrainOutput(); out != "" {
		t.Fatalf("expected drained buffer, got %q", out)
	}

	var got []byte
	c.SetCharOutputCallback(func(b byte) { got = append(got, b) })
	_ = c.WriteByte('B')
	if string(got) != "B" || c.DrainOutput() != "" {
		t.Fatalf("expected callback delivery only, got %q", got)
	}
}

func TestConsoleIO_ConcurrentEnqueue(t *testing.T) {
	c := NewConsoleIO()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.EnqueueByte('x')
			}
		}()
	}
	wg.Wait()
	if c.Pending() != 400 {
		t.Fatalf("expected 400 pending, got %d", c.Pending())
	}
}

func TestConsoleIO_Reset(t *testing.T) {
	c := NewConsoleIO()
	c.EnqueueString("abc")
	_ = c.WriteByte('z')
	c.Reset()
	if c.Pending() != 0 || c.DrainOutput() != "" {
		t.Fatalf("expected empty console after reset")
	}
}

func TestTranslateHostKey(t *testing.T) {
	if translateHostKey(0x7F) != 0x08 {
		t.Fatalf("expected DEL to become BS")
	}
	if translateHostKey('\r') != '\r' || translateHostKey('a') != 'a' {
		t.Fatalf("expected other keys unchanged")
	}
}

func TestNormalizePasteText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a\r\nb", "a\rb"},
		{"a\nb\n", "a\rb\r"},
		{"a\rb", "a\rb"},
		{"\r\n\r\n", "\r\r"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := string(normalizePasteText([]byte(tt.in))); got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestConsoleIO_PasteText(t *testing.T) {
	c := NewConsoleIO()
	if n := c.PasteText([]byte("ls\n")); n != 3 {
		t.Fatalf("expected 3 bytes queued, got %d", n)
	}
	b1, _ := c.PollByte()
	b2, _ := c.PollByte()
	b3, _ := c.PollByte()
	if string([]byte{b1, b2, b3}) != "ls\r" {
		t.Fatalf("expected \"ls\\r\", got %q", []byte{b1, b2, b3})
	}

	big := make([]byte, PASTE_LIMIT+100)
	for i := range big {
		big[i] = 'a'
	}
	c.Reset()
	if n := c.PasteText(big); n != PASTE_LIMIT {
		t.Fatalf("expected paste capped at %d, got %d", PASTE_LIMIT, n)
	}
}

func TestHostKeys_EscapeAndTranslate(t *testing.T) {
	c := NewConsoleIO()
	h := NewTerminalHost(c)
	escaped := 0
	h.OnEscape(func() { escaped++ })

	for _, b := range []byte{'l', 0x7F, CONSOLE_ESCAPE, '\r'} {
		h.handleKey(b)
	}
	if escaped != 1 {
		t.Fatalf("expected one escape, got %d", escaped)
	}
	var got []byte
	for {
		b, ok := c.PollByte()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "l\b\r" {
		t.Fatalf("expected \"l\\b\\r\", got %q", got)
	}
}
