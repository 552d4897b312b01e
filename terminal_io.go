package main

import "sync"

// ConsoleIO is the external character source and sink behind the UART's
// console port. Host adapters (TerminalHost, PasteClipboard, scripts and
// tests) push keystrokes with EnqueueByte; the UART drains them one per
// service tick with PollByte. Transmitted bytes land in an output buffer
// unless an output callback is installed.
type ConsoleIO struct {
	mu sync.Mutex

	// Input ring buffer
	inputBuf  [1024]byte
	inputHead int // next read position
	inputTail int // next write position
	inputLen  int

	outputBuf []byte

	// onCharOutput, when set, receives transmitted bytes immediately.
	// It is invoked outside mu.
	onCharOutput func(byte)
}

func NewConsoleIO() *ConsoleIO {
	return &ConsoleIO{
		outputBuf: make([]byte, 0, 256),
	}
}

// SetCharOutputCallback registers a callback for transmitted bytes.
// When set, bytes go to fn and are not buffered.
func (c *ConsoleIO) SetCharOutputCallback(fn func(byte)) {
	c.mu.Lock()
	c.onCharOutput = fn
	c.mu.Unlock()
}

// EnqueueByte adds a byte to the input ring. Bytes are dropped when the
// ring is full.
func (c *ConsoleIO) EnqueueByte(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inputLen >= len(c.inputBuf) {
		return
	}
	c.inputBuf[c.inputTail] = b
	c.inputTail = (c.inputTail + 1) % len(c.inputBuf)
	c.inputLen++
}

// EnqueueString queues every byte of s.
func (c *ConsoleIO) EnqueueString(s string) {
	for i := 0; i < len(s); i++ {
		c.EnqueueByte(s[i])
	}
}

// PollByte removes and returns the oldest pending input byte.
func (c *ConsoleIO) PollByte() (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inputLen == 0 {
		return 0, false
	}
	b := c.inputBuf[c.inputHead]
	c.inputHead = (c.inputHead + 1) % len(c.inputBuf)
	c.inputLen--
	return b, true
}

func (c *ConsoleIO) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputLen
}

// WriteByte delivers one transmitted byte.
func (c *ConsoleIO) WriteByte(b byte) error {
	c.mu.Lock()
	fn := c.onCharOutput
	if fn == nil {
		c.outputBuf = append(c.outputBuf, b)
	}
	c.mu.Unlock()

	if fn != nil {
		fn(b)
	}
	return nil
}

// DrainOutput returns and clears the accumulated output buffer.
func (c *ConsoleIO) DrainOutput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := string(c.outputBuf)
	c.outputBuf = c.outputBuf[:0]
	return s
}

// CONSOLE_ESCAPE (Ctrl-]) ends an interactive session instead of reaching
// the UART.
const CONSOLE_ESCAPE = 0x1D

// translateHostKey maps host keyboard conventions onto what the system
// console expects: raw mode sends CR for Enter, which is passed through,
// and modern terminals send DEL for Backspace, which becomes BS.
func translateHostKey(b byte) byte {
	if b == 0x7F {
		return 0x08
	}
	return b
}

// PASTE_LIMIT caps how much clipboard text one paste may queue.
const PASTE_LIMIT = 4096

// normalizePasteText turns every host line ending into the CR the console
// sends for Enter.
func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\r')
		case '\n':
			norm = append(norm, '\r')
		default:
			norm = append(norm, raw[i])
		}
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

// PasteText queues normalized text as console input and returns the
// number of bytes queued.
func (c *ConsoleIO) PasteText(raw []byte) int {
	data := capPasteText(normalizePasteText(raw), PASTE_LIMIT)
	for _, b := range data {
		c.EnqueueByte(b)
	}
	return len(data)
}
