// terminal_keys.go - Host keystroke routing for the system console

package main

// hostKeys routes raw host keystrokes to the console. The escape key never
// reaches the UART; it ends the interactive session instead.
type hostKeys struct {
	console  *ConsoleIO
	onEscape func()
}

func (k *hostKeys) handle(b byte) {
	if b == CONSOLE_ESCAPE {
		if k.onEscape != nil {
			k.onEscape()
		}
		return
	}
	k.console.EnqueueByte(translateHostKey(b))
}

// OnEscape registers the callback run when the user types Ctrl-]. Raw mode
// swallows Ctrl-C, so this is how an interactive session ends.
func (h *TerminalHost) OnEscape(fn func()) {
	h.keys.onEscape = fn
}

func (h *TerminalHost) handleKey(b byte) {
	h.keys.handle(b)
}
