//go:build !headless

// console_paste.go - Host clipboard paste into the system console

package main

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// PasteClipboard queues the host clipboard's text as console input.
func PasteClipboard(console *ConsoleIO) (int, error) {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	if clipboardErr != nil {
		return 0, clipboardErr
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return 0, errors.New("clipboard holds no text")
	}
	return console.PasteText(data), nil
}

func init() {
	compiledFeatures = append(compiledFeatures, "clipboard:native")
}
