//go:build headless

package main

import "errors"

// PasteClipboard is unavailable in headless builds.
func PasteClipboard(console *ConsoleIO) (int, error) {
	return 0, errors.New("clipboard not available in headless build")
}

func init() {
	compiledFeatures = append(compiledFeatures, "clipboard:none")
}
