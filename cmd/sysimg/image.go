package main

import (
	"encoding/hex"
	"fmt"
	"os"
)

const (
	nvramSize = 0x1000
	nvramFill = 0x5A

	floppySize = 2 * 80 * 4608
	floppyFill = 0xE5
)

func blankImage(size int, fill byte) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	return data
}

// writeImage refuses to overwrite an existing file.
func writeImage(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func describeImage(size int) string {
	switch size {
	case nvramSize:
		return "NVRAM image"
	case floppySize:
		return "floppy image (2 sides, 80 tracks, 9 x 512 byte sectors)"
	}
	return fmt.Sprintf("unknown image (%d bytes)", size)
}

// dumpImage hex dumps the first limit bytes of data, or all of it when
// limit is 0 or larger than data.
func dumpImage(data []byte, limit int) string {
	if limit > 0 && limit < len(data) {
		data = data[:limit]
	}
	return hex.Dump(data)
}
