// floppy_image.go - Floppy disk image store

package main

import (
	"errors"
	"fmt"
)

var (
	ErrSectorNotFound = errors.New("sector not found")
	ErrWriteProtected = errors.New("disk is write protected")
	ErrImageSize      = errors.New("image has the wrong size")
)

// DiskStore exchanges sectors with the floppy controller. Sectors are
// numbered from 1.
type DiskStore interface {
	ReadSector(side, track, sector uint8, p []byte) error
	WriteSector(side, track, sector uint8, p []byte) error
	WriteProtected() bool
}

// DiskImage is a double-sided 80 track image held in memory. The flat file
// layout is cylinder-major: track 0 side 0, track 0 side 1, track 1 side 0
// and so on, each track holding its sectors in order.
type DiskImage struct {
	data  []byte
	wp    bool
	dirty bool
}

// NewDiskImage returns a blank, formatted image.
func NewDiskImage() *DiskImage {
	data := make([]byte, IF_DSK_SIZE)
	for i := range data {
		data[i] = IF_FILL
	}
	return &DiskImage{data: data}
}

// LoadDiskImage wraps an existing image. The slice is used in place.
func LoadDiskImage(data []byte, writeProtected bool) (*DiskImage, error) {
	if len(data) != IF_DSK_SIZE {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrImageSize, len(data), IF_DSK_SIZE)
	}
	return &DiskImage{data: data, wp: writeProtected}, nil
}

func (d *DiskImage) offset(side, track, sector uint8) (int, error) {
	if side >= IF_SIDES || track >= IF_TRACK_COUNT || sector < 1 || sector > IF_SECTOR_COUNT {
		return 0, fmt.Errorf("%w: side %d track %d sector %d", ErrSectorNotFound, side, track, sector)
	}
	return (int(track)*IF_SIDES+int(side))*IF_TRACK_SIZE + int(sector-1)*IF_SECTOR_SIZE, nil
}

func (d *DiskImage) ReadSector(side, track, sector uint8, p []byte) error {
	off, err := d.offset(side, track, sector)
	if err != nil {
		return err
	}
	copy(p, d.data[off:off+IF_SECTOR_SIZE])
	return nil
}

func (d *DiskImage) WriteSector(side, track, sector uint8, p []byte) error {
	if d.wp {
		return ErrWriteProtected
	}
	off, err := d.offset(side, track, sector)
	if err != nil {
		return err
	}
	copy(d.data[off:off+IF_SECTOR_SIZE], p)
	d.dirty = true
	return nil
}

func (d *DiskImage) WriteProtected() bool {
	return d.wp
}

func (d *DiskImage) SetWriteProtected(wp bool) {
	d.wp = wp
}

// Dirty reports whether any sector was written since the image was loaded.
func (d *DiskImage) Dirty() bool {
	return d.dirty
}

func (d *DiskImage) Bytes() []byte {
	return d.data
}
