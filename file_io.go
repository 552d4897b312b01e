package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrPathTraversal = errors.New("path escapes image directory")

// ImageStore persists device images (NVRAM, floppy) as flat files in a
// restricted directory on the host.
type ImageStore struct {
	baseDir string
}

// NewImageStore creates a store rooted at baseDir.
func NewImageStore(baseDir string) *ImageStore {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		absBase = baseDir
	}
	return &ImageStore{baseDir: absBase}
}

// sanitizePath ensures the given path is safe and within baseDir.
func (s *ImageStore) sanitizePath(path string) (string, bool) {
	// Reject absolute paths and paths containing ".."
	if filepath.IsAbs(path) || strings.Contains(path, "..") {
		return "", false
	}

	fullPath := filepath.Join(s.baseDir, path)

	// Final check: must be inside baseDir
	rel, err := filepath.Rel(s.baseDir, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	return fullPath, true
}

// Load reads a whole image. A missing file is reported with an error that
// satisfies errors.Is(err, os.ErrNotExist).
func (s *ImageStore) Load(name string) ([]byte, error) {
	fullPath, ok := s.sanitizePath(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", name, err)
	}
	return data, nil
}

// Save writes a whole image, replacing any existing file.
func (s *ImageStore) Save(name string, data []byte) error {
	fullPath, ok := s.sanitizePath(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("save image %s: %w", name, err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save image %s: %w", name, err)
	}
	return nil
}

// PortCapture collects the bytes a serial port transmits into a file.
type PortCapture struct {
	f *os.File
	*bufio.Writer
}

// CreateCapture truncates or creates the named file for port output.
func (s *ImageStore) CreateCapture(name string) (*PortCapture, error) {
	fullPath, ok := s.sanitizePath(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create capture %s: %w", name, err)
	}
	return &PortCapture{f: f, Writer: bufio.NewWriter(f)}, nil
}

func (c *PortCapture) Close() error {
	if err := c.Flush(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}

// LoadNVRAM fills nv from the named image. A missing image leaves the
// fill pattern in place and is not an error.
func (s *ImageStore) LoadNVRAM(name string, nv *NVRAM) error {
	data, err := s.Load(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := nv.Load(data); err != nil {
		return fmt.Errorf("load image %s: %w", name, err)
	}
	return nil
}

func (s *ImageStore) SaveNVRAM(name string, nv *NVRAM) error {
	if nv.Bytes() == nil {
		return ErrNVRAMAlloc
	}
	return s.Save(name, nv.Bytes())
}

// LoadDisk opens the named floppy image.
func (s *ImageStore) LoadDisk(name string, writeProtected bool) (*DiskImage, error) {
	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	disk, err := LoadDiskImage(data, writeProtected)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", name, err)
	}
	return disk, nil
}

// SaveDisk writes the image back if it was modified.
func (s *ImageStore) SaveDisk(name string, disk *DiskImage) error {
	if !disk.Dirty() {
		return nil
	}
	return s.Save(name, disk.Bytes())
}
