package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestImageStore_SanitizePath(t *testing.T) {
	store := NewImageStore(t.TempDir())
	tests := []struct {
		path string
		ok   bool
	}{
		{"nvram.bin", true},
		{"disks/boot.img", true},
		{"../escape.bin", false},
		{"disks/../../escape.bin", false},
		{"/etc/passwd", false},
	}
	for _, tt := range tests {
		if _, ok := store.sanitizePath(tt.path); ok != tt.ok {
			t.Errorf("%q: expected ok=%v, got %v", tt.path, tt.ok, ok)
		}
	}
}

func TestImageStore_RejectsTraversal(t *testing.T) {
	store := NewImageStore(t.TempDir())
	if _, err := store.Load("../x"); !errors.Is(err, ErrPathTraversal) {
		t.Fatalf("expected ErrPathTraversal on load, got %v", err)
	}
	if err := store.Save("../x", []byte{1}); !errors.Is(err, ErrPathTraversal) {
		t.Fatalf("expected ErrPathTraversal on save, got %v", err)
	}
}

func TestImageStore_PortCapture(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)
	capture, err := store.CreateCapture("contty.log")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, b := range []byte("login:") {
		if err := capture.WriteByte(b); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := capture.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "contty.log"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "login:" {
		t.Fatalf("expected %q, got %q", "login:", data)
	}

	if _, err := store.CreateCapture("../contty.log"); !errors.Is(err, ErrPathTraversal) {
		t.Fatalf("expected ErrPathTraversal, got %v", err)
	}
}

func TestImageStore_NVRAMRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)

	nv := newTestNVRAM(t)
	nv.HandleWrite(NVRAM_BASE+0x20, ACCESS_32, 0x01020304)
	if err := store.SaveNVRAM("nvram.bin", nv); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nvram.bin.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected temporary file to be renamed away")
	}

	restored := newTestNVRAM(t)
	if err := store.LoadNVRAM("nvram.bin", restored); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(nv.Bytes(), restored.Bytes()) {
		t.Fatalf("expected restored NVRAM to match")
	}
}

func TestImageStore_MissingNVRAMKeepsFill(t *testing.T) {
	store := NewImageStore(t.TempDir())
	nv := newTestNVRAM(t)
	if err := store.LoadNVRAM("absent.bin", nv); err != nil {
		t.Fatalf("expected missing image to be ignored, got %v", err)
	}
	if nv.Bytes()[0] != NVRAM_FILL {
		t.Fatalf("expected fill pattern, got 0x%02X", nv.Bytes()[0])
	}
	if err := store.SaveNVRAM("x.bin", NewNVRAM(NVRAM_SIZE)); !errors.Is(err, ErrNVRAMAlloc) {
		t.Fatalf("expected ErrNVRAMAlloc for an unallocated store, got %v", err)
	}
}

func TestImageStore_Disk(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)

	if _, err := store.LoadDisk("none.img", false); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "short.img"), []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadDisk("short.img", false); !errors.Is(err, ErrImageSize) {
		t.Fatalf("expected ErrImageSize, got %v", err)
	}

	if err := store.Save("boot.img", NewDiskImage().Bytes()); err != nil {
		t.Fatalf("save: %v", err)
	}
	disk, err := store.LoadDisk("boot.img", false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	before, _ := os.Stat(filepath.Join(dir, "boot.img"))
	if err := store.SaveDisk("boot.img", disk); err != nil {
		t.Fatalf("save clean disk: %v", err)
	}
	after, _ := os.Stat(filepath.Join(dir, "boot.img"))
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("expected clean disk not to be rewritten")
	}

	_ = disk.WriteSector(0, 3, 2, sectorPattern(9))
	if err := store.SaveDisk("boot.img", disk); err != nil {
		t.Fatalf("save dirty disk: %v", err)
	}
	reloaded, err := store.LoadDisk("boot.img", false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	p := make([]byte, IF_SECTOR_SIZE)
	_ = reloaded.ReadSector(0, 3, 2, p)
	if p[0] != 9 {
		t.Fatalf("expected written sector to persist, got 0x%02X", p[0])
	}
}
