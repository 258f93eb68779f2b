package workload

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateFileSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
	}{
		{name: "aligned", size: 64 * 1024},
		{name: "partial final chunk", size: 10000},
		{name: "smaller than one chunk", size: 100},
		{name: "empty", size: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data")

			if err := CreateFile(path, tt.size); err != nil {
				t.Fatalf("CreateFile failed: %v", err)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat failed: %v", err)
			}

			if info.Size() != tt.size {
				t.Errorf("size = %d, want %d", info.Size(), tt.size)
			}
		})
	}
}

func TestCreateFileContentDeterministic(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a")
	pathB := filepath.Join(dir, "b")

	if err := CreateFile(pathA, 10000); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if err := CreateFile(pathB, 10000); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	a, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("two files from the same parameters differ")
	}

	for i, c := range a {
		if c != byte(i%fillChunk) {
			t.Fatalf("byte %d = %d, want %d", i, c, byte(i%fillChunk))
		}
	}
}

func TestCreateFileTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")

	if err := CreateFile(path, 8192); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if err := CreateFile(path, 4096); err != nil {
		t.Fatalf("second CreateFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}

	if info.Size() != 4096 {
		t.Errorf("size = %d, want 4096", info.Size())
	}
}

func TestCreateFileBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "data")
	if err := CreateFile(path, 4096); err == nil {
		t.Error("expected error for unreachable path")
	}
}

func TestMapAnonymous(t *testing.T) {
	size := 4 * os.Getpagesize()

	mem, err := MapAnonymous(size)
	if err != nil {
		t.Fatalf("MapAnonymous failed: %v", err)
	}

	if len(mem) != size {
		t.Errorf("len = %d, want %d", len(mem), size)
	}

	// Fresh anonymous pages must read as zero and accept writes.
	if mem[0] != 0 || mem[size-1] != 0 {
		t.Error("mapping not zero-initialized")
	}

	mem[0] = 1
	mem[size-1] = 1

	if err := Unmap(mem); err != nil {
		t.Errorf("Unmap failed: %v", err)
	}
}

func TestMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := CreateFile(path, 8192); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	m, err := MapFile(f)
	if err != nil {
		t.Fatalf("MapFile failed: %v", err)
	}

	if len(m) != 8192 {
		t.Errorf("len = %d, want 8192", len(m))
	}

	if m[1] != 1 {
		t.Errorf("mapped byte 1 = %d, want 1", m[1])
	}

	if err := m.Unmap(); err != nil {
		t.Errorf("Unmap failed: %v", err)
	}
}

func TestDropCachesDoesNotPanic(t *testing.T) {
	// Unprivileged environments report false; either way the call
	// must return rather than fail.
	_ = DropCaches()
}
