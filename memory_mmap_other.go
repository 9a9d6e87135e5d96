//go:build !unix

package dynarray

import "log/slog"

// MmapMemory is unavailable on this platform; Alloc always fails.
type MmapMemory struct {
	Logger *slog.Logger
}

func (m *MmapMemory) Alloc(size uintptr) ([]byte, error) {
	return nil, ErrUnsupported
}

func (m *MmapMemory) Free(data []byte) {}
