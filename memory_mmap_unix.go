//go:build unix

package dynarray

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// MmapMemory hands out anonymous private mappings. Blocks live outside the
// Go heap and are unmapped on Free. Unmap failures are reported to Logger at
// debug level; a nil Logger uses slog.Default().
type MmapMemory struct {
	Logger *slog.Logger
}

func (m *MmapMemory) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *MmapMemory) Alloc(size uintptr) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-sized block", ErrAllocation)
	}

	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrAllocation, size, err)
	}
	return data, nil
}

func (m *MmapMemory) Free(data []byte) {
	if cap(data) == 0 {
		return
	}
	if err := unix.Munmap(data[:cap(data)]); err != nil {
		m.logger().Debug("munmap failed", "size", cap(data), "error", err)
	}
}
