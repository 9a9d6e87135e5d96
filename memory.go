package dynarray

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/limpo1989/dynarray/internal"
)

// Memory is a source of raw, untyped bytes. Alloc returns a block of at
// least size bytes; Free gives back a block previously returned by Alloc.
// Alternative sources (mmap, cgo, shm) plug in through MemoryAllocator.
type Memory interface {
	Alloc(size uintptr) ([]byte, error)
	Free(m []byte)
}

// HeapMemory hands out Go heap bytes. Free is a no-op; the GC reclaims them.
type HeapMemory struct{}

func (HeapMemory) Alloc(size uintptr) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-sized block", ErrAllocation)
	}
	return make([]byte, size), nil
}

func (HeapMemory) Free([]byte) {}

// poolOptions holds configuration settings for the Pool
type poolOptions struct {
	poolSize int
	locker   sync.Locker
	memory   Memory
	logger   *slog.Logger
}

// PoolOption defines a function type for configuring Pool parameters
type PoolOption func(*poolOptions)

// WithPoolSize configures the maximum number of released blocks retained for reuse.
// Higher values improve reuse at the cost of increased memory retention.
func WithPoolSize(poolSize int) PoolOption {
	return func(o *poolOptions) {
		o.poolSize = poolSize
	}
}

// WithEnableLock guards the pool with a spinlock.
// Required when several vectors on different goroutines share one Pool.
func WithEnableLock(enableLock bool) PoolOption {
	return func(o *poolOptions) {
		if enableLock {
			o.locker = new(internal.SpinLock)
		} else {
			o.locker = nopLocker{}
		}
	}
}

// WithMemory sets the backing source the pool draws fresh blocks from.
// Default: HeapMemory.
func WithMemory(memory Memory) PoolOption {
	return func(o *poolOptions) {
		o.memory = memory
	}
}

// WithPoolLogger sets the logger used for debug events. Default discards.
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(o *poolOptions) {
		o.logger = logger
	}
}

// PoolStats is a snapshot of pool activity.
type PoolStats struct {
	Hits   int // Allocations served from the freelist
	Misses int // Allocations forwarded to the backing memory
	Pooled int // Blocks currently retained
}

// Pool is a Memory that keeps released blocks on a freelist and hands them
// out again best-fit. Vectors that grow and shrink repeatedly stop hitting
// the backing source once their working set is pooled.
type Pool struct {
	locker   sync.Locker
	memory   Memory
	logger   *slog.Logger
	poolSize int
	freelist [][]byte
	hits     int
	misses   int
}

// NewPool creates a new Pool with customizable options.
func NewPool(ops ...PoolOption) *Pool {
	var opts = poolOptions{
		poolSize: 64,
		locker:   nopLocker{},
		memory:   HeapMemory{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, op := range ops {
		op(&opts)
	}

	return &Pool{
		locker:   opts.locker,
		memory:   opts.memory,
		logger:   opts.logger,
		poolSize: opts.poolSize,
	}
}

// Alloc returns a block of size bytes, reusing a pooled block when one is
// large enough. Reused blocks are not cleared.
func (p *Pool) Alloc(size uintptr) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-sized block", ErrAllocation)
	}

	p.locker.Lock()
	defer p.locker.Unlock()

	if m := p.selectBlock(size); nil != m {
		p.hits++
		p.logger.Debug("pool reuse", "size", size, "block", cap(m))
		return m[:size], nil
	}

	m, err := p.memory.Alloc(size)
	if err != nil {
		p.logger.Debug("pool backing alloc failed", "size", size, "error", err)
		return nil, err
	}
	p.misses++
	return m, nil
}

// Free retains m for reuse, or returns it to the backing memory when the
// freelist is full.
func (p *Pool) Free(m []byte) {
	if cap(m) == 0 {
		return
	}

	p.locker.Lock()
	defer p.locker.Unlock()

	m = m[:cap(m)]
	if len(p.freelist) < p.poolSize {
		p.freelist = append(p.freelist, m)
		return
	}
	p.logger.Debug("pool full, releasing block", "block", len(m))
	p.memory.Free(m)
}

// Reset returns every pooled block to the backing memory.
func (p *Pool) Reset() {
	p.locker.Lock()
	defer p.locker.Unlock()

	for i, m := range p.freelist {
		p.memory.Free(m)
		p.freelist[i] = nil
	}
	p.freelist = p.freelist[:0]
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() PoolStats {
	p.locker.Lock()
	defer p.locker.Unlock()

	return PoolStats{Hits: p.hits, Misses: p.misses, Pooled: len(p.freelist)}
}

func (p *Pool) selectBlock(sz uintptr) []byte {
	// the freelist is small, a linear best-fit scan is enough
	var selected []byte
	var idx = -1
	for i, m := range p.freelist {
		if uintptr(len(m)) >= sz && (nil == selected || len(m) < len(selected)) {
			selected = m
			idx = i
		}
	}

	if -1 == idx {
		return nil
	}

	// fast-remove
	var lastIdx = len(p.freelist) - 1
	p.freelist[idx], p.freelist[lastIdx] = p.freelist[lastIdx], p.freelist[idx]
	p.freelist[lastIdx] = nil
	p.freelist = p.freelist[:lastIdx]
	return selected
}

type nopLocker struct{}

func (n nopLocker) Lock() {
}

func (n nopLocker) Unlock() {
}

var (
	_ Memory = HeapMemory{}
	_ Memory = (*Pool)(nil)
	_ Memory = (*MmapMemory)(nil)
)
