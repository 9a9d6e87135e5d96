package dynarray

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMemory records traffic to the backing source.
type countingMemory struct {
	allocs int
	frees  int
}

func (c *countingMemory) Alloc(size uintptr) ([]byte, error) {
	c.allocs++
	return HeapMemory{}.Alloc(size)
}

func (c *countingMemory) Free([]byte) {
	c.frees++
}

func TestHeapMemory(t *testing.T) {
	m, err := HeapMemory{}.Alloc(16)
	require.NoError(t, err)
	assert.Len(t, m, 16)

	_, err = HeapMemory{}.Alloc(0)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestPool_Reuse(t *testing.T) {
	backing := &countingMemory{}
	pool := NewPool(WithMemory(backing))

	a, err := pool.Alloc(64)
	require.NoError(t, err)
	pool.Free(a)

	b, err := pool.Alloc(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
	assert.Equal(t, 64, cap(b))
	assert.Equal(t, &a[0], &b[0])
	assert.Equal(t, 1, backing.allocs)

	stats := pool.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 0, stats.Pooled)
}

func TestPool_BestFit(t *testing.T) {
	pool := NewPool()

	large, err := pool.Alloc(256)
	require.NoError(t, err)
	medium, err := pool.Alloc(96)
	require.NoError(t, err)
	small, err := pool.Alloc(16)
	require.NoError(t, err)

	pool.Free(large)
	pool.Free(medium)
	pool.Free(small)

	m, err := pool.Alloc(80)
	require.NoError(t, err)
	assert.Equal(t, 96, cap(m))

	m, err = pool.Alloc(512)
	require.NoError(t, err)
	assert.Equal(t, 512, cap(m))
	assert.Equal(t, 2, pool.Stats().Pooled)
}

func TestPool_SizeLimit(t *testing.T) {
	backing := &countingMemory{}
	pool := NewPool(WithMemory(backing), WithPoolSize(2))

	var blocks [][]byte
	for i := 0; i < 4; i++ {
		m, err := pool.Alloc(32)
		require.NoError(t, err)
		blocks = append(blocks, m)
	}
	for _, m := range blocks {
		pool.Free(m)
	}
	assert.Equal(t, 2, pool.Stats().Pooled)
	assert.Equal(t, 2, backing.frees)

	pool.Reset()
	assert.Equal(t, 0, pool.Stats().Pooled)
	assert.Equal(t, 4, backing.frees)
}

func TestPool_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pool := NewPool(WithPoolLogger(logger), WithPoolSize(0))

	m, err := pool.Alloc(8)
	require.NoError(t, err)
	pool.Free(m)

	assert.Contains(t, buf.String(), "pool full")
}

func TestPool_Concurrent(t *testing.T) {
	pool := NewPool(WithEnableLock(true), WithPoolSize(8))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alloc, err := NewMemoryAllocator[int64](pool)
			if !assert.NoError(t, err) {
				return
			}
			vec, err := New(WithAllocator[int64](alloc))
			if !assert.NoError(t, err) {
				return
			}
			for i := int64(0); i < 200; i++ {
				if !assert.NoError(t, vec.PushBack(i)) {
					return
				}
			}
			for i := 0; i < vec.Size(); i++ {
				assert.Equal(t, int64(i), *vec.Index(i))
			}
			vec.Release()
			assert.Equal(t, 0, alloc.Outstanding())
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, pool.Stats().Pooled, 8)
}

func TestPool_VectorReuse(t *testing.T) {
	pool := NewPool()
	alloc, err := NewMemoryAllocator[uint64](pool)
	require.NoError(t, err)

	vec, err := NewSized(100, WithAllocator[uint64](alloc))
	require.NoError(t, err)
	misses := pool.Stats().Misses

	// Assign and Clear cycle through blocks the pool already holds
	for round := 0; round < 5; round++ {
		require.NoError(t, vec.Assign(100, uint64(round)))
		require.NoError(t, vec.Clear())
	}
	assert.Equal(t, misses+1, pool.Stats().Misses)
	assert.Greater(t, pool.Stats().Hits, 0)
}
