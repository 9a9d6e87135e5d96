package dynarray

import (
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sync/semaphore"
)

// Allocator provides typed slot storage for a Vector. Allocate returns
// exactly n slots (n >= 1); their contents are raw and will be written
// before being read. Deallocate receives a slice previously returned by
// Allocate, unchanged in length.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Deallocate(slots []T)
}

// HeapAllocator allocates slots on the Go heap. It works for any T.
type HeapAllocator[T any] struct{}

func (HeapAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d slots", ErrInvalidLength, n)
	}
	if uintptr(n) > math.MaxInt/max(1, Sizeof[T]()) {
		return nil, fmt.Errorf("%w: %d slots overflow", ErrAllocation, n)
	}
	return make([]T, n), nil
}

func (HeapAllocator[T]) Deallocate(slots []T) {
	clear(slots)
}

// MemoryAllocator carves aligned slots out of raw blocks obtained from a
// Memory. The GC does not scan those blocks, so T must be free of pointers.
// A MemoryAllocator is not safe for concurrent use.
type MemoryAllocator[T any] struct {
	memory Memory
	blocks map[uintptr][]byte
}

// NewMemoryAllocator returns an allocator over memory, or ErrPointerType if
// T holds pointers.
func NewMemoryAllocator[T any](memory Memory) (*MemoryAllocator[T], error) {
	if t := reflect.TypeFor[T](); hasPointers(t) {
		return nil, fmt.Errorf("%w: %s", ErrPointerType, t)
	}
	return &MemoryAllocator[T]{
		memory: memory,
		blocks: make(map[uintptr][]byte, 4),
	}, nil
}

// Allocate returns n slots aligned to T's alignment.
func (a *MemoryAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d slots", ErrInvalidLength, n)
	}

	elemSize := Sizeof[T]()
	align := Alignof[T]()
	if elemSize > 0 && uintptr(n) > (math.MaxInt-align)/elemSize {
		return nil, fmt.Errorf("%w: %d slots overflow", ErrAllocation, n)
	}

	// over-allocate so the first slot can be shifted onto an aligned address
	raw, err := a.memory.Alloc(elemSize*uintptr(n) + align)
	if err != nil {
		return nil, fmt.Errorf("%w: %d slots: %w", ErrAllocation, n, err)
	}

	base := unsafe.Pointer(unsafe.SliceData(raw))
	offset := (align - uintptr(base)&(align-1)) & (align - 1)
	ptr := unsafe.Add(base, offset)
	a.blocks[uintptr(ptr)] = raw
	return unsafe.Slice((*T)(ptr), n), nil
}

// Deallocate returns the block behind slots to the memory source.
// Panics if slots were not allocated by a.
func (a *MemoryAllocator[T]) Deallocate(slots []T) {
	key := uintptr(unsafe.Pointer(unsafe.SliceData(slots)))
	raw, ok := a.blocks[key]
	if !ok {
		panic(fmt.Errorf("slots not allocated by this allocator: %#x", key))
	}
	delete(a.blocks, key)
	a.memory.Free(raw)
}

// Outstanding reports the number of blocks handed out and not yet returned.
func (a *MemoryAllocator[T]) Outstanding() int {
	return len(a.blocks)
}

// LimitedAllocator caps the bytes held by everything allocated through it.
type LimitedAllocator[T any] struct {
	next  Allocator[T]
	sem   *semaphore.Weighted
	limit int64
	used  atomic.Int64
}

// NewLimitedAllocator wraps next with a budget of limitBytes.
func NewLimitedAllocator[T any](next Allocator[T], limitBytes int64) *LimitedAllocator[T] {
	return &LimitedAllocator[T]{
		next:  next,
		sem:   semaphore.NewWeighted(limitBytes),
		limit: limitBytes,
	}
}

// Allocate reserves budget for n slots and forwards to the wrapped allocator.
// It never blocks; an exhausted budget fails immediately.
func (a *LimitedAllocator[T]) Allocate(n int) ([]T, error) {
	bytes := int64(n) * int64(Sizeof[T]())
	if !a.sem.TryAcquire(bytes) {
		return nil, fmt.Errorf("%w: %w: %d bytes requested, %d of %d in use",
			ErrAllocation, ErrBudgetExceeded, bytes, a.used.Load(), a.limit)
	}

	slots, err := a.next.Allocate(n)
	if err != nil {
		a.sem.Release(bytes)
		return nil, err
	}
	a.used.Add(bytes)
	return slots, nil
}

func (a *LimitedAllocator[T]) Deallocate(slots []T) {
	bytes := int64(len(slots)) * int64(Sizeof[T]())
	a.next.Deallocate(slots)
	a.used.Add(-bytes)
	a.sem.Release(bytes)
}

// Used reports the bytes currently held.
func (a *LimitedAllocator[T]) Used() int64 {
	return a.used.Load()
}

// Sizeof returns the size in bytes of one T slot.
func Sizeof[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Alignof returns the required alignment of a T slot.
func Alignof[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

var (
	_ Allocator[int] = HeapAllocator[int]{}
	_ Allocator[int] = (*MemoryAllocator[int])(nil)
	_ Allocator[int] = (*LimitedAllocator[int])(nil)
)
