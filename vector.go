package dynarray

import (
	"fmt"
	"iter"
	"math"
)

// Vector is a contiguous, growable array that owns its slot buffer and the
// lifetime of the elements placed in it.
//
// Slots [0, Size()) hold live elements; slots [Size(), Capacity()) are raw
// and never read. Every operation that builds a new buffer finishes building
// it before the old one is touched, so a failed copy, assign or growth
// leaves the vector exactly as it was.
//
// The zero Vector is empty with no buffer and ready to use with the default
// allocator and lifecycle. A Vector is not safe for concurrent mutation.
type Vector[T any] struct {
	allocator Allocator[T]
	lifecycle Lifecycle[T]
	equatable func(a, b T) bool
	slots     []T // len(slots) is the capacity; nil only after a move
	size      int
}

// New creates an empty vector owning a single raw slot.
func New[T any](ops ...Option[T]) (*Vector[T], error) {
	return NewSized[T](0, ops...)
}

// NewSized creates a vector of n default-constructed elements.
// If construction of element k fails, elements [0, k) are destroyed and
// the buffer released before the error is returned.
func NewSized[T any](n int, ops ...Option[T]) (*Vector[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	v := newVector(buildOptions(ops))
	slots, err := v.build(n, "construct", func(_ int, slot *T) error {
		return v.lifecycle.Construct(slot)
	})
	if err != nil {
		return nil, err
	}
	v.slots, v.size = slots, n
	return v, nil
}

// NewFilled creates a vector of n copies of value.
func NewFilled[T any](n int, value T, ops ...Option[T]) (*Vector[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	v := newVector(buildOptions(ops))
	slots, err := v.build(n, "copy", func(_ int, slot *T) error {
		return v.lifecycle.Copy(slot, &value)
	})
	if err != nil {
		return nil, err
	}
	v.slots, v.size = slots, n
	return v, nil
}

// FromSlice creates a vector holding copies of the elements of values, with
// capacity equal to their count. values is never modified, so it may alias
// another vector's All().
func FromSlice[T any](values []T, ops ...Option[T]) (*Vector[T], error) {
	v := newVector(buildOptions(ops))
	slots, err := v.build(len(values), "copy", func(i int, slot *T) error {
		return v.lifecycle.Copy(slot, &values[i])
	})
	if err != nil {
		return nil, err
	}
	v.slots, v.size = slots, len(values)
	return v, nil
}

func newVector[T any](opts options[T]) *Vector[T] {
	return &Vector[T]{
		allocator: opts.allocator,
		lifecycle: opts.lifecycle,
		equatable: opts.equatable,
	}
}

// Clone returns a deep copy sharing v's allocator, lifecycle and equality.
// The copy's capacity equals its size.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	c := &Vector[T]{
		allocator: v.allocator,
		lifecycle: v.lifecycle,
		equatable: v.equatable,
	}
	slots, err := c.build(v.size, "copy", func(i int, slot *T) error {
		return c.lifecycle.Copy(slot, &v.slots[i])
	})
	if err != nil {
		return nil, err
	}
	c.slots, c.size = slots, v.size
	return c, nil
}

// Take moves v's contents into a new vector. v is left empty with no
// buffer; it stays usable and allocates again on the next growth. Never fails.
func (v *Vector[T]) Take() *Vector[T] {
	t := &Vector[T]{
		allocator: v.allocator,
		lifecycle: v.lifecycle,
		equatable: v.equatable,
	}
	t.Swap(v)
	return t
}

// Release destroys all elements in order and returns the buffer to the
// allocator. The vector is left empty with no buffer.
func (v *Vector[T]) Release() {
	if v.slots != nil {
		v.discard(v.slots, v.size)
	}
	v.slots = nil
	v.size = 0
}

// CopyFrom replaces v's contents with copies of other's elements. The new
// buffer is fully built before the old one is destroyed; on failure v is
// unchanged.
func (v *Vector[T]) CopyFrom(other *Vector[T]) error {
	if v == other {
		return nil
	}

	slots, err := v.build(other.size, "copy", func(i int, slot *T) error {
		return v.lifecycle.Copy(slot, &other.slots[i])
	})
	if err != nil {
		return err
	}
	v.Release()
	v.slots, v.size = slots, other.size
	return nil
}

// MoveFrom destroys v's contents and takes over other's. other is left
// empty with no buffer. Never fails.
func (v *Vector[T]) MoveFrom(other *Vector[T]) {
	if v == other {
		return
	}
	v.Release()
	v.Swap(other)
}

// Swap exchanges the entire state of v and other.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.allocator, other.allocator = other.allocator, v.allocator
	v.lifecycle, other.lifecycle = other.lifecycle, v.lifecycle
	v.equatable, other.equatable = other.equatable, v.equatable
	v.slots, other.slots = other.slots, v.slots
	v.size, other.size = other.size, v.size
}

// Size returns the number of live elements.
func (v *Vector[T]) Size() int {
	return v.size
}

// Capacity returns the number of reserved slots.
func (v *Vector[T]) Capacity() int {
	return len(v.slots)
}

// Empty reports whether the vector holds no elements.
func (v *Vector[T]) Empty() bool {
	return v.size == 0
}

// Index returns the element at i without checking it against Size.
// Reading past the live range is undefined.
func (v *Vector[T]) Index(i int) *T {
	return &v.slots[i]
}

// At returns the element at i, or ErrOutOfRange.
func (v *Vector[T]) At(i int) (*T, error) {
	if i < 0 || i >= v.size {
		return nil, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, v.size)
	}
	return &v.slots[i], nil
}

// Back returns the last element. Undefined on an empty vector.
func (v *Vector[T]) Back() *T {
	return &v.slots[v.size-1]
}

// All returns the live elements as a slice aliasing the buffer. Its
// capacity is clipped so appending to it never writes into raw slots.
// The slice is invalidated by any operation that reallocates.
func (v *Vector[T]) All() []T {
	return v.slots[:v.size:v.size]
}

// Range calls fn with each live element in [0, Size()) in order, stopping
// early when fn returns false.
func (v *Vector[T]) Range(fn func(index int, v T) bool) {
	for i := 0; i < v.size; i++ {
		if !fn(i, v.slots[i]) {
			return
		}
	}
}

// Iter yields the same (index, element) pairs as Range for use in a
// range-over-func loop:
//
//	for i, x := range vec.Iter() {
//		...
//	}
func (v *Vector[T]) Iter() iter.Seq2[int, T] {
	return v.Range
}

// PushBack appends a copy of value, growing first when full. If the copy
// fails the size is unchanged; a growth that already happened is kept.
func (v *Vector[T]) PushBack(value T) error {
	return v.place("copy", func(slot *T) error {
		return v.lifecycle.Copy(slot, &value)
	})
}

// EmplaceBack appends an element built in place by build. build receives a
// raw slot and must leave it owning nothing when it fails.
func (v *Vector[T]) EmplaceBack(build func(slot *T) error) error {
	return v.place("emplace", build)
}

// PopBack destroys the last element. Undefined on an empty vector.
func (v *Vector[T]) PopBack() {
	v.size--
	v.destroy(&v.slots[v.size])
}

// Clear destroys all elements, releases the buffer and reserves a single
// fresh slot. If that allocation fails the vector is left empty with no
// buffer and the error is returned.
func (v *Vector[T]) Clear() error {
	v.Release()
	v.lazyInit()
	slots, err := v.allocator.Allocate(1)
	if err != nil {
		return err
	}
	v.slots = slots
	return nil
}

// Assign replaces the contents with n copies of value. Capacity becomes n
// (at least 1). On failure v is unchanged.
func (v *Vector[T]) Assign(n int, value T) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	slots, err := v.build(n, "copy", func(_ int, slot *T) error {
		return v.lifecycle.Copy(slot, &value)
	})
	if err != nil {
		return err
	}
	v.Release()
	v.slots, v.size = slots, n
	return nil
}

// Equal reports whether both vectors have the same size and pairwise equal
// elements.
func (v *Vector[T]) Equal(other *Vector[T]) bool {
	if v == other {
		return true
	}
	if v.size != other.size {
		return false
	}
	eq := v.equatable
	if eq == nil {
		eq = deepEqual[T]
	}
	for i := 0; i < v.size; i++ {
		if !eq(v.slots[i], other.slots[i]) {
			return false
		}
	}
	return true
}

// NotEqual is the negation of Equal.
func (v *Vector[T]) NotEqual(other *Vector[T]) bool {
	return !v.Equal(other)
}

func (v *Vector[T]) place(op string, build func(slot *T) error) error {
	v.lazyInit()
	if v.size == len(v.slots) {
		if err := v.grow(); err != nil {
			return err
		}
	}

	slot := &v.slots[v.size]
	if err := build(slot); err != nil {
		var zero T
		*slot = zero
		return elementError(op, v.size, err)
	}
	v.size++
	return nil
}

// grow doubles the capacity. Elements are relocated when the lifecycle can
// do so without failing; otherwise they are copied and the old buffer stays
// authoritative until every copy succeeded.
func (v *Vector[T]) grow() error {
	v.lazyInit()
	newCap := 1
	if c := len(v.slots); c > 0 {
		if c > math.MaxInt/2 {
			return fmt.Errorf("%w: capacity %d cannot double", ErrAllocation, c)
		}
		newCap = c * 2
	}

	slots, err := v.allocator.Allocate(newCap)
	if err != nil {
		return err
	}

	if r, ok := v.lifecycle.(Relocator[T]); ok {
		for i := 0; i < v.size; i++ {
			r.Relocate(&slots[i], &v.slots[i])
		}
	} else {
		for i := 0; i < v.size; i++ {
			if err := v.lifecycle.Copy(&slots[i], &v.slots[i]); err != nil {
				var zero T
				slots[i] = zero
				v.discard(slots, i)
				return elementError("copy", i, err)
			}
		}
	}

	if v.slots != nil {
		v.discard(v.slots, v.size)
	}
	v.slots = slots
	return nil
}

// build allocates max(n, 1) slots and fills the first n in order. On
// failure at slot i, slots [0, i) are destroyed and the buffer released.
func (v *Vector[T]) build(n int, op string, fill func(i int, slot *T) error) ([]T, error) {
	v.lazyInit()
	slots, err := v.allocator.Allocate(max(n, 1))
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		if err := fill(i, &slots[i]); err != nil {
			var zero T
			slots[i] = zero
			v.discard(slots, i)
			return nil, elementError(op, i, err)
		}
	}
	return slots, nil
}

func (v *Vector[T]) lazyInit() {
	if v.allocator == nil {
		v.allocator = HeapAllocator[T]{}
	}
	if v.lifecycle == nil {
		v.lifecycle = Trivial[T]{}
	}
	if v.equatable == nil {
		v.equatable = deepEqual[T]
	}
}

// discard destroys the first n slots in order and releases the buffer.
func (v *Vector[T]) discard(slots []T, n int) {
	for i := 0; i < n; i++ {
		v.destroy(&slots[i])
	}
	v.allocator.Deallocate(slots)
}

func (v *Vector[T]) destroy(slot *T) {
	var zero T
	v.lifecycle.Destroy(slot)
	*slot = zero
}
