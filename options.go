package dynarray

import "reflect"

// options holds the collaborators a Vector is built with
type options[T any] struct {
	allocator Allocator[T]
	lifecycle Lifecycle[T]
	equatable func(a, b T) bool
}

// Option configures a Vector at construction.
type Option[T any] func(*options[T])

// WithAllocator sets the source of slot storage. Default: HeapAllocator.
func WithAllocator[T any](allocator Allocator[T]) Option[T] {
	return func(o *options[T]) {
		o.allocator = allocator
	}
}

// WithLifecycle sets how elements are constructed, copied and destroyed.
// Default: Trivial.
func WithLifecycle[T any](lifecycle Lifecycle[T]) Option[T] {
	return func(o *options[T]) {
		o.lifecycle = lifecycle
	}
}

// WithEqual sets a custom equality comparison function for element comparison.
// Default: reflect.DeepEqual.
func WithEqual[T any](equatable func(a, b T) bool) Option[T] {
	return func(o *options[T]) {
		o.equatable = equatable
	}
}

func buildOptions[T any](ops []Option[T]) options[T] {
	var opts = options[T]{
		allocator: HeapAllocator[T]{},
		lifecycle: Trivial[T]{},
		equatable: deepEqual[T],
	}
	for _, op := range ops {
		op(&opts)
	}
	return opts
}

func deepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}
