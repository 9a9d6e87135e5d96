// Package dynarray provides Vector, a contiguous growable array with
// explicit control over where its slots come from and how elements are
// constructed, copied and destroyed inside them.
//
// # Storage
//
// A Vector owns one buffer of Capacity() slots obtained from an Allocator.
// The first Size() slots hold live elements; the rest are raw. Capacity
// doubles whenever an append finds the buffer full. HeapAllocator (the
// default) works for any element type. MemoryAllocator carves slots out of a
// raw Memory source such as HeapMemory, Pool or MmapMemory and is limited to
// pointer-free element types. LimitedAllocator puts a byte budget in front of
// any allocator.
//
// # Failure
//
// Element construction is delegated to a Lifecycle and may fail. Operations
// that build a new buffer (NewSized, NewFilled, FromSlice, Clone, CopyFrom,
// Assign and growth) destroy whatever they already built and release the
// new buffer before returning the error, leaving an existing vector exactly
// as it was:
//
//	if err := vec.PushBack(x); err != nil {
//		// vec still holds its previous elements
//	}
//
// Element failures are reported as *ElementError; allocation failures wrap
// ErrAllocation.
//
// # Ownership
//
// Take, MoveFrom and Swap transfer buffers without allocating and never
// fail. A moved-from vector is empty with no buffer and allocates again on
// its next append.
package dynarray
