package dynarray

// Lifecycle places and tears down elements inside raw slots.
//
// Construct and Copy write a new element into slot, which holds no live
// element on entry. When they fail, slot must not be left owning anything.
// Destroy must not fail; after it returns the container zeroes the slot.
type Lifecycle[T any] interface {
	Construct(slot *T) error
	Copy(slot, src *T) error
	Destroy(slot *T)
}

// Relocator is implemented by lifecycles that can move an element into a new
// slot without failing. src stays valid but unspecified and is destroyed
// afterwards. Growth relocates when available and copies otherwise.
type Relocator[T any] interface {
	Relocate(slot, src *T)
}

// Trivial treats elements as plain values.
type Trivial[T any] struct{}

func (Trivial[T]) Construct(slot *T) error {
	var zero T
	*slot = zero
	return nil
}

func (Trivial[T]) Copy(slot, src *T) error {
	*slot = *src
	return nil
}

func (Trivial[T]) Relocate(slot, src *T) {
	var zero T
	*slot = *src
	*src = zero
}

func (Trivial[T]) Destroy(*T) {}

// Funcs builds a Lifecycle out of plain functions. Nil fields behave like
// Trivial. Funcs never relocates; use WithRelocate to add a relocation hook.
type Funcs[T any] struct {
	ConstructFunc func(slot *T) error
	CopyFunc      func(slot, src *T) error
	DestroyFunc   func(slot *T)
}

func (f Funcs[T]) Construct(slot *T) error {
	if f.ConstructFunc == nil {
		return Trivial[T]{}.Construct(slot)
	}
	return f.ConstructFunc(slot)
}

func (f Funcs[T]) Copy(slot, src *T) error {
	if f.CopyFunc == nil {
		return Trivial[T]{}.Copy(slot, src)
	}
	return f.CopyFunc(slot, src)
}

func (f Funcs[T]) Destroy(slot *T) {
	if f.DestroyFunc != nil {
		f.DestroyFunc(slot)
	}
}

type relocating[T any] struct {
	Lifecycle[T]
	relocate func(slot, src *T)
}

func (r relocating[T]) Relocate(slot, src *T) {
	r.relocate(slot, src)
}

// WithRelocate returns l extended with a relocation hook that must never fail.
func WithRelocate[T any](l Lifecycle[T], relocate func(slot, src *T)) Lifecycle[T] {
	return relocating[T]{Lifecycle: l, relocate: relocate}
}

var (
	_ Lifecycle[int] = Trivial[int]{}
	_ Relocator[int] = Trivial[int]{}
	_ Lifecycle[int] = Funcs[int]{}
	_ Relocator[int] = relocating[int]{}
)
