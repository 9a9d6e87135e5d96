package dynarray_test

import (
	"errors"
	"fmt"

	"github.com/limpo1989/dynarray"
)

func Example() {
	a, _ := dynarray.FromSlice([]int{1, 2, 3})
	b, _ := dynarray.New[int]()
	_ = b.CopyFrom(a)

	*a.Index(0) = 99
	fmt.Println(b.Equal(a), *b.Index(0))

	for i := 0; i < 5; i++ {
		_ = b.PushBack(i)
	}
	fmt.Println(b.Size(), b.Capacity())
	// Output:
	// false 1
	// 8 12
}

func ExampleVector_At() {
	vec, _ := dynarray.FromSlice([]string{"a", "b"})
	if _, err := vec.At(100); errors.Is(err, dynarray.ErrOutOfRange) {
		fmt.Println(err)
	}
	// Output:
	// dynarray: index out of range: index 100, size 2
}

func ExampleNewLimitedAllocator() {
	alloc := dynarray.NewLimitedAllocator[int64](dynarray.HeapAllocator[int64]{}, 64)
	vec, _ := dynarray.New(dynarray.WithAllocator[int64](alloc))

	var err error
	for i := int64(0); err == nil; i++ {
		err = vec.PushBack(i)
	}
	fmt.Println(vec.Size(), vec.Capacity(), errors.Is(err, dynarray.ErrBudgetExceeded))
	// Output:
	// 4 4 true
}

func ExampleFuncs() {
	live := 0
	life := dynarray.Funcs[string]{
		CopyFunc: func(slot, src *string) error {
			live++
			*slot = *src
			return nil
		},
		DestroyFunc: func(*string) { live-- },
	}

	vec, _ := dynarray.NewFilled(3, "x", dynarray.WithLifecycle[string](life))
	fmt.Println(live)
	_ = vec.Clear()
	fmt.Println(live, vec.Size(), vec.Capacity())
	// Output:
	// 3
	// 0 0 1
}
