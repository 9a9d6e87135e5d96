package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/limpo1989/dynarray"
)

var (
	count   int
	memory  string
	limit   int64
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dynarray",
		Short:        "exercise the dynarray vector on different memory sources",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "run the copy, move and clear walkthrough",
		RunE:  runDemo,
	}

	growCmd := &cobra.Command{
		Use:   "grow",
		Short: "append elements one by one and trace capacity",
		RunE:  runGrow,
	}
	growCmd.Flags().IntVarP(&count, "count", "n", 100, "elements to append")
	growCmd.Flags().StringVar(&memory, "memory", "heap", "slot memory: heap, pool, mmap or pool-mmap")
	growCmd.Flags().Int64Var(&limit, "limit", 0, "byte budget for slots, 0 disables")

	rootCmd.AddCommand(demoCmd, growCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := dynarray.FromSlice([]int{1, 2, 3})
	if err != nil {
		return err
	}
	b, err := dynarray.New[int]()
	if err != nil {
		return err
	}
	if err := b.CopyFrom(a); err != nil {
		return err
	}
	*a.Index(0) = 99
	fmt.Fprintln(out, "copy:", a.All(), b.All(), "equal:", a.Equal(b))

	c := b.Take()
	fmt.Fprintln(out, "move:", c.All(), "source size:", b.Size())

	for i := 0; i < 5; i++ {
		if err := c.PushBack(i); err != nil {
			return err
		}
	}
	c.PopBack()
	fmt.Fprintln(out, "push/pop:", c.All(), "back:", *c.Back(), "capacity:", c.Capacity())

	if _, err := c.At(100); err != nil {
		fmt.Fprintln(out, "checked access:", err)
	}

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(out, "clear: size", c.Size(), "capacity", c.Capacity())
	return nil
}

func runGrow(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	out := cmd.OutOrStdout()

	alloc, err := newAllocator(logger)
	if err != nil {
		return err
	}

	vec, err := dynarray.New(dynarray.WithAllocator(alloc))
	if err != nil {
		return err
	}
	defer vec.Release()

	fmt.Fprintf(out, "size=%d capacity=%d\n", vec.Size(), vec.Capacity())
	for i := 0; i < count; i++ {
		before := vec.Capacity()
		if err := vec.PushBack(int64(i)); err != nil {
			logger.Error("append failed", "size", vec.Size(), "capacity", vec.Capacity(), "error", err)
			return err
		}
		if vec.Capacity() != before {
			fmt.Fprintf(out, "size=%d capacity=%d\n", vec.Size(), vec.Capacity())
		}
	}
	logger.Debug("grow finished", "memory", memory, "size", vec.Size(), "capacity", vec.Capacity())
	return nil
}

func newAllocator(logger *slog.Logger) (dynarray.Allocator[int64], error) {
	var alloc dynarray.Allocator[int64]

	switch memory {
	case "heap":
		alloc = dynarray.HeapAllocator[int64]{}
	case "pool", "mmap", "pool-mmap":
		var mem dynarray.Memory = dynarray.HeapMemory{}
		if memory != "pool" {
			mem = &dynarray.MmapMemory{Logger: logger}
		}
		if memory != "mmap" {
			mem = dynarray.NewPool(dynarray.WithMemory(mem), dynarray.WithPoolLogger(logger))
		}
		m, err := dynarray.NewMemoryAllocator[int64](mem)
		if err != nil {
			return nil, err
		}
		alloc = m
	default:
		return nil, fmt.Errorf("unknown memory source %q", memory)
	}

	if limit > 0 {
		alloc = dynarray.NewLimitedAllocator(alloc, limit)
	}
	return alloc, nil
}
