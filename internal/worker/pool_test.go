package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestForEachRunsEveryIndex(t *testing.T) {
	pool := NewPool(4)

	var calls int64
	errs := pool.ForEach(context.Background(), 50, func(_ context.Context, i int) error {
		atomic.AddInt64(&calls, 1)
		if i%7 == 0 {
			return fmt.Errorf("item %d failed", i)
		}
		return nil
	})

	if calls != 50 {
		t.Fatalf("fn called %d times, want 50", calls)
	}
	for i, err := range errs {
		if i%7 == 0 && err == nil {
			t.Errorf("errs[%d] = nil, want error", i)
		}
		if i%7 != 0 && err != nil {
			t.Errorf("errs[%d] = %v, want nil", i, err)
		}
	}
}

func TestForEachEmptyBatch(t *testing.T) {
	pool := NewPool(2)
	errs := pool.ForEach(context.Background(), 0, func(_ context.Context, _ int) error {
		t.Fatal("fn must not be called")
		return nil
	})
	if len(errs) != 0 {
		t.Fatalf("len(errs) = %d, want 0", len(errs))
	}
}

func TestForEachCancelledContext(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := pool.ForEach(ctx, 3, func(ctx context.Context, _ int) error {
		return ctx.Err()
	})
	for i, err := range errs {
		if err == nil {
			t.Errorf("errs[%d] = nil, want context error", i)
		}
	}
}
