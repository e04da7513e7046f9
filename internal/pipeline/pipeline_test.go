package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapPreservesOrderAndIsolatesFailures(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	var called int32
	results, errs := Map(context.Background(), items, 2, func(_ context.Context, i int, s string) (string, error) {
		atomic.AddInt32(&called, 1)
		// Finish out of order.
		time.Sleep(time.Duration(len(items)-i) * time.Millisecond)
		if i == 1 {
			return "", errors.New("test error")
		}
		if i == 3 {
			panic("boom")
		}
		return strings.ToUpper(s), nil
	})

	if called != int32(len(items)) {
		t.Fatalf("expected %d calls, got %d", len(items), called)
	}
	want := []string{"A", "", "C", "", "E"}
	for i := range want {
		if results[i] != want[i] {
			t.Fatalf("result %d = %q, want %q", i, results[i], want[i])
		}
	}
	if got := len(Errors(errs)); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
	if errs[3] == nil || !strings.Contains(errs[3].Error(), "panicked") {
		t.Fatalf("expected panic to be converted to error, got %v", errs[3])
	}
}

func TestMapEmptyInput(t *testing.T) {
	results, errs := Map(context.Background(), []int(nil), 4, func(context.Context, int, int) (int, error) {
		t.Fatal("fn must not be called")
		return 0, nil
	})
	if len(results) != 0 || len(errs) != 0 {
		t.Fatalf("expected empty slices, got %v %v", results, errs)
	}
}

func TestMapCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 50)
	_, errs := Map(ctx, items, 1, func(ctx context.Context, _ int, _ int) (int, error) {
		return 0, ctx.Err()
	})
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("item %d: expected context.Canceled, got %v", i, err)
		}
	}
}
