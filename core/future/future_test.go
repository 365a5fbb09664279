// File: core/future/future_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package future

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestReadyAndFailed(t *testing.T) {
	f := Ready(42)
	res, ok := f.TryGet()
	if !ok || res.Err != nil || res.Value != 42 {
		t.Fatalf("Ready: got %+v (ok=%v)", res, ok)
	}

	boom := errors.New("boom")
	g := Failed[int](boom)
	res, ok = g.TryGet()
	if !ok || !errors.Is(res.Err, boom) {
		t.Fatalf("Failed: got %+v (ok=%v)", res, ok)
	}
}

func TestTryGetPending(t *testing.T) {
	p := NewPromise[string]()
	if _, ok := p.Future().TryGet(); ok {
		t.Fatal("TryGet on pending future should report not settled")
	}
}

func TestOnCompleteInlineWhenSettled(t *testing.T) {
	ran := false
	Ready("x").OnComplete(func(v string, err error) {
		if v != "x" || err != nil {
			t.Errorf("unexpected continuation args: %q, %v", v, err)
		}
		ran = true
	})
	if !ran {
		t.Fatal("continuation on settled future must run inline")
	}
}

func TestOnCompleteOrder(t *testing.T) {
	p := NewPromise[int]()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		p.Future().OnComplete(func(int, error) { order = append(order, i) })
	}
	p.Resolve(7)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("continuations ran out of registration order: %v", order)
	}
}

func TestAwaitAcrossGoroutines(t *testing.T) {
	p := NewPromise[int]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Resolve(99)
	}()
	v, err := p.Future().Await(context.Background())
	if err != nil || v != 99 {
		t.Fatalf("Await: got %d, %v", v, err)
	}
	// Await after settle returns immediately.
	v, err = p.Future().Await(context.Background())
	if err != nil || v != 99 {
		t.Fatalf("second Await: got %d, %v", v, err)
	}
}

func TestAwaitContextCancel(t *testing.T) {
	p := NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Future().Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestDoubleSettlePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("second settle should panic")
		}
	}()
	p := NewPromise[int]()
	p.Resolve(1)
	p.Resolve(2)
}

func TestThen(t *testing.T) {
	f := Then(Ready(21), func(v int) (int, error) { return v * 2, nil })
	if res, ok := f.TryGet(); !ok || res.Value != 42 || res.Err != nil {
		t.Fatalf("Then: got %+v (ok=%v)", res, ok)
	}

	boom := errors.New("boom")
	g := Then(Failed[int](boom), func(v int) (int, error) {
		t.Error("fn must not run on failed input")
		return 0, nil
	})
	if res, ok := g.TryGet(); !ok || !errors.Is(res.Err, boom) {
		t.Fatalf("Then failure: got %+v (ok=%v)", res, ok)
	}

	h := Then(Ready(1), func(int) (int, error) { return 0, boom })
	if res, ok := h.TryGet(); !ok || !errors.Is(res.Err, boom) {
		t.Fatalf("Then fn error: got %+v (ok=%v)", res, ok)
	}
}

func TestThenFuture(t *testing.T) {
	p := NewPromise[int]()
	f := ThenFuture(Ready(5), func(v int) *Future[string] {
		return Then(p.Future(), func(w int) (string, error) {
			return fmt.Sprintf("%d+%d", v, w), nil
		})
	})
	if _, ok := f.TryGet(); ok {
		t.Fatal("chained future settled before its input")
	}
	p.Resolve(6)
	if res, ok := f.TryGet(); !ok || res.Value != "5+6" {
		t.Fatalf("ThenFuture: got %+v (ok=%v)", res, ok)
	}
}

func foldSource[M any](fs []*Future[M]) func() (*Future[M], bool) {
	i := 0
	return func() (*Future[M], bool) {
		if i >= len(fs) {
			return nil, false
		}
		f := fs[i]
		i++
		return f, true
	}
}

func TestFoldAllReady(t *testing.T) {
	src := foldSource([]*Future[int]{Ready(1), Ready(2), Ready(3)})
	f := Fold(src, func(acc, v int) (int, error) { return acc + v, nil }, 10)
	if res, ok := f.TryGet(); !ok || res.Value != 16 || res.Err != nil {
		t.Fatalf("Fold: got %+v (ok=%v)", res, ok)
	}
}

func TestFoldEmpty(t *testing.T) {
	src := foldSource[int](nil)
	f := Fold(src, func(acc, v int) (int, error) { return acc + v, nil }, 5)
	if res, ok := f.TryGet(); !ok || res.Value != 5 {
		t.Fatalf("empty Fold must settle with initial: %+v (ok=%v)", res, ok)
	}
}

func TestFoldLeftToRight(t *testing.T) {
	// Subtraction is not commutative, so order shows in the result.
	src := foldSource([]*Future[int]{Ready(1), Ready(2), Ready(3)})
	f := Fold(src, func(acc, v int) (int, error) { return acc - v, nil }, 0)
	if res, ok := f.TryGet(); !ok || res.Value != -6 {
		t.Fatalf("Fold order: got %+v (ok=%v), want -6", res, ok)
	}
}

func TestFoldSuspendsOnPending(t *testing.T) {
	p := NewPromise[int]()
	src := foldSource([]*Future[int]{Ready(1), p.Future(), Ready(3)})
	var seen []int
	f := Fold(src, func(acc, v int) (int, error) {
		seen = append(seen, v)
		return acc + v, nil
	}, 0)

	if _, ok := f.TryGet(); ok {
		t.Fatal("fold must suspend on the pending element")
	}
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("fold consumed elements past the suspension point: %v", seen)
	}
	p.Resolve(2)
	res, ok := f.TryGet()
	if !ok || res.Value != 6 {
		t.Fatalf("fold after resume: got %+v (ok=%v)", res, ok)
	}
	if len(seen) != 3 || seen[1] != 2 || seen[2] != 3 {
		t.Fatalf("fold resumed out of order: %v", seen)
	}
}

func TestFoldFailFastOnElement(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	src := foldSource([]*Future[int]{Ready(1), Failed[int](boom), Ready(3)})
	f := Fold(src, func(acc, v int) (int, error) {
		calls++
		return acc + v, nil
	}, 0)
	res, ok := f.TryGet()
	if !ok || !errors.Is(res.Err, boom) {
		t.Fatalf("Fold failure: got %+v (ok=%v)", res, ok)
	}
	if calls != 1 {
		t.Fatalf("reduce ran %d times after failure, want 1", calls)
	}
}

func TestFoldFailFastOnReduce(t *testing.T) {
	boom := errors.New("boom")
	consumed := 0
	src := func() (*Future[int], bool) {
		if consumed >= 3 {
			return nil, false
		}
		consumed++
		return Ready(consumed), true
	}
	f := Fold(src, func(acc, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return acc + v, nil
	}, 0)
	res, ok := f.TryGet()
	if !ok || !errors.Is(res.Err, boom) {
		t.Fatalf("Fold reduce failure: got %+v (ok=%v)", res, ok)
	}
	if consumed != 2 {
		t.Fatalf("fold consumed %d elements after reduce failure, want 2", consumed)
	}
}
