package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInbox_MPSC(t *testing.T) {
	in := NewInbox[int](1024)
	producers := 8
	itemsPerProducer := 10000

	var wg sync.WaitGroup
	var sentSum int64

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				val := pid*itemsPerProducer + i + 1
				for !in.Enqueue(val) {
					runtime.Gosched()
				}
				atomic.AddInt64(&sentSum, int64(val))
			}
		}(p)
	}

	// Single consumer, as in a shard loop.
	total := producers * itemsPerProducer
	var receivedSum int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		received := 0
		for received < total {
			if val, ok := in.Dequeue(); ok {
				receivedSum += int64(val)
				received++
			} else {
				runtime.Gosched()
			}
		}
	}()

	wg.Wait()
	select {
	case <-done:
		if sentSum != receivedSum {
			t.Errorf("Checksum mismatch: sent %d, received %d", sentSum, receivedSum)
		}
	case <-time.After(5 * time.Second):
		t.Error("Timeout waiting for consumer")
	}
}

func TestInbox_FullAndEmpty(t *testing.T) {
	in := NewInbox[int](2)
	if _, ok := in.Dequeue(); ok {
		t.Fatal("Dequeue on empty inbox should fail")
	}
	if !in.Enqueue(1) || !in.Enqueue(2) {
		t.Fatal("Enqueue within capacity should succeed")
	}
	if in.Enqueue(3) {
		t.Fatal("Enqueue on full inbox should fail")
	}
	if v, ok := in.Dequeue(); !ok || v != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", v, ok)
	}
	if !in.Enqueue(3) {
		t.Fatal("Enqueue after Dequeue should succeed")
	}
	if v, ok := in.Dequeue(); !ok || v != 2 {
		t.Fatalf("expected 2, got %d (ok=%v)", v, ok)
	}
	if v, ok := in.Dequeue(); !ok || v != 3 {
		t.Fatalf("expected 3, got %d (ok=%v)", v, ok)
	}
}

func TestInbox_CapacityRounding(t *testing.T) {
	in := NewInbox[int](100)
	if in.Cap() != 128 {
		t.Fatalf("expected capacity 128, got %d", in.Cap())
	}
	if in := NewInbox[int](0); in.Cap() != 2 {
		t.Fatalf("expected minimum capacity 2, got %d", in.Cap())
	}
}
