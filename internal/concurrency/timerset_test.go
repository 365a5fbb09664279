package concurrency

import "testing"

func TestTimerSet_DeadlineOrder(t *testing.T) {
	ts := NewTimerSet[string]()
	ts.Schedule(300, "late")
	ts.Schedule(100, "early")
	ts.Schedule(200, "middle")

	if when, ok := ts.NextDeadline(); !ok || when != 100 {
		t.Fatalf("NextDeadline: got %d (ok=%v), want 100", when, ok)
	}

	want := []string{"early", "middle", "late"}
	for i, w := range want {
		v, ok := ts.PopDue(1000)
		if !ok || v != w {
			t.Fatalf("PopDue %d: got %q (ok=%v), want %q", i, v, ok, w)
		}
	}
	if _, ok := ts.PopDue(1000); ok {
		t.Fatal("PopDue on empty set should fail")
	}
}

func TestTimerSet_EqualDeadlinesKeepScheduleOrder(t *testing.T) {
	ts := NewTimerSet[int]()
	for i := 0; i < 10; i++ {
		ts.Schedule(42, i)
	}
	for i := 0; i < 10; i++ {
		v, ok := ts.PopDue(42)
		if !ok || v != i {
			t.Fatalf("PopDue: got %d (ok=%v), want %d", v, ok, i)
		}
	}
}

func TestTimerSet_PopDueRespectsNow(t *testing.T) {
	ts := NewTimerSet[string]()
	ts.Schedule(500, "future")
	if _, ok := ts.PopDue(499); ok {
		t.Fatal("PopDue before deadline should not fire")
	}
	if v, ok := ts.PopDue(500); !ok || v != "future" {
		t.Fatalf("PopDue at deadline: got %q (ok=%v)", v, ok)
	}
}

func TestTimerSet_Cancel(t *testing.T) {
	ts := NewTimerSet[string]()
	id := ts.Schedule(100, "victim")
	keep := ts.Schedule(100, "keeper")

	if !ts.Cancel(id) {
		t.Fatal("Cancel of pending timer should succeed")
	}
	if ts.Cancel(id) {
		t.Fatal("second Cancel should report already gone")
	}
	if ts.Len() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", ts.Len())
	}
	v, ok := ts.PopDue(100)
	if !ok || v != "keeper" {
		t.Fatalf("expected keeper to survive, got %q (ok=%v)", v, ok)
	}
	if ts.Cancel(keep) {
		t.Fatal("Cancel after fire should report already gone")
	}
}
