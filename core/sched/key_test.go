// File: core/sched/key_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sched

import "testing"

func TestRegisterSlotDenseKeys(t *testing.T) {
	reg := NewRegistry()
	k0 := RegisterSlot[int](reg, nil, nil)
	k1 := RegisterSlot[string](reg, nil, nil)
	k2 := RegisterSlot[float64](reg, nil, nil)

	if k0.Index() != 0 || k1.Index() != 1 || k2.Index() != 2 {
		t.Fatalf("keys not dense: %d, %d, %d", k0.Index(), k1.Index(), k2.Index())
	}
	if reg.NumSlots() != 3 {
		t.Fatalf("NumSlots = %d, want 3", reg.NumSlots())
	}
}

func TestRegisterSlotZeroValueDefault(t *testing.T) {
	reg := NewRegistry()
	RegisterSlot[int](reg, nil, nil)
	cell := reg.slots[0].make()
	p, ok := cell.(*int)
	if !ok || p == nil || *p != 0 {
		t.Fatalf("nil init must produce zero value, got %#v", cell)
	}
}

func TestRegisterSlotCustomInit(t *testing.T) {
	reg := NewRegistry()
	RegisterSlot[int](reg, func() *int { v := 42; return &v }, nil)
	p := reg.slots[0].make().(*int)
	if *p != 42 {
		t.Fatalf("custom init ignored: got %d", *p)
	}
	// Each group gets its own value, not a shared one.
	q := reg.slots[0].make().(*int)
	if p == q {
		t.Fatal("init must build a fresh value per call")
	}
}
