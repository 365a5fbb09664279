// File: api/errors_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"fmt"
	"testing"
)

func TestErrorWithContext(t *testing.T) {
	e := NewError(ErrCodeSlotTypeMismatch, "slot type mismatch").
		WithContext("slot", 3).
		WithContext("want", "int")
	if e.Code != ErrCodeSlotTypeMismatch {
		t.Fatalf("unexpected code: %v", e.Code)
	}
	if e.Context["slot"] != 3 || e.Context["want"] != "int" {
		t.Fatalf("context not recorded: %+v", e.Context)
	}
	msg := e.Error()
	if msg == "" || msg == "slot type mismatch" {
		t.Fatalf("expected message with context, got %q", msg)
	}
}

func TestErrorWithoutContext(t *testing.T) {
	e := &Error{Code: ErrCodeInternal, Message: "boom"}
	if e.Error() != "boom" {
		t.Fatalf("expected bare message, got %q", e.Error())
	}
}

func TestIsInvariantViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{NewError(ErrCodeNoSuchGroup, "no group"), true},
		{NewError(ErrCodeSlotTypeMismatch, "bad type"), true},
		{NewError(ErrCodeSlotOutOfRange, "short record"), true},
		{NewError(ErrCodeInternal, "other"), false},
		{ErrShardBusy, false},
		{fmt.Errorf("wrap: %w", NewError(ErrCodeNoSuchGroup, "no group")), true},
		{nil, false},
	}
	for i, c := range cases {
		if got := IsInvariantViolation(c.err); got != c.want {
			t.Errorf("case %d: got %v, want %v (err=%v)", i, got, c.want, c.err)
		}
	}
}

func TestGroupStateString(t *testing.T) {
	if GroupActive.String() != "active" || GroupDraining.String() != "draining" || GroupFree.String() != "free" {
		t.Fatal("unexpected GroupState strings")
	}
}
