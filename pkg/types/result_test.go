// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestAdvance(t *testing.T) {
	r := NewResult("https://doi.org/10.1000/x")
	for _, s := range []ProcessingState{StateTriaged, StateMetadataExtracted, StateOAVerified, StateCompleted} {
		if err := r.Advance(s); err != nil {
			t.Fatalf("Advance(%q) error = %v", s, err)
		}
	}
	if r.State != StateCompleted {
		t.Fatalf("State = %q, want %q", r.State, StateCompleted)
	}
}

func TestAdvance_Backward(t *testing.T) {
	r := NewResult("u")
	if err := r.Advance(StateOAVerified); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if err := r.Advance(StateTriaged); err == nil {
		t.Fatal("backward transition should fail")
	}
	if r.State != StateOAVerified {
		t.Errorf("State = %q after rejected transition", r.State)
	}
}

func TestAdvance_Terminal(t *testing.T) {
	r := NewResult("u")
	r.Fail("no metadata")
	if err := r.Advance(StateCompleted); err == nil {
		t.Fatal("transition out of failed should be rejected")
	}
	if r.ErrorMessage != "no metadata" {
		t.Errorf("ErrorMessage = %q", r.ErrorMessage)
	}

	done := NewResult("u")
	if err := done.Advance(StateCompleted); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if err := done.Advance(StateFailed); err == nil {
		t.Fatal("transition out of completed should be rejected")
	}
}

func TestTerminal(t *testing.T) {
	for s, want := range map[ProcessingState]bool{
		StateNew:               false,
		StateTriaged:           false,
		StateMetadataExtracted: false,
		StateOAVerified:        false,
		StateCompleted:         true,
		StateFailed:            true,
	} {
		if got := s.Terminal(); got != want {
			t.Errorf("%q.Terminal() = %v, want %v", s, got, want)
		}
	}
}
