package registry

import (
	"testing"

	"github.com/vovakirdan/scarab/internal/actor"
)

type crateState struct {
	Weight float64
}

func (*crateState) Kind() string { return "registry-test-crate" }

func init() {
	Register("registry-test-crate", "pushable crate", func() actor.State { return &crateState{} })
}

func TestNewKnownKind(t *testing.T) {
	s, err := New("registry-test-crate")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, ok := s.(*crateState); !ok {
		t.Errorf("New() returned %T, expected *crateState", s)
	}

	// Each call returns a fresh value
	s2, _ := New("registry-test-crate")
	if s == s2 {
		t.Error("New() should not share state between calls")
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New("dragon"); err == nil {
		t.Error("New(\"dragon\") should fail")
	}
	if Exists("dragon") {
		t.Error("Exists(\"dragon\") = true, expected false")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("registry-test-crate", "again", func() actor.State { return &crateState{} })
}

func TestRegisterMismatchedKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register with a mismatched factory should panic")
		}
	}()
	Register("registry-test-barrel", "wrong kind", func() actor.State { return &crateState{} })
}

func TestList(t *testing.T) {
	found := false
	for _, k := range List() {
		if k.Name == "registry-test-crate" {
			found = true
			if k.Description != "pushable crate" {
				t.Errorf("Description = %q, expected %q", k.Description, "pushable crate")
			}
		}
	}
	if !found {
		t.Error("List() does not include the registered kind")
	}
}
