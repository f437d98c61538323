package utils

import "testing"

func TestNewULIDIsUniqueAndFixedLength(t *testing.T) {
	a := NewULID()
	b := NewULID()
	if a == b {
		t.Error("two ULIDs should not collide")
	}
	if len(a) != 26 {
		t.Errorf("len(ULID) = %d, want 26", len(a))
	}
}
