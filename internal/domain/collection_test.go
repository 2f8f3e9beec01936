package domain

import (
	"errors"
	"testing"
)

func TestAppendGrowsByOneWithoutMutatingOriginal(t *testing.T) {
	original := []string{"a", "b"}
	updated := Append(original, "c")

	if len(updated) != len(original)+1 {
		t.Fatalf("expected length %d, got %d", len(original)+1, len(updated))
	}
	if updated[2] != "c" {
		t.Fatalf("expected appended item at tail, got %q", updated[2])
	}
	if len(original) != 2 {
		t.Fatalf("original mutated: %v", original)
	}
}

func TestRemoveAtPreservesRelativeOrder(t *testing.T) {
	seq := []string{"a", "b", "c", "d"}
	updated, err := RemoveAt(seq, 1, 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []string{"a", "c", "d"}
	if len(updated) != len(want) {
		t.Fatalf("expected length %d, got %d", len(want), len(updated))
	}
	for i := range want {
		if updated[i] != want[i] {
			t.Fatalf("order broken at %d: got %q, want %q", i, updated[i], want[i])
		}
	}
}

func TestRemoveAtRejectsOutOfRangeIndex(t *testing.T) {
	cases := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"past end", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RemoveAt([]string{"a", "b"}, tc.index, 0); !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
		})
	}
}

func TestRemoveAtAtMinimumSizeFailsAndLeavesSequenceIntact(t *testing.T) {
	seq := []string{"only"}
	_, err := RemoveAt(seq, 0, 1)
	if !errors.Is(err, ErrMinimumSize) {
		t.Fatalf("expected ErrMinimumSize, got %v", err)
	}
	// Un segundo intento falla igual: la operacion rechazada no cambia nada.
	_, err = RemoveAt(seq, 0, 1)
	if !errors.Is(err, ErrMinimumSize) {
		t.Fatalf("expected ErrMinimumSize on retry, got %v", err)
	}
	if len(seq) != 1 || seq[0] != "only" {
		t.Fatalf("sequence mutated after rejected remove: %v", seq)
	}
}

func TestUpdateAtReplacesOnlyTargetElement(t *testing.T) {
	seq := []string{"a", "b", "c"}
	updated, err := UpdateAt(seq, 1, "B")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated[0] != "a" || updated[1] != "B" || updated[2] != "c" {
		t.Fatalf("unexpected result: %v", updated)
	}
	if seq[1] != "b" {
		t.Fatalf("original mutated: %v", seq)
	}
}

func TestUpdateAtRejectsOutOfRangeIndex(t *testing.T) {
	if _, err := UpdateAt([]int{1, 2}, 5, 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := UpdateAt([]int{}, 0, 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange on empty, got %v", err)
	}
}
