package segvec

import "testing"

func TestNewLaysOutSegmentsContiguously(t *testing.T) {
	v := New[float64]([]int{2, 1, 3})
	if v.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", v.Len())
	}
	if v.NumSegments() != 3 {
		t.Fatalf("NumSegments() = %d, want 3", v.NumSegments())
	}
	ranges := v.Ranges()
	want := []Range{{0, 2}, {2, 1}, {3, 3}}
	for i, r := range want {
		if ranges[i] != r {
			t.Errorf("Ranges()[%d] = %+v, want %+v", i, ranges[i], r)
		}
	}
}

func TestSegmentViewSharesBackingArray(t *testing.T) {
	v := New[float64]([]int{2, 3})
	seg := v.Segment(1)
	seg[0] = 42
	if v.Data()[2] != 42 {
		t.Errorf("expected Segment view to alias the backing buffer, got %v", v.Data())
	}
}

func TestFillSetsEveryElement(t *testing.T) {
	v := New[float64]([]int{2, 2})
	v.Fill(9)
	for i, x := range v.Data() {
		if x != 9 {
			t.Errorf("Data()[%d] = %v, want 9", i, x)
		}
	}
}

func TestCopyFromRejectsLengthMismatch(t *testing.T) {
	a := New[float64]([]int{2})
	b := New[float64]([]int{3})
	if err := a.CopyFrom(b); err == nil {
		t.Error("expected CopyFrom to reject mismatched total lengths")
	}
}

func TestCopyFromCopiesElements(t *testing.T) {
	a := New[float64]([]int{2, 1})
	b := New[float64]([]int{2, 1})
	b.Fill(5)
	if err := a.CopyFrom(b); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	for i, x := range a.Data() {
		if x != 5 {
			t.Errorf("Data()[%d] = %v, want 5", i, x)
		}
	}
}
