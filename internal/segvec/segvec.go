// Package segvec implements the flat, segmented buffer spec.md's
// MechanismState uses to store per-joint configuration/velocity/additional
// state contiguously: one backing slice, sliced into per-joint views, so
// indexing a joint's segment never allocates once the buffer exists.
package segvec

import "github.com/san-kum/rbdsim/internal/rbderrors"

// Range is a segment's offset and length within a SegmentedVector's flat
// backing buffer.
type Range struct {
	Start, Length int
}

// SegmentedVector is a flat buffer of T partitioned into contiguous,
// independently sliceable segments, one per joint, laid out in the same
// dense-id order as the mechanism's tree joints (spec.md §4.3).
type SegmentedVector[T any] struct {
	data   []T
	ranges []Range
}

// New allocates a SegmentedVector with one segment per entry of lengths,
// in order.
func New[T any](lengths []int) SegmentedVector[T] {
	ranges := make([]Range, len(lengths))
	total := 0
	for i, n := range lengths {
		ranges[i] = Range{Start: total, Length: n}
		total += n
	}
	return SegmentedVector[T]{data: make([]T, total), ranges: ranges}
}

// NumSegments returns the number of segments (joints).
func (s SegmentedVector[T]) NumSegments() int { return len(s.ranges) }

// Len returns the total number of elements across all segments.
func (s SegmentedVector[T]) Len() int { return len(s.data) }

// Segment returns a view into segment i; mutations through it are visible
// in the backing buffer and in Data().
func (s SegmentedVector[T]) Segment(i int) []T {
	r := s.ranges[i]
	return s.data[r.Start : r.Start+r.Length]
}

// Data returns the whole flat backing buffer, e.g. to hand to a linear
// solver that wants one contiguous vector.
func (s SegmentedVector[T]) Data() []T { return s.data }

// Fill sets every element to v.
func (s SegmentedVector[T]) Fill(v T) {
	for i := range s.data {
		s.data[i] = v
	}
}

// CopyFrom overwrites s's buffer with other's, element by element; the two
// must have identical layouts.
func (s SegmentedVector[T]) CopyFrom(other SegmentedVector[T]) error {
	if len(s.data) != len(other.data) {
		return &rbderrors.DimensionMismatch{Op: "SegmentedVector.CopyFrom", Expected: len(s.data), Got: len(other.data)}
	}
	copy(s.data, other.data)
	return nil
}

// Ranges exposes the segment layout, used by cache invalidation to map a
// flat index back to its owning joint.
func (s SegmentedVector[T]) Ranges() []Range { return s.ranges }
