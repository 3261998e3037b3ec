// Package ordering computes sibling position values for lists within a
// board and cards within a list. Positions are real numbers; insertion uses
// midpoints and falls back to compaction when precision runs out.
package ordering

import "github.com/google/uuid"

// MinGap is the smallest distinguishable distance between two sibling
// positions. A midpoint closer than this to either neighbor means the
// sibling set must be compacted before inserting.
const MinGap = 1e-6

// Assignment binds an entity to a position value.
type Assignment struct {
	ID       uuid.UUID
	Position float64
}

// Append returns the position for a new last sibling: max+1, or 0 for an
// empty sibling set. positions need not be sorted.
func Append(positions []float64) float64 {
	if len(positions) == 0 {
		return 0
	}
	max := positions[0]
	for _, p := range positions[1:] {
		if p > max {
			max = p
		}
	}
	return max + 1
}

// InsertAt returns the position that places an element at index within the
// ascending-sorted positions. Out-of-range indexes clamp to the boundaries
// (min-1 / max+1). ok is false when the midpoint is not distinguishable
// from its neighbors; the caller must compact and recompute.
func InsertAt(positions []float64, index int) (pos float64, ok bool) {
	if len(positions) == 0 {
		return 0, true
	}
	if index <= 0 {
		return positions[0] - 1, true
	}
	if index >= len(positions) {
		return positions[len(positions)-1] + 1, true
	}
	lo, hi := positions[index-1], positions[index]
	mid := lo + (hi-lo)/2
	if mid-lo < MinGap || hi-mid < MinGap {
		return 0, false
	}
	return mid, true
}

// Compacted renumbers orderedIDs to consecutive integer positions 0..n-1,
// preserving the given order. Used both for the compaction pass and for
// bulk reorders, where the caller-supplied order is authoritative and any
// previously held positions are ignored.
func Compacted(orderedIDs []uuid.UUID) []Assignment {
	assignments := make([]Assignment, len(orderedIDs))
	for i, id := range orderedIDs {
		assignments[i] = Assignment{ID: id, Position: float64(i)}
	}
	return assignments
}
