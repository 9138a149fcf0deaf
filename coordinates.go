package astro

import "fmt"

// CoordinateSubset is a named, fixed-arity slice of a state vector, e.g.
// CartesianPosition (arity 3) or Mass (arity 1).
type CoordinateSubset struct {
	ID   string
	Size int
}

// Common built-in subsets, grounded on the read/write subsets enumerated by
// the dynamics terms of §4.5.
var (
	SubsetCartesianPosition = CoordinateSubset{ID: "CARTESIAN_POSITION", Size: 3}
	SubsetCartesianVelocity = CoordinateSubset{ID: "CARTESIAN_VELOCITY", Size: 3}
	SubsetMass              = CoordinateSubset{ID: "MASS", Size: 1}
)

// CoordinateBroker maps subset identity to a contiguous, disjoint index
// range within a state vector, fixing total arity and ordering. Brokers are
// immutable once built; malformed construction (duplicate IDs) panics,
// mirroring the teacher's constructor-panics convention for irrecoverable
// programmer error.
type CoordinateBroker struct {
	subsets []CoordinateSubset
	offsets []int // offsets[i] is the start index of subsets[i]
	arity   int
}

// NewCoordinateBroker builds a broker from an ordered list of subsets.
// Panics if any subset ID repeats.
func NewCoordinateBroker(subsets ...CoordinateSubset) *CoordinateBroker {
	seen := make(map[string]bool, len(subsets))
	offsets := make([]int, len(subsets))
	arity := 0
	for i, s := range subsets {
		if seen[s.ID] {
			panic(fmt.Sprintf("astro: duplicate coordinate subset %q in broker", s.ID))
		}
		seen[s.ID] = true
		offsets[i] = arity
		arity += s.Size
	}
	return &CoordinateBroker{subsets: append([]CoordinateSubset{}, subsets...), offsets: offsets, arity: arity}
}

// Arity returns the total width of state vectors built from this broker.
func (b *CoordinateBroker) Arity() int { return b.arity }

// Subsets returns the ordered list of subsets this broker was built from.
func (b *CoordinateBroker) Subsets() []CoordinateSubset { return b.subsets }

// IndexOf returns the half-open [lo, hi) index range of subset within a
// state vector built from this broker, and whether the subset is present.
func (b *CoordinateBroker) IndexOf(subset CoordinateSubset) (lo, hi int, ok bool) {
	for i, s := range b.subsets {
		if s.ID == subset.ID {
			return b.offsets[i], b.offsets[i] + s.Size, true
		}
	}
	return 0, 0, false
}

// Has reports whether the broker includes subset.
func (b *CoordinateBroker) Has(subset CoordinateSubset) bool {
	_, _, ok := b.IndexOf(subset)
	return ok
}

// Union returns a new broker covering the set union of this broker's and
// o's subsets, in this broker's order followed by any new subsets from o.
func (b *CoordinateBroker) Union(o *CoordinateBroker) *CoordinateBroker {
	merged := append([]CoordinateSubset{}, b.subsets...)
	for _, s := range o.subsets {
		if !b.Has(s) {
			merged = append(merged, s)
		}
	}
	return NewCoordinateBroker(merged...)
}
