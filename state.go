package astro

// Frame identifies a reference frame consumed as an oracle: the core never
// implements frame transformations itself (spec non-goal), it only asks a
// Frame whether it may treat Newton's equations as holding directly.
type Frame interface {
	Name() string
	IsQuasiInertial() bool
}

// quasiInertialFrame is the trivial concrete Frame used throughout this
// module's own propagation math (GCRF-equivalent): it never rotates the
// coordinates it's attached to, leaving real frame transforms to an
// embedding application's own Frame oracle.
type quasiInertialFrame struct{ name string }

func (f quasiInertialFrame) Name() string         { return f.name }
func (f quasiInertialFrame) IsQuasiInertial() bool { return true }

// GCRF is the default quasi-inertial frame used when no embedding
// application supplies its own Frame oracle.
var GCRF Frame = quasiInertialFrame{name: "GCRF"}

// ITRF is a stand-in Earth-fixed frame identity; the core never rotates
// into it itself (non-goal), it is only used as a distinct Frame value.
var ITRF Frame = quasiInertialFrame{name: "ITRF"}

// State is an immutable tuple of (instant, coordinates, frame, broker). It
// is defined iff all four components are set and len(Coordinates) equals
// Broker.Arity().
type State struct {
	Instant     Instant
	Coordinates []float64
	Frame       Frame
	Broker      *CoordinateBroker
}

// IsDefined reports whether s carries a consistent, fully-populated value.
func (s State) IsDefined() bool {
	return s.Frame != nil && s.Broker != nil && len(s.Coordinates) == s.Broker.Arity()
}

// Subset returns the slice of s.Coordinates backing subset, or an
// UndefinedError if subset is not part of s.Broker.
func (s State) Subset(subset CoordinateSubset) ([]float64, error) {
	lo, hi, ok := s.Broker.IndexOf(subset)
	if !ok {
		return nil, NewUndefinedError("coordinate subset "+subset.ID, nil)
	}
	return s.Coordinates[lo:hi], nil
}

// Position returns the CARTESIAN_POSITION subset, if present.
func (s State) Position() []float64 {
	v, err := s.Subset(SubsetCartesianPosition)
	if err != nil {
		return nil
	}
	return v
}

// Velocity returns the CARTESIAN_VELOCITY subset, if present.
func (s State) Velocity() []float64 {
	v, err := s.Subset(SubsetCartesianVelocity)
	if err != nil {
		return nil
	}
	return v
}

// Mass returns the MASS subset's scalar value, if present, else 0.
func (s State) Mass() float64 {
	v, err := s.Subset(SubsetMass)
	if err != nil || len(v) == 0 {
		return 0
	}
	return v[0]
}

// WithCoordinates returns a copy of s with its coordinates replaced; s's
// Instant, Frame, and Broker are shared (States are immutable value
// objects, per spec §3.3).
func (s State) WithCoordinates(coords []float64) State {
	return State{Instant: s.Instant, Coordinates: coords, Frame: s.Frame, Broker: s.Broker}
}

// StateBuilder caches a (Frame, Broker) pair to stamp many instant+
// coordinate pairs without re-specifying them each time.
type StateBuilder struct {
	Frame  Frame
	Broker *CoordinateBroker
}

// NewStateBuilder constructs a StateBuilder for the given frame and broker.
func NewStateBuilder(frame Frame, broker *CoordinateBroker) *StateBuilder {
	return &StateBuilder{Frame: frame, Broker: broker}
}

// Build stamps coordinates at instant using the cached frame and broker.
func (b *StateBuilder) Build(instant Instant, coordinates []float64) State {
	return State{Instant: instant, Coordinates: coordinates, Frame: b.Frame, Broker: b.Broker}
}

// CartesianBroker is the canonical broker for position+velocity (+ mass)
// propagation, used by the dynamics terms in dynamics.go.
func CartesianBroker(withMass bool) *CoordinateBroker {
	if withMass {
		return NewCoordinateBroker(SubsetCartesianPosition, SubsetCartesianVelocity, SubsetMass)
	}
	return NewCoordinateBroker(SubsetCartesianPosition, SubsetCartesianVelocity)
}
