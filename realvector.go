package spaces

import (
	"fmt"
	"math"
)

// RealVectorState is a point in an n-dimensional Euclidean space.
type RealVectorState struct {
	values []float64
	space  *RealVectorStateSpace
}

// Space returns the owning RealVectorStateSpace.
func (s *RealVectorState) Space() StateSpace {
	return s.space
}

// Clone returns a deep copy bound to the same space.
func (s *RealVectorState) Clone() State {
	values := make([]float64, len(s.values))
	copy(values, s.values)
	return &RealVectorState{values: values, space: s.space}
}

// Equal reports exact component-wise equality with another real-vector state
// of the same space.
func (s *RealVectorState) Equal(other State) bool {
	o, ok := other.(*RealVectorState)
	if !ok || o.space != s.space || len(o.values) != len(s.values) {
		return false
	}
	for i := range s.values {
		if s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// Values returns the backing coordinate slice. Callers that mutate it are
// editing the state in place.
func (s *RealVectorState) Values() []float64 {
	return s.values
}

// SetValues overwrites all coordinates. The value count must match the space
// dimension.
func (s *RealVectorState) SetValues(values ...float64) error {
	if len(values) != len(s.values) {
		return dimensionMismatchf("state of %q holds %d values, got %d", s.space.Name(), len(s.values), len(values))
	}
	copy(s.values, values)
	return nil
}

// RealVectorStateSpace is ℝⁿ with the Euclidean (L2) metric and linear
// interpolation.
type RealVectorStateSpace struct {
	spaceCore
	dimension int
}

// NewRealVectorStateSpace constructs a Euclidean space of the given dimension.
// Dimension must be positive.
func NewRealVectorStateSpace(dimension int, opts ...SpaceOption) (*RealVectorStateSpace, error) {
	if dimension <= 0 {
		return nil, invalidConfigf("real vector dimension %d must be positive", dimension)
	}
	cfg, err := applySpaceOptions(fmt.Sprintf("RealVector%d", dimension), opts)
	if err != nil {
		return nil, err
	}
	return &RealVectorStateSpace{
		spaceCore: newSpaceCore(cfg),
		dimension: dimension,
	}, nil
}

// Dimension returns the number of coordinates per state.
func (sp *RealVectorStateSpace) Dimension() int {
	return sp.dimension
}

// NewState constructs the origin state of this space.
func (sp *RealVectorStateSpace) NewState() State {
	return &RealVectorState{
		values: make([]float64, sp.dimension),
		space:  sp,
	}
}

// NewStateFromValues constructs a state holding the given coordinates. The
// value count must match the space dimension.
func (sp *RealVectorStateSpace) NewStateFromValues(values ...float64) (*RealVectorState, error) {
	if len(values) != sp.dimension {
		return nil, dimensionMismatchf("space %q has dimension %d, got %d values", sp.name, sp.dimension, len(values))
	}
	state := sp.NewState().(*RealVectorState)
	copy(state.values, values)
	return state, nil
}

// Distance returns the Euclidean distance between two states of this space.
func (sp *RealVectorStateSpace) Distance(a, b State) (float64, error) {
	av, err := sp.checkState(a)
	if err != nil {
		return 0, err
	}
	bv, err := sp.checkState(b)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range av.values {
		d := av.values[i] - bv.values[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Interpolate returns the state at fraction t along the straight line from
// from to to.
func (sp *RealVectorStateSpace) Interpolate(from, to State, t float64) (State, error) {
	result := sp.NewState()
	if err := sp.InterpolateInto(from, to, t, result); err != nil {
		return nil, err
	}
	return result, nil
}

// InterpolateInto writes the linear interpolation at fraction t into result,
// fully overwriting it. result is untouched on error.
func (sp *RealVectorStateSpace) InterpolateInto(from, to State, t float64, result State) error {
	fv, err := sp.checkState(from)
	if err != nil {
		return err
	}
	tv, err := sp.checkState(to)
	if err != nil {
		return err
	}
	rv, err := sp.checkState(result)
	if err != nil {
		return err
	}
	for i := range rv.values {
		rv.values[i] = fv.values[i] + t*(tv.values[i]-fv.values[i])
	}
	return nil
}

// CountSegments returns ceil(Distance(a, b) / SegmentLength()).
func (sp *RealVectorStateSpace) CountSegments(a, b State) (int, error) {
	d, err := sp.Distance(a, b)
	if err != nil {
		return 0, err
	}
	return sp.segmentCount(d), nil
}

// Contains reports structural equality: another real-vector space of the same
// dimension.
func (sp *RealVectorStateSpace) Contains(other StateSpace) bool {
	return StructurallyEqual(sp, other)
}

// Covers is identical to Contains for leaf spaces: a leaf covers only itself.
func (sp *RealVectorStateSpace) Covers(other StateSpace) bool {
	return sp.Contains(other)
}

// Describe returns the structural descriptor of this space.
func (sp *RealVectorStateSpace) Describe() Descriptor {
	return Descriptor{
		Kind:          KindRealVector,
		Name:          sp.name,
		Dimension:     sp.dimension,
		SegmentLength: sp.segmentLength,
	}
}

func (sp *RealVectorStateSpace) checkState(s State) (*RealVectorState, error) {
	v, ok := s.(*RealVectorState)
	if !ok {
		return nil, crossSpacef("space %q expects real vector states, got %T", sp.name, s)
	}
	if len(v.values) != sp.dimension {
		return nil, dimensionMismatchf("space %q has dimension %d, state holds %d", sp.name, sp.dimension, len(v.values))
	}
	if v.space != sp {
		return nil, crossSpacef("state created by %q passed to %q", v.space.Name(), sp.name)
	}
	return v, nil
}
