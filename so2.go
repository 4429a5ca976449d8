package spaces

import "math"

// SO2State is a planar rotation, stored as an angle normalized to (-π, π].
type SO2State struct {
	angle float64
	space *SO2StateSpace
}

// Space returns the owning SO2StateSpace.
func (s *SO2State) Space() StateSpace {
	return s.space
}

// Clone returns a copy bound to the same space.
func (s *SO2State) Clone() State {
	return &SO2State{angle: s.angle, space: s.space}
}

// Equal reports whether other is the same normalized angle in the same space.
func (s *SO2State) Equal(other State) bool {
	o, ok := other.(*SO2State)
	return ok && o.space == s.space && o.angle == s.angle
}

// Angle returns the normalized angle in (-π, π].
func (s *SO2State) Angle() float64 {
	return s.angle
}

// SetAngle stores the angle, normalizing it into (-π, π].
func (s *SO2State) SetAngle(angle float64) {
	s.angle = normalizeAngle(angle)
}

// normalizeAngle maps any angle into (-π, π].
func normalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// SO2StateSpace is the circle group SO(2): distance is the shortest angular
// difference and interpolation follows the shortest arc, including across the
// ±π seam.
type SO2StateSpace struct {
	spaceCore
}

// NewSO2StateSpace constructs a planar-rotation space.
func NewSO2StateSpace(opts ...SpaceOption) (*SO2StateSpace, error) {
	cfg, err := applySpaceOptions("SO2", opts)
	if err != nil {
		return nil, err
	}
	return &SO2StateSpace{spaceCore: newSpaceCore(cfg)}, nil
}

// Dimension returns 1: a single angular coordinate.
func (sp *SO2StateSpace) Dimension() int {
	return 1
}

// NewState constructs the zero-rotation state.
func (sp *SO2StateSpace) NewState() State {
	return &SO2State{space: sp}
}

// NewStateFromAngle constructs a state at the given angle, normalized into
// (-π, π].
func (sp *SO2StateSpace) NewStateFromAngle(angle float64) *SO2State {
	return &SO2State{angle: normalizeAngle(angle), space: sp}
}

// Distance returns the shortest angular difference, in [0, π].
func (sp *SO2StateSpace) Distance(a, b State) (float64, error) {
	av, err := sp.checkState(a)
	if err != nil {
		return 0, err
	}
	bv, err := sp.checkState(b)
	if err != nil {
		return 0, err
	}
	d := math.Abs(av.angle - bv.angle)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d, nil
}

// Interpolate returns the rotation at fraction t along the shortest arc.
func (sp *SO2StateSpace) Interpolate(from, to State, t float64) (State, error) {
	result := sp.NewState()
	if err := sp.InterpolateInto(from, to, t, result); err != nil {
		return nil, err
	}
	return result, nil
}

// InterpolateInto writes the shortest-arc interpolation at fraction t into
// result, fully overwriting it. result is untouched on error.
func (sp *SO2StateSpace) InterpolateInto(from, to State, t float64, result State) error {
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
	diff := tv.angle - fv.angle
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff < -math.Pi {
		diff += 2 * math.Pi
	}
	rv.angle = normalizeAngle(fv.angle + t*diff)
	return nil
}

// CountSegments returns ceil(Distance(a, b) / SegmentLength()).
func (sp *SO2StateSpace) CountSegments(a, b State) (int, error) {
	d, err := sp.Distance(a, b)
	if err != nil {
		return 0, err
	}
	return sp.segmentCount(d), nil
}

// Contains reports structural equality: any other SO(2) space.
func (sp *SO2StateSpace) Contains(other StateSpace) bool {
	return StructurallyEqual(sp, other)
}

// Covers is identical to Contains for leaf spaces.
func (sp *SO2StateSpace) Covers(other StateSpace) bool {
	return sp.Contains(other)
}

// Describe returns the structural descriptor of this space.
func (sp *SO2StateSpace) Describe() Descriptor {
	return Descriptor{
		Kind:          KindSO2,
		Name:          sp.name,
		Dimension:     1,
		SegmentLength: sp.segmentLength,
	}
}

func (sp *SO2StateSpace) checkState(s State) (*SO2State, error) {
	v, ok := s.(*SO2State)
	if !ok {
		return nil, crossSpacef("space %q expects SO(2) states, got %T", sp.name, s)
	}
	if v.space != sp {
		return nil, crossSpacef("state created by %q passed to %q", v.space.Name(), sp.name)
	}
	return v, nil
}
