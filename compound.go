package spaces

import "strings"

// CompoundState is an ordered sequence of child states, index-aligned with the
// component list of its owning CompoundStateSpace.
type CompoundState struct {
	values []State
	space  *CompoundStateSpace
}

// Space returns the owning CompoundStateSpace.
func (s *CompoundState) Space() StateSpace {
	return s.space
}

// Clone returns a deep copy: every child state is cloned.
func (s *CompoundState) Clone() State {
	values := make([]State, len(s.values))
	for i, v := range s.values {
		values[i] = v.Clone()
	}
	return &CompoundState{values: values, space: s.space}
}

// Equal reports component-wise equality with another compound state of the
// same space.
func (s *CompoundState) Equal(other State) bool {
	o, ok := other.(*CompoundState)
	if !ok || o.space != s.space || len(o.values) != len(s.values) {
		return false
	}
	for i := range s.values {
		if !s.values[i].Equal(o.values[i]) {
			return false
		}
	}
	return true
}

// Len returns the number of child states.
func (s *CompoundState) Len() int {
	return len(s.values)
}

// Get returns the child state at index i, or nil when out of range.
func (s *CompoundState) Get(i int) State {
	if i < 0 || i >= len(s.values) {
		return nil
	}
	return s.values[i]
}

// CompoundOption configures a CompoundStateSpace at construction time.
type CompoundOption func(*compoundConfig)

type compoundConfig struct {
	name             string
	segmentLength    float64
	segmentLengthSet bool
	weights          []float64
	weightByIndex    map[int]float64
}

// CompoundWithName sets the label of the compound space. The default is the
// child names joined with "+".
func CompoundWithName(name string) CompoundOption {
	return func(cfg *compoundConfig) {
		cfg.name = name
	}
}

// CompoundWithSegmentLength sets the discretization step on the compound space
// and propagates it to every child.
func CompoundWithSegmentLength(length float64) CompoundOption {
	return func(cfg *compoundConfig) {
		cfg.segmentLength = length
		cfg.segmentLengthSet = true
	}
}

// WithWeights sets one positive distance weight per component, in component
// order. The count must match the component count.
func WithWeights(weights ...float64) CompoundOption {
	return func(cfg *compoundConfig) {
		cfg.weights = append([]float64(nil), weights...)
	}
}

// WithWeight sets the distance weight of the component at index. Later options
// win over WithWeights for the same index.
func WithWeight(index int, weight float64) CompoundOption {
	return func(cfg *compoundConfig) {
		if cfg.weightByIndex == nil {
			cfg.weightByIndex = make(map[int]float64)
		}
		cfg.weightByIndex[index] = weight
	}
}

// CompoundStateSpace presents a single StateSpace over the Cartesian product
// of an ordered list of heterogeneous child spaces. Distance is the weighted
// sum of child distances; interpolation and discretization delegate per child.
type CompoundStateSpace struct {
	spaceCore
	components []StateSpace
	weights    []float64
}

// compositeSpace is what Covers needs from a compound-like target: access to
// its ordered components.
type compositeSpace interface {
	Subspaces() []StateSpace
}

// NewCompoundStateSpace composes the given child spaces, in order, into a
// product space. The child list must be non-empty and all weights positive;
// violations fail with ErrInvalidConfiguration. The space owns its component
// list for its lifetime; the order defines the index alignment of every
// CompoundState it creates.
func NewCompoundStateSpace(components []StateSpace, opts ...CompoundOption) (*CompoundStateSpace, error) {
	if len(components) == 0 {
		return nil, invalidConfigf("compound space requires at least one component")
	}
	names := make([]string, len(components))
	for i, c := range components {
		if c == nil {
			return nil, invalidConfigf("component %d is nil", i)
		}
		names[i] = c.Name()
	}

	cfg := compoundConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.name == "" {
		cfg.name = strings.Join(names, "+")
	}

	weights := make([]float64, len(components))
	for i := range weights {
		weights[i] = 1.0
	}
	if cfg.weights != nil {
		if len(cfg.weights) != len(components) {
			return nil, invalidConfigf("%d weights for %d components", len(cfg.weights), len(components))
		}
		copy(weights, cfg.weights)
	}
	for i, w := range cfg.weightByIndex {
		if i < 0 || i >= len(components) {
			return nil, invalidConfigf("weight index %d out of range for %d components", i, len(components))
		}
		weights[i] = w
	}
	for i, w := range weights {
		if w <= 0 {
			return nil, invalidConfigf("weight %v for component %d must be positive", w, i)
		}
	}

	sp := &CompoundStateSpace{
		spaceCore: newSpaceCore(spaceConfig{
			name:          cfg.name,
			segmentLength: DefaultSegmentLength,
		}),
		components: append([]StateSpace(nil), components...),
		weights:    weights,
	}
	if cfg.segmentLengthSet {
		if err := sp.SetSegmentLength(cfg.segmentLength); err != nil {
			return nil, err
		}
	}
	return sp, nil
}

// Dimension returns the sum of the component dimensions.
func (sp *CompoundStateSpace) Dimension() int {
	total := 0
	for _, c := range sp.components {
		total += c.Dimension()
	}
	return total
}

// NewState constructs a compound state with one zero-value child per
// component, each created by that component's own factory.
func (sp *CompoundStateSpace) NewState() State {
	values := make([]State, len(sp.components))
	for i, c := range sp.components {
		values[i] = c.NewState()
	}
	return &CompoundState{values: values, space: sp}
}

// Subspaces returns the ordered component list.
func (sp *CompoundStateSpace) Subspaces() []StateSpace {
	return append([]StateSpace(nil), sp.components...)
}

// Subspace returns the component at index i.
func (sp *CompoundStateSpace) Subspace(i int) (StateSpace, bool) {
	if i < 0 || i >= len(sp.components) {
		return nil, false
	}
	return sp.components[i], true
}

// SubspaceByName returns the first component with the given name.
func (sp *CompoundStateSpace) SubspaceByName(name string) (StateSpace, bool) {
	i, ok := sp.SubspaceIndex(name)
	if !ok {
		return nil, false
	}
	return sp.components[i], true
}

// SubspaceIndex returns the index of the first component with the given name.
func (sp *CompoundStateSpace) SubspaceIndex(name string) (int, bool) {
	for i, c := range sp.components {
		if c.Name() == name {
			return i, true
		}
	}
	return 0, false
}

// Weight returns the distance weight of the component at index i.
func (sp *CompoundStateSpace) Weight(i int) (float64, bool) {
	if i < 0 || i >= len(sp.weights) {
		return 0, false
	}
	return sp.weights[i], true
}

// SetWeight replaces the distance weight of the component at index i.
// Configuration-time only; the weight must be positive.
func (sp *CompoundStateSpace) SetWeight(i int, weight float64) error {
	if i < 0 || i >= len(sp.weights) {
		return invalidConfigf("weight index %d out of range for %d components", i, len(sp.weights))
	}
	if weight <= 0 {
		return invalidConfigf("weight %v for component %d must be positive", weight, i)
	}
	sp.weights[i] = weight
	return nil
}

// SetSegmentLength configures the discretization step on the compound space
// and propagates it to every child, since CountSegments is driven by the
// children's own steps. Configuration-time only.
func (sp *CompoundStateSpace) SetSegmentLength(length float64) error {
	if err := sp.spaceCore.SetSegmentLength(length); err != nil {
		return err
	}
	for _, c := range sp.components {
		if err := c.SetSegmentLength(length); err != nil {
			return err
		}
	}
	return nil
}

// Distance returns the weighted sum of the component distances:
// Σ weight[i] * component[i].Distance(a[i], b[i]).
func (sp *CompoundStateSpace) Distance(a, b State) (float64, error) {
	av, err := sp.checkState(a)
	if err != nil {
		return 0, err
	}
	bv, err := sp.checkState(b)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for i, c := range sp.components {
		d, err := c.Distance(av.values[i], bv.values[i])
		if err != nil {
			return 0, err
		}
		total += sp.weights[i] * d
	}
	return total, nil
}

// Interpolate constructs a fresh compound state and fills it via
// InterpolateInto.
func (sp *CompoundStateSpace) Interpolate(from, to State, t float64) (State, error) {
	result := sp.NewState()
	if err := sp.InterpolateInto(from, to, t, result); err != nil {
		return nil, err
	}
	return result, nil
}

// InterpolateInto delegates to every component's InterpolateInto, index by
// index, fully overwriting result. All three states are validated against
// this space before any child is touched, so a dimension or cross-space
// mismatch never leaves result partially written. A component whose own
// interpolation can fail mid-write, such as an expression-backed space,
// may leave earlier components already overwritten.
func (sp *CompoundStateSpace) InterpolateInto(from, to State, t float64, result State) error {
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
	for i, c := range sp.components {
		if fv.values[i].Space() != c || tv.values[i].Space() != c || rv.values[i].Space() != c {
			return crossSpacef("component %d of a state passed to %q was not created by %q", i, sp.name, c.Name())
		}
	}
	for i, c := range sp.components {
		if err := c.InterpolateInto(fv.values[i], tv.values[i], t, rv.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// CountSegments returns the maximum segment count any single component needs:
// all components advance together under one shared interpolation fraction, so
// a path is discretized as finely as its coarsest-resolution component
// requires.
func (sp *CompoundStateSpace) CountSegments(a, b State) (int, error) {
	av, err := sp.checkState(a)
	if err != nil {
		return 0, err
	}
	bv, err := sp.checkState(b)
	if err != nil {
		return 0, err
	}
	max := 0
	for i, c := range sp.components {
		n, err := c.CountSegments(av.values[i], bv.values[i])
		if err != nil {
			return 0, err
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// Contains reports whether other is structurally equal to this space or to
// any component, recursively.
func (sp *CompoundStateSpace) Contains(other StateSpace) bool {
	if StructurallyEqual(sp, other) {
		return true
	}
	for _, c := range sp.components {
		if c.Contains(other) {
			return true
		}
	}
	return false
}

// Covers reports subsumption: other is contained here, or other is itself a
// composite whose every component this space Contains. The second branch is
// what separates Covers from Contains; restricting this space to other's
// components reproduces other even when other as a whole is not a member.
func (sp *CompoundStateSpace) Covers(other StateSpace) bool {
	if sp.Contains(other) {
		return true
	}
	composite, ok := other.(compositeSpace)
	if !ok {
		return false
	}
	subs := composite.Subspaces()
	if len(subs) == 0 {
		return false
	}
	for _, sub := range subs {
		if !sp.Contains(sub) {
			return false
		}
	}
	return true
}

// Describe returns the structural descriptor, including the ordered component
// descriptors and the distance weights.
func (sp *CompoundStateSpace) Describe() Descriptor {
	components := make([]Descriptor, len(sp.components))
	for i, c := range sp.components {
		components[i] = c.Describe()
	}
	return Descriptor{
		Kind:          KindCompound,
		Name:          sp.name,
		Dimension:     sp.Dimension(),
		SegmentLength: sp.segmentLength,
		Components:    components,
		Weights:       append([]float64(nil), sp.weights...),
	}
}

func (sp *CompoundStateSpace) checkState(s State) (*CompoundState, error) {
	v, ok := s.(*CompoundState)
	if !ok {
		return nil, crossSpacef("space %q expects compound states, got %T", sp.name, s)
	}
	if len(v.values) != len(sp.components) {
		return nil, dimensionMismatchf("space %q has %d components, state holds %d", sp.name, len(sp.components), len(v.values))
	}
	if v.space != sp {
		return nil, crossSpacef("state created by %q passed to %q", v.space.Name(), sp.name)
	}
	return v, nil
}

// NewSE2StateSpace builds the planar rigid-body space SE(2) = ℝ² × SO(2) as a
// weighted compound: translation weighted 1.0 and rotation by rotationWeight,
// which balances meters against radians for a given robot footprint.
func NewSE2StateSpace(rotationWeight float64, opts ...CompoundOption) (*CompoundStateSpace, error) {
	if rotationWeight <= 0 {
		return nil, invalidConfigf("rotation weight %v must be positive", rotationWeight)
	}
	position, err := NewRealVectorStateSpace(2, WithName("position"))
	if err != nil {
		return nil, err
	}
	rotation, err := NewSO2StateSpace(WithName("rotation"))
	if err != nil {
		return nil, err
	}
	combined := append([]CompoundOption{
		CompoundWithName("SE2"),
		WithWeights(1.0, rotationWeight),
	}, opts...)
	return NewCompoundStateSpace([]StateSpace{position, rotation}, combined...)
}
