package spaces

import (
	"github.com/google/uuid"
)

// SpaceID uniquely identifies a StateSpace instance. Every space receives a
// fresh identity at construction; states carry their space's identity so that
// cross-space misuse can be detected instead of producing a meaningless number.
type SpaceID = uuid.UUID

// State is an opaque point in exactly one StateSpace. States are value-like:
// they are created through their space's NewState factory, copied freely via
// Clone, and destroyed with no effect on the space.
type State interface {
	// Space returns the state space that defines this state's semantics. The
	// space outlives all of its states; the link is an association, not
	// ownership.
	Space() StateSpace

	// Clone returns a deep copy of the state, bound to the same space.
	Clone() State

	// Equal reports whether other denotes the same point under the owning
	// space's equality notion. States from a different space are never equal.
	Equal(other State) bool
}

// StateSpace is a named metric space over an associated State representation.
// Implementations must keep Distance non-negative, symmetric, and within the
// triangle inequality, with Distance(a, a) == 0.
//
// Spaces are configured once during planner setup and are then read-only:
// Distance, Interpolate, InterpolateInto, CountSegments, Contains, and Covers
// are pure and safe for concurrent use. SetName, SetSegmentLength, and any
// other setters must happen-before concurrent reads; serializing them is the
// caller's responsibility.
type StateSpace interface {
	// ID returns the immutable identity assigned at construction.
	ID() SpaceID

	// Name returns the human-readable label. It has no metric effect.
	Name() string

	// SetName replaces the human-readable label.
	SetName(name string)

	// Dimension returns the number of real parameters describing a state.
	Dimension() int

	// NewState constructs a zero-value state owned by this space.
	NewState() State

	// Distance returns the metric distance between two states of this space.
	Distance(a, b State) (float64, error)

	// Interpolate returns the state at fractional position t in [0, 1] along
	// the canonical path from from to to. t == 0 yields from, t == 1 yields to.
	Interpolate(from, to State, t float64) (State, error)

	// InterpolateInto writes Interpolate's result into result, which must have
	// been created by this space. result is fully overwritten. All three
	// states are validated first, so a dimension or space mismatch leaves
	// result untouched; a mid-write evaluation failure in an
	// expression-backed component may not.
	InterpolateInto(from, to State, t float64, result State) error

	// SegmentLength returns the maximal per-segment step used by CountSegments.
	SegmentLength() float64

	// SetSegmentLength configures the discretization step. Non-positive values
	// fail with ErrInvalidConfiguration.
	SetSegmentLength(length float64) error

	// CountSegments returns the number of discretization segments needed to
	// traverse from a to b at the configured segment length, i.e.
	// ceil(Distance(a, b) / SegmentLength()).
	CountSegments(a, b State) (int, error)

	// Contains reports whether other is structurally equal to this space or,
	// recursively for compound spaces, to one of its components.
	Contains(other StateSpace) bool

	// Covers reports whether this space subsumes other: a leaf covers only
	// spaces structurally equal to itself, while a compound also covers a
	// compound target whose every component it Contains.
	Covers(other StateSpace) bool

	// Describe returns the structural descriptor backing Contains and Covers.
	Describe() Descriptor
}

// MetricContext carries the inputs bound into a metric expression evaluation:
// the two endpoint parameter vectors, the interpolation fraction, and the name
// of the space on whose behalf the evaluation runs.
type MetricContext struct {
	From  []float64
	To    []float64
	T     float64
	Space string
}

func (ctx MetricContext) spaceLabel() string {
	if ctx.Space == "" {
		return "unknown"
	}
	return ctx.Space
}

// Evaluator executes metric expressions against a MetricContext. Both bundled
// engines (expr-lang and CEL) implement it; implementations must be safe for
// concurrent use once constructed.
type Evaluator interface {
	Evaluate(ctx MetricContext, expression string) (any, error)
	Compile(expression string, opts ...CompileOption) (CompiledMetric, error)
}

// CompiledMetric is a pre-compiled metric expression, the hot-loop entry point
// for spaces that evaluate millions of distances per planning run.
type CompiledMetric interface {
	Evaluate(ctx MetricContext) (any, error)
}

// CompileOption reserves room for engine-specific compile tweaks.
type CompileOption func(*compileConfig)

type compileConfig struct{}
