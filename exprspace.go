package spaces

import (
	"fmt"
	"time"
)

// ExprState is a point in an expression-defined metric space over ℝⁿ.
type ExprState struct {
	values []float64
	space  *ExprStateSpace
}

// Space returns the owning ExprStateSpace.
func (s *ExprState) Space() StateSpace {
	return s.space
}

// Clone returns a deep copy bound to the same space.
func (s *ExprState) Clone() State {
	values := make([]float64, len(s.values))
	copy(values, s.values)
	return &ExprState{values: values, space: s.space}
}

// Equal reports exact component-wise equality with another state of the same
// space.
func (s *ExprState) Equal(other State) bool {
	o, ok := other.(*ExprState)
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

// Values returns the backing coordinate slice.
func (s *ExprState) Values() []float64 {
	return s.values
}

// SetValues overwrites all coordinates. The value count must match the space
// dimension.
func (s *ExprState) SetValues(values ...float64) error {
	if len(values) != len(s.values) {
		return dimensionMismatchf("state of %q holds %d values, got %d", s.space.Name(), len(s.values), len(values))
	}
	copy(s.values, values)
	return nil
}

// ExprSpaceOption configures an ExprStateSpace at construction time.
type ExprSpaceOption func(*exprSpaceConfig)

type exprSpaceConfig struct {
	name             string
	segmentLength    float64
	segmentLengthSet bool
	interpolateExpr  string
	evaluator        Evaluator
	cache            ProgramCache
	registry         *FunctionRegistry
	logger           EvaluatorLogger
}

// ExprSpaceWithName sets the label of the space being constructed.
func ExprSpaceWithName(name string) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		cfg.name = name
	}
}

// ExprSpaceWithSegmentLength sets the discretization step. Non-positive values
// fail construction with ErrInvalidConfiguration.
func ExprSpaceWithSegmentLength(length float64) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		cfg.segmentLength = length
		cfg.segmentLengthSet = true
	}
}

// ExprSpaceWithInterpolation supplies an interpolation expression yielding the
// []float64 at fraction t between a and b. When omitted, interpolation is
// linear per coordinate.
func ExprSpaceWithInterpolation(expression string) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		cfg.interpolateExpr = expression
	}
}

// ExprSpaceWithEvaluator selects the expression engine. The default is the
// expr-lang evaluator; NewCELEvaluator is the bundled alternative.
func ExprSpaceWithEvaluator(evaluator Evaluator) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		cfg.evaluator = evaluator
	}
}

// ExprSpaceWithProgramCache wires a ProgramCache into the default evaluator.
// Ignored when ExprSpaceWithEvaluator is supplied.
func ExprSpaceWithProgramCache(cache ProgramCache) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		cfg.cache = cache
	}
}

// ExprSpaceWithFunctionRegistry wires custom functions into the default
// evaluator. Ignored when ExprSpaceWithEvaluator is supplied.
func ExprSpaceWithFunctionRegistry(registry *FunctionRegistry) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		cfg.registry = registry
	}
}

// ExprSpaceWithLogger attaches an evaluation logger. The default is a noop so
// the metric hot path stays silent.
func ExprSpaceWithLogger(logger EvaluatorLogger) ExprSpaceOption {
	return func(cfg *exprSpaceConfig) {
		if logger == nil {
			cfg.logger = noopEvaluatorLogger{}
			return
		}
		cfg.logger = logger
	}
}

// ExprStateSpace is a metric space over ℝⁿ whose distance (and optionally
// interpolation) is a user-supplied expression, compiled once at construction
// and evaluated per call. The expression environment binds a and b (the
// endpoint coordinate slices), t (the interpolation fraction), space (the
// space name), and any registered functions.
type ExprStateSpace struct {
	spaceCore
	dimension       int
	distanceExpr    string
	interpolateExpr string
	engine          string
	distance        CompiledMetric
	interpolate     CompiledMetric
	logger          EvaluatorLogger
}

// NewExprStateSpace constructs an expression-defined metric space of the given
// dimension. The distance expression is required and must evaluate to a
// non-negative number; it is compiled eagerly so a malformed expression fails
// construction rather than the first planning query. The caller remains
// responsible for supplying an expression that is symmetric and respects the
// triangle inequality.
func NewExprStateSpace(dimension int, distanceExpr string, opts ...ExprSpaceOption) (*ExprStateSpace, error) {
	if dimension <= 0 {
		return nil, invalidConfigf("expr space dimension %d must be positive", dimension)
	}
	if distanceExpr == "" {
		return nil, invalidConfigf("distance expression must not be empty")
	}

	cfg := exprSpaceConfig{logger: noopEvaluatorLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.name == "" {
		cfg.name = fmt.Sprintf("Expr%d", dimension)
	}
	if !cfg.segmentLengthSet {
		cfg.segmentLength = DefaultSegmentLength
	}
	if cfg.segmentLength <= 0 {
		return nil, invalidConfigf("segment length %v must be positive", cfg.segmentLength)
	}

	evaluator := cfg.evaluator
	if evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.registry != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.registry))
		}
		evaluator = NewExprEvaluator(exprOpts...)
	}

	distance, err := evaluator.Compile(distanceExpr)
	if err != nil {
		return nil, err
	}
	var interpolate CompiledMetric
	if cfg.interpolateExpr != "" {
		interpolate, err = evaluator.Compile(cfg.interpolateExpr)
		if err != nil {
			return nil, err
		}
	}

	return &ExprStateSpace{
		spaceCore: newSpaceCore(spaceConfig{
			name:          cfg.name,
			segmentLength: cfg.segmentLength,
		}),
		dimension:       dimension,
		distanceExpr:    distanceExpr,
		interpolateExpr: cfg.interpolateExpr,
		engine:          evaluatorEngineName(evaluator),
		distance:        distance,
		interpolate:     interpolate,
		logger:          cfg.logger,
	}, nil
}

// Dimension returns the number of coordinates per state.
func (sp *ExprStateSpace) Dimension() int {
	return sp.dimension
}

// NewState constructs the origin state of this space.
func (sp *ExprStateSpace) NewState() State {
	return &ExprState{
		values: make([]float64, sp.dimension),
		space:  sp,
	}
}

// NewStateFromValues constructs a state holding the given coordinates.
func (sp *ExprStateSpace) NewStateFromValues(values ...float64) (*ExprState, error) {
	if len(values) != sp.dimension {
		return nil, dimensionMismatchf("space %q has dimension %d, got %d values", sp.name, sp.dimension, len(values))
	}
	state := sp.NewState().(*ExprState)
	copy(state.values, values)
	return state, nil
}

// Distance evaluates the distance expression for two states of this space.
func (sp *ExprStateSpace) Distance(a, b State) (float64, error) {
	av, err := sp.checkState(a)
	if err != nil {
		return 0, err
	}
	bv, err := sp.checkState(b)
	if err != nil {
		return 0, err
	}
	value, err := sp.evaluate(sp.distance, sp.distanceExpr, MetricContext{
		From:  av.values,
		To:    bv.values,
		Space: sp.name,
	})
	if err != nil {
		return 0, err
	}
	d, err := coerceFloat(value)
	if err != nil {
		return 0, wrapEvaluationError(sp.engine, sp.distanceExpr, sp.name, err)
	}
	if d < 0 {
		return 0, wrapEvaluationError(sp.engine, sp.distanceExpr, sp.name,
			fmt.Errorf("distance %v must be non-negative", d))
	}
	return d, nil
}

// Interpolate returns the state at fraction t between from and to.
func (sp *ExprStateSpace) Interpolate(from, to State, t float64) (State, error) {
	result := sp.NewState()
	if err := sp.InterpolateInto(from, to, t, result); err != nil {
		return nil, err
	}
	return result, nil
}

// InterpolateInto writes the interpolation at fraction t into result, fully
// overwriting it. When the space carries an interpolation expression it must
// yield one number per coordinate; result is untouched on any failure.
func (sp *ExprStateSpace) InterpolateInto(from, to State, t float64, result State) error {
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
	if sp.interpolate == nil {
		for i := range rv.values {
			rv.values[i] = fv.values[i] + t*(tv.values[i]-fv.values[i])
		}
		return nil
	}
	value, err := sp.evaluate(sp.interpolate, sp.interpolateExpr, MetricContext{
		From:  fv.values,
		To:    tv.values,
		T:     t,
		Space: sp.name,
	})
	if err != nil {
		return err
	}
	vec, err := coerceVector(value)
	if err != nil {
		return wrapEvaluationError(sp.engine, sp.interpolateExpr, sp.name, err)
	}
	if len(vec) != sp.dimension {
		return dimensionMismatchf("interpolation expression of %q yielded %d values, want %d", sp.name, len(vec), sp.dimension)
	}
	copy(rv.values, vec)
	return nil
}

// CountSegments returns ceil(Distance(a, b) / SegmentLength()).
func (sp *ExprStateSpace) CountSegments(a, b State) (int, error) {
	d, err := sp.Distance(a, b)
	if err != nil {
		return 0, err
	}
	return sp.segmentCount(d), nil
}

// Contains reports structural equality: another expr space of the same
// dimension computing the same distance expression.
func (sp *ExprStateSpace) Contains(other StateSpace) bool {
	return StructurallyEqual(sp, other)
}

// Covers is identical to Contains for leaf spaces.
func (sp *ExprStateSpace) Covers(other StateSpace) bool {
	return sp.Contains(other)
}

// Describe returns the structural descriptor, including the distance
// expression that defines the metric.
func (sp *ExprStateSpace) Describe() Descriptor {
	return Descriptor{
		Kind:          KindExpr,
		Name:          sp.name,
		Dimension:     sp.dimension,
		SegmentLength: sp.segmentLength,
		Metric:        sp.distanceExpr,
	}
}

func (sp *ExprStateSpace) evaluate(metric CompiledMetric, expression string, ctx MetricContext) (any, error) {
	start := time.Now()
	value, err := metric.Evaluate(ctx)
	err = wrapEvaluationError(sp.engine, expression, sp.name, err)
	sp.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   sp.engine,
		Expr:     expression,
		Space:    sp.name,
		Duration: time.Since(start),
		Err:      err,
	})
	return value, err
}

func (sp *ExprStateSpace) checkState(s State) (*ExprState, error) {
	v, ok := s.(*ExprState)
	if !ok {
		return nil, crossSpacef("space %q expects expression-space states, got %T", sp.name, s)
	}
	if len(v.values) != sp.dimension {
		return nil, dimensionMismatchf("space %q has dimension %d, state holds %d", sp.name, sp.dimension, len(v.values))
	}
	if v.space != sp {
		return nil, crossSpacef("state created by %q passed to %q", v.space.Name(), sp.name)
	}
	return v, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		return "custom"
	}
}

func coerceFloat(value any) (float64, error) {
	switch n := value.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expression yielded %T, want a number", value)
	}
}

func coerceVector(value any) ([]float64, error) {
	switch vec := value.(type) {
	case []float64:
		return vec, nil
	case []any:
		out := make([]float64, len(vec))
		for i, v := range vec {
			f, err := coerceFloat(v)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expression yielded %T, want a numeric list", value)
	}
}
