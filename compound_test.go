package spaces

import (
	"errors"
	"math"
	"sync"
	"testing"
)

// twoLineSpace builds the reference fixture: a compound of two 1-D real-line
// children with unit weights and unit segment length.
func twoLineSpace(t *testing.T) *CompoundStateSpace {
	t.Helper()
	x := mustRealVector(t, 1, WithName("x"))
	y := mustRealVector(t, 1, WithName("y"))
	sp, err := NewCompoundStateSpace([]StateSpace{x, y})
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}
	return sp
}

func compoundPoint(t *testing.T, sp *CompoundStateSpace, coords ...float64) *CompoundState {
	t.Helper()
	state := sp.NewState().(*CompoundState)
	if len(coords) != state.Len() {
		t.Fatalf("fixture expects %d coordinates, got %d", state.Len(), len(coords))
	}
	for i, c := range coords {
		child, ok := state.Get(i).(*RealVectorState)
		if !ok {
			t.Fatalf("child %d is %T, want *RealVectorState", i, state.Get(i))
		}
		if err := child.SetValues(c); err != nil {
			t.Fatalf("SetValues: %v", err)
		}
	}
	return state
}

func TestCompoundRequiresComponents(t *testing.T) {
	if _, err := NewCompoundStateSpace(nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for empty composition, got %v", err)
	}
	if _, err := NewCompoundStateSpace([]StateSpace{}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for empty composition, got %v", err)
	}
	if _, err := NewCompoundStateSpace([]StateSpace{nil}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for nil component, got %v", err)
	}
}

func TestCompoundDistanceSumsChildren(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 3, 4)

	d, err := sp.Distance(a, b)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if !almostEqual(d, 7) {
		t.Fatalf("Distance = %v, want 7 (|3-0| + |4-0|)", d)
	}

	daa, _ := sp.Distance(a, a)
	if daa != 0 {
		t.Fatalf("Distance(a, a) = %v, want 0", daa)
	}
	dba, _ := sp.Distance(b, a)
	if !almostEqual(d, dba) {
		t.Fatalf("distance not symmetric: %v vs %v", d, dba)
	}
}

func TestCompoundDistanceRespectsWeights(t *testing.T) {
	x := mustRealVector(t, 1, WithName("x"))
	y := mustRealVector(t, 1, WithName("y"))
	sp, err := NewCompoundStateSpace([]StateSpace{x, y}, WithWeights(2.0, 0.5))
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 3, 4)

	d, err := sp.Distance(a, b)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if !almostEqual(d, 2.0*3+0.5*4) {
		t.Fatalf("weighted distance = %v, want 8", d)
	}
}

func TestCompoundWeightValidation(t *testing.T) {
	x := mustRealVector(t, 1)
	y := mustRealVector(t, 1)
	components := []StateSpace{x, y}

	cases := []struct {
		name string
		opts []CompoundOption
	}{
		{name: "wrong count", opts: []CompoundOption{WithWeights(1.0)}},
		{name: "zero weight", opts: []CompoundOption{WithWeights(1.0, 0.0)}},
		{name: "negative weight", opts: []CompoundOption{WithWeight(0, -1.0)}},
		{name: "index out of range", opts: []CompoundOption{WithWeight(5, 1.0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCompoundStateSpace(components, tc.opts...); !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestCompoundSetWeight(t *testing.T) {
	sp := twoLineSpace(t)
	if err := sp.SetWeight(1, 3.0); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}
	if w, ok := sp.Weight(1); !ok || w != 3.0 {
		t.Fatalf("Weight(1) = %v, %v", w, ok)
	}
	if err := sp.SetWeight(1, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if err := sp.SetWeight(9, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestCompoundInterpolate(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 3, 4)

	mid, err := sp.Interpolate(a, b, 0.5)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	want := compoundPoint(t, sp, 1.5, 2.0)
	if !mid.Equal(want) {
		t.Fatalf("Interpolate(a, b, 0.5) mismatch")
	}

	atZero, _ := sp.Interpolate(a, b, 0)
	if !atZero.Equal(a) {
		t.Fatalf("Interpolate(a, b, 0) != a")
	}
	atOne, _ := sp.Interpolate(a, b, 1)
	if !atOne.Equal(b) {
		t.Fatalf("Interpolate(a, b, 1) != b")
	}
}

func TestCompoundInterpolateIntoOverwrites(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 2, 2)

	result := compoundPoint(t, sp, -5, 11)
	if err := sp.InterpolateInto(a, b, 0.5, result); err != nil {
		t.Fatalf("InterpolateInto: %v", err)
	}
	want := compoundPoint(t, sp, 1, 1)
	if !result.Equal(want) {
		t.Fatalf("residual data after InterpolateInto")
	}
}

func TestCompoundInterpolateIntoForeignResult(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 2, 2)

	z := mustRealVector(t, 1, WithName("z"))
	other, err := NewCompoundStateSpace([]StateSpace{z})
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}
	foreign := other.NewState().(*CompoundState)
	if err := foreign.Get(0).(*RealVectorState).SetValues(42); err != nil {
		t.Fatalf("SetValues: %v", err)
	}

	err = sp.InterpolateInto(a, b, 0.5, foreign)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if got := foreign.Get(0).(*RealVectorState).Values()[0]; got != 42 {
		t.Fatalf("failed call mutated result: %v", got)
	}
}

func TestCompoundInterpolateIntoComponentEvaluationFailure(t *testing.T) {
	pos := mustRealVector(t, 1, WithName("pos"))
	// Interpolation expression yields two values for a one-dimensional
	// space, so the child fails only at evaluation time.
	warped := mustExprSpace(t, 1, "abs(a[0]-b[0])",
		ExprSpaceWithName("warped"),
		ExprSpaceWithInterpolation("[a[0], b[0]]"))
	sp, err := NewCompoundStateSpace([]StateSpace{pos, warped})
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}

	from := sp.NewState().(*CompoundState)
	to := sp.NewState().(*CompoundState)
	if err := to.Get(0).(*RealVectorState).SetValues(2); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	if err := to.Get(1).(*ExprState).SetValues(4); err != nil {
		t.Fatalf("SetValues: %v", err)
	}

	result := sp.NewState().(*CompoundState)
	err = sp.InterpolateInto(from, to, 0.5, result)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	// Validation passed, so components before the failing one commit.
	if got := result.Get(0).(*RealVectorState).Values()[0]; !almostEqual(got, 1) {
		t.Fatalf("position component = %v, want 1", got)
	}
	if got := result.Get(1).(*ExprState).Values()[0]; got != 0 {
		t.Fatalf("failing component mutated result: %v", got)
	}
}

func TestCompoundCountSegmentsMaxPolicy(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 3, 4)

	got, err := sp.CountSegments(a, b)
	if err != nil {
		t.Fatalf("CountSegments: %v", err)
	}
	if got != 4 {
		t.Fatalf("CountSegments = %d, want max(ceil(3/1), ceil(4/1)) = 4", got)
	}
}

func TestCompoundSegmentLengthPropagates(t *testing.T) {
	sp := twoLineSpace(t)
	if err := sp.SetSegmentLength(0.5); err != nil {
		t.Fatalf("SetSegmentLength: %v", err)
	}
	for i := 0; i < 2; i++ {
		child, _ := sp.Subspace(i)
		if got := child.SegmentLength(); got != 0.5 {
			t.Fatalf("child %d segment length = %v, want 0.5", i, got)
		}
	}

	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 3, 4)
	got, err := sp.CountSegments(a, b)
	if err != nil {
		t.Fatalf("CountSegments: %v", err)
	}
	if got != 8 {
		t.Fatalf("CountSegments = %d, want 8 after halving the step", got)
	}
}

func TestCompoundContains(t *testing.T) {
	se2, err := NewSE2StateSpace(0.5)
	if err != nil {
		t.Fatalf("NewSE2StateSpace: %v", err)
	}
	so2 := mustSO2(t)
	r2 := mustRealVector(t, 2)
	r3 := mustRealVector(t, 3)

	if !se2.Contains(se2) {
		t.Fatalf("a space should contain itself")
	}
	if !se2.Contains(so2) {
		t.Fatalf("SE2 should contain an SO2 component")
	}
	if !se2.Contains(r2) {
		t.Fatalf("SE2 should contain a 2-D real vector component")
	}
	if se2.Contains(r3) {
		t.Fatalf("SE2 should not contain a 3-D real vector")
	}
	if so2.Contains(se2) {
		t.Fatalf("a leaf should not contain a compound")
	}
	if !so2.Contains(so2) {
		t.Fatalf("a leaf should contain itself")
	}
}

func TestCompoundCoversDistinctFromContains(t *testing.T) {
	se2, err := NewSE2StateSpace(1.0)
	if err != nil {
		t.Fatalf("NewSE2StateSpace: %v", err)
	}

	// A compound over just a rotation: not a member of SE2's component list,
	// but every one of its components is.
	yaw := mustSO2(t, WithName("yaw"))
	rotOnly, err := NewCompoundStateSpace([]StateSpace{yaw})
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}

	if se2.Contains(rotOnly) {
		t.Fatalf("Contains should not accept a restructured compound")
	}
	if !se2.Covers(rotOnly) {
		t.Fatalf("Covers should accept a compound made of contained components")
	}

	r5 := mustRealVector(t, 5)
	mixed, err := NewCompoundStateSpace([]StateSpace{yaw, r5})
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}
	if se2.Covers(mixed) {
		t.Fatalf("Covers should reject a compound with an uncontained component")
	}

	so2 := mustSO2(t)
	if !so2.Covers(so2) {
		t.Fatalf("a leaf should cover itself")
	}
	if so2.Covers(se2) {
		t.Fatalf("a leaf should not cover a compound")
	}
}

func TestCompoundSubspaceAddressing(t *testing.T) {
	se2, err := NewSE2StateSpace(0.3)
	if err != nil {
		t.Fatalf("NewSE2StateSpace: %v", err)
	}

	if se2.Name() != "SE2" {
		t.Fatalf("name = %q, want SE2", se2.Name())
	}
	if got := se2.Dimension(); got != 3 {
		t.Fatalf("Dimension = %d, want 3", got)
	}

	rot, ok := se2.SubspaceByName("rotation")
	if !ok {
		t.Fatalf("rotation subspace not found")
	}
	if _, isSO2 := rot.(*SO2StateSpace); !isSO2 {
		t.Fatalf("rotation subspace is %T", rot)
	}
	idx, ok := se2.SubspaceIndex("rotation")
	if !ok || idx != 1 {
		t.Fatalf("SubspaceIndex(rotation) = %d, %v", idx, ok)
	}
	if w, ok := se2.Weight(1); !ok || w != 0.3 {
		t.Fatalf("rotation weight = %v, %v", w, ok)
	}
	if _, ok := se2.SubspaceByName("gripper"); ok {
		t.Fatalf("unexpected subspace")
	}
	if _, ok := se2.Subspace(7); ok {
		t.Fatalf("out-of-range subspace lookup should fail")
	}
}

func TestCompoundDefaultNameJoinsChildren(t *testing.T) {
	x := mustRealVector(t, 1, WithName("x"))
	y := mustRealVector(t, 1, WithName("y"))
	sp, err := NewCompoundStateSpace([]StateSpace{x, y})
	if err != nil {
		t.Fatalf("NewCompoundStateSpace: %v", err)
	}
	if sp.Name() != "x+y" {
		t.Fatalf("default name = %q, want x+y", sp.Name())
	}
}

func TestCompoundStateCloneAndEqual(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 1, 2)
	clone := a.Clone().(*CompoundState)

	if !clone.Equal(a) {
		t.Fatalf("clone not equal to original")
	}
	if err := clone.Get(0).(*RealVectorState).SetValues(9); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	if clone.Equal(a) {
		t.Fatalf("clone still equal after mutation")
	}
	if got := a.Get(0).(*RealVectorState).Values()[0]; got != 1 {
		t.Fatalf("mutating clone leaked into original: %v", got)
	}
}

func TestCompoundHeterogeneousChildren(t *testing.T) {
	se2, err := NewSE2StateSpace(1.0)
	if err != nil {
		t.Fatalf("NewSE2StateSpace: %v", err)
	}

	a := se2.NewState().(*CompoundState)
	b := se2.NewState().(*CompoundState)
	if err := a.Get(0).(*RealVectorState).SetValues(0, 0); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	a.Get(1).(*SO2State).SetAngle(0)
	if err := b.Get(0).(*RealVectorState).SetValues(3, 4); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	b.Get(1).(*SO2State).SetAngle(math.Pi / 2)

	d, err := se2.Distance(a, b)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if !almostEqual(d, 5+math.Pi/2) {
		t.Fatalf("Distance = %v, want 5 + pi/2", d)
	}

	mid, err := se2.Interpolate(a, b, 0.5)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	midState := mid.(*CompoundState)
	pos := midState.Get(0).(*RealVectorState).Values()
	if !almostEqual(pos[0], 1.5) || !almostEqual(pos[1], 2.0) {
		t.Fatalf("mid position = %v", pos)
	}
	if got := midState.Get(1).(*SO2State).Angle(); !almostEqual(got, math.Pi/4) {
		t.Fatalf("mid angle = %v, want pi/4", got)
	}
}

func TestCompoundConcurrentReads(t *testing.T) {
	sp := twoLineSpace(t)
	a := compoundPoint(t, sp, 0, 0)
	b := compoundPoint(t, sp, 3, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if d, err := sp.Distance(a, b); err != nil || !almostEqual(d, 7) {
					t.Errorf("Distance = %v, %v", d, err)
					return
				}
				if _, err := sp.Interpolate(a, b, 0.25); err != nil {
					t.Errorf("Interpolate: %v", err)
					return
				}
				if n, err := sp.CountSegments(a, b); err != nil || n != 4 {
					t.Errorf("CountSegments = %d, %v", n, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
