package spaces

import (
	"math"
	"testing"
)

func TestFunctionRegistryRegisterAndCall(t *testing.T) {
	r := NewFunctionRegistry()
	if err := r.Register("", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("empty name should be rejected")
	}
	if err := r.Register("scale", nil); err == nil {
		t.Fatalf("nil function should be rejected")
	}

	if err := r.Register("scale", func(args ...any) (any, error) {
		v, err := oneFloat("scale", args)
		if err != nil {
			return nil, err
		}
		return 10 * v, nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("SCALE", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("duplicate registration should be rejected case-insensitively")
	}

	out, err := r.Call("Scale", 1.5)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out.(float64) != 15 {
		t.Fatalf("Call = %v, want 15", out)
	}
	if _, err := r.Call("missing"); err == nil {
		t.Fatalf("missing function should error")
	}
}

func TestFunctionRegistryCloneDetached(t *testing.T) {
	r := NewFunctionRegistry()
	_ = r.Register("one", func(args ...any) (any, error) { return 1.0, nil })

	clone := r.Clone()
	_ = clone.Register("two", func(args ...any) (any, error) { return 2.0, nil })

	if _, err := r.Call("two"); err == nil {
		t.Fatalf("registering on clone should not affect original")
	}
	if got := clone.Names(); len(got) != 2 {
		t.Fatalf("clone names = %v", got)
	}
}

func TestMathFunctionRegistryBuiltins(t *testing.T) {
	r := NewMathFunctionRegistry()

	out, err := r.Call("hypot", 3.0, 4.0)
	if err != nil {
		t.Fatalf("hypot: %v", err)
	}
	if out.(float64) != 5 {
		t.Fatalf("hypot = %v, want 5", out)
	}

	out, err = r.Call("wrap", 3*math.Pi)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if !almostEqual(out.(float64), math.Pi) {
		t.Fatalf("wrap(3pi) = %v, want pi", out)
	}

	out, err = r.Call("clamp", 5.0, 0.0, 1.0)
	if err != nil {
		t.Fatalf("clamp: %v", err)
	}
	if out.(float64) != 1 {
		t.Fatalf("clamp = %v, want 1", out)
	}

	if _, err := r.Call("hypot", 1.0); err == nil {
		t.Fatalf("hypot arity should be enforced")
	}
	if _, err := r.Call("wrap", "angle"); err == nil {
		t.Fatalf("non-numeric argument should be rejected")
	}
}
