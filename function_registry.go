package spaces

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Function represents a callable registered against metric evaluators.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by name, so user-tuned terms
// (penalties, unit conversions) can be called from metric expressions.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// NewMathFunctionRegistry constructs a registry pre-loaded with the helpers
// metric expressions tend to need: hypot, wrap (angle normalization into
// (-π, π]), and clamp.
func NewMathFunctionRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("hypot", func(args ...any) (any, error) {
		x, y, err := twoFloats("hypot", args)
		if err != nil {
			return nil, err
		}
		return math.Hypot(x, y), nil
	})
	_ = r.Register("wrap", func(args ...any) (any, error) {
		a, err := oneFloat("wrap", args)
		if err != nil {
			return nil, err
		}
		return normalizeAngle(a), nil
	})
	_ = r.Register("clamp", func(args ...any) (any, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("spaces: clamp expects 3 arguments, got %d", len(args))
		}
		v, err := asFloat("clamp", args[0])
		if err != nil {
			return nil, err
		}
		lo, err := asFloat("clamp", args[1])
		if err != nil {
			return nil, err
		}
		hi, err := asFloat("clamp", args[2])
		if err != nil {
			return nil, err
		}
		return math.Min(math.Max(v, lo), hi), nil
	})
	return r
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("spaces: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("spaces: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("spaces: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("spaces: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("spaces: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func asFloat(fn string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("spaces: %s expects numeric arguments, got %T", fn, v)
	}
}

func oneFloat(fn string, args []any) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("spaces: %s expects 1 argument, got %d", fn, len(args))
	}
	return asFloat(fn, args[0])
}

func twoFloats(fn string, args []any) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("spaces: %s expects 2 arguments, got %d", fn, len(args))
	}
	x, err := asFloat(fn, args[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := asFloat(fn, args[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
