package spaces

import "encoding/json"

// SpaceKind names the family a space belongs to inside a Descriptor.
type SpaceKind string

const (
	// KindRealVector identifies Euclidean real-vector spaces.
	KindRealVector SpaceKind = "real_vector"
	// KindSO2 identifies planar-rotation spaces.
	KindSO2 SpaceKind = "so2"
	// KindCompound identifies product spaces over ordered components.
	KindCompound SpaceKind = "compound"
	// KindExpr identifies expression-defined metric spaces.
	KindExpr SpaceKind = "expr"
)

// Descriptor is a structural summary of a space: its kind, dimensionality,
// and, for compounds, the ordered component descriptors with their weights.
// It is the equality notion behind Contains and Covers, and serialises to
// JSON for diagnostics. Names and segment lengths are informational and do
// not take part in structural comparison.
type Descriptor struct {
	Kind          SpaceKind    `json:"kind"`
	Name          string       `json:"name,omitempty"`
	Dimension     int          `json:"dimension"`
	SegmentLength float64      `json:"segment_length,omitempty"`
	Metric        string       `json:"metric,omitempty"`
	Components    []Descriptor `json:"components,omitempty"`
	Weights       []float64    `json:"weights,omitempty"`
}

// ToJSON serialises the descriptor for logging or transport helpers.
func (d Descriptor) ToJSON() ([]byte, error) {
	type alias Descriptor
	return json.Marshal(alias(d))
}

// DescriptorFromJSON deserialises a payload previously generated via ToJSON.
func DescriptorFromJSON(payload []byte) (Descriptor, error) {
	type alias Descriptor
	var d alias
	if err := json.Unmarshal(payload, &d); err != nil {
		return Descriptor{}, err
	}
	return Descriptor(d), nil
}

// StructurallyEqual reports whether two spaces share the same structure: the
// same kind and dimension, the same metric expression for expression-defined
// spaces, and for compounds structurally equal children in the same order.
// Identity, names, weights, and segment lengths are ignored.
func StructurallyEqual(a, b StateSpace) bool {
	if a == nil || b == nil {
		return false
	}
	return descriptorsEqual(a.Describe(), b.Describe())
}

func descriptorsEqual(a, b Descriptor) bool {
	if a.Kind != b.Kind || a.Dimension != b.Dimension || a.Metric != b.Metric {
		return false
	}
	if len(a.Components) != len(b.Components) {
		return false
	}
	for i := range a.Components {
		if !descriptorsEqual(a.Components[i], b.Components[i]) {
			return false
		}
	}
	return true
}
