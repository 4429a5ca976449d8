package spaces

import (
	"encoding/json"
)

// DistanceTrace captures how each component of a compound space contributed
// to an aggregated distance, for tuning weights across heterogeneous units.
type DistanceTrace struct {
	Space      string              `json:"space"`
	Total      float64             `json:"total"`
	Components []ComponentDistance `json:"components"`
}

// ComponentDistance details a single component's contribution to a traced
// distance.
type ComponentDistance struct {
	Index    int     `json:"index"`
	Space    string  `json:"space"`
	Weight   float64 `json:"weight"`
	Distance float64 `json:"distance"`
	Weighted float64 `json:"weighted"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t DistanceTrace) ToJSON() ([]byte, error) {
	type alias DistanceTrace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (DistanceTrace, error) {
	type alias DistanceTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return DistanceTrace{}, err
	}
	return DistanceTrace(trace), nil
}

// TraceDistance computes Distance(a, b) while recording every component's
// raw and weighted contribution. Same validation and error behaviour as
// Distance.
func (sp *CompoundStateSpace) TraceDistance(a, b State) (DistanceTrace, error) {
	av, err := sp.checkState(a)
	if err != nil {
		return DistanceTrace{}, err
	}
	bv, err := sp.checkState(b)
	if err != nil {
		return DistanceTrace{}, err
	}
	trace := DistanceTrace{
		Space:      sp.name,
		Components: make([]ComponentDistance, 0, len(sp.components)),
	}
	for i, c := range sp.components {
		d, err := c.Distance(av.values[i], bv.values[i])
		if err != nil {
			return DistanceTrace{}, err
		}
		weighted := sp.weights[i] * d
		trace.Components = append(trace.Components, ComponentDistance{
			Index:    i,
			Space:    c.Name(),
			Weight:   sp.weights[i],
			Distance: d,
			Weighted: weighted,
		})
		trace.Total += weighted
	}
	return trace, nil
}
