package fixture

import (
	jsoniter "github.com/json-iterator/go"
)

// Trace records the slice expansions performed while resolving a target.
type Trace struct {
	Target string `json:"target"`
	Steps  []Step `json:"steps"`
}

// Step describes one slice expansion.
type Step struct {
	ID        string   `json:"id"`
	Depth     int      `json:"depth"`
	Overrides []string `json:"overrides,omitempty"`
	Found     bool     `json:"found"`
	Origin    string   `json:"origin,omitempty"`
}

// Missing returns the identifiers that were not found.
func (t Trace) Missing() []string {
	var out []string
	for _, step := range t.Steps {
		if !step.Found {
			out = append(out, step.ID)
		}
	}
	return out
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Trace resolves target and returns the expansions it required together with
// the resolved snapshot.
func (f *Factory) Trace(target any) (Trace, any, error) {
	ref, err := toSliceRef(target)
	if err != nil {
		return Trace{}, nil, err
	}
	trace := &Trace{Target: ref.ID}
	value, err := f.resolveTarget(ref, trace)
	if err != nil {
		return *trace, nil, err
	}
	return *trace, value.Interface(), nil
}
