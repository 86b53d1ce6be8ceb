package layering

import (
	"reflect"
	"testing"
)

type layeringSettings struct {
	Enabled   *bool
	Limits    map[string]int
	Channel   *layeringChannel
	Tags      []string
	Threshold *int
}

type layeringChannel struct {
	Enabled *bool
	Volume  *int
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestMergeLayersFillsMissingFromWeaker(t *testing.T) {
	cases := []struct {
		name   string
		layers []layeringSettings
		expect layeringSettings
	}{
		{
			name: "strong pointer wins",
			layers: []layeringSettings{
				{Enabled: boolPtr(false)},
				{Enabled: boolPtr(true), Threshold: intPtr(3)},
			},
			expect: layeringSettings{Enabled: boolPtr(false), Threshold: intPtr(3)},
		},
		{
			name: "maps merge key by key",
			layers: []layeringSettings{
				{Limits: map[string]int{"daily": 5}},
				{Limits: map[string]int{"daily": 1, "weekly": 10}},
			},
			expect: layeringSettings{Limits: map[string]int{"daily": 5, "weekly": 10}},
		},
		{
			name: "nested pointer structs merge",
			layers: []layeringSettings{
				{Channel: &layeringChannel{Volume: intPtr(2)}},
				{Channel: &layeringChannel{Enabled: boolPtr(true), Volume: intPtr(9)}},
			},
			expect: layeringSettings{Channel: &layeringChannel{Enabled: boolPtr(true), Volume: intPtr(2)}},
		},
		{
			name: "slices replace",
			layers: []layeringSettings{
				{Tags: []string{"a"}},
				{Tags: []string{"b", "c"}},
			},
			expect: layeringSettings{Tags: []string{"a"}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := MergeLayers(tc.layers...)
			if !reflect.DeepEqual(tc.expect, got) {
				t.Errorf("merged snapshot mismatch:\nwant: %#v\n got: %#v", tc.expect, got)
			}
		})
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	type sample struct {
		Value int
	}
	var zero sample
	if got := MergeLayers[sample](); got != zero {
		t.Fatalf("expected MergeLayers() to return zero value, got %+v", got)
	}
}

func TestMergeStrongestFirst(t *testing.T) {
	strong := map[string]int{"a": 1}
	weak := map[string]int{"a": 9, "b": 2}

	got := Merge(strong, weak)
	want := map[string]int{"a": 1, "b": 2}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}

	got["c"] = 3
	if _, ok := strong["c"]; ok {
		t.Fatalf("merge must not alias its inputs")
	}
	if weak["a"] != 9 {
		t.Fatalf("weak layer mutated: %v", weak)
	}
}

func TestMergeNoLayers(t *testing.T) {
	got := Merge[string, int]()
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", got)
	}
}

func TestCloneDetachesMaps(t *testing.T) {
	original := map[string]any{"nested": map[string]any{"k": "v"}, "list": []any{1, 2}}
	cloned := Clone(original)

	cloned["nested"].(map[string]any)["k"] = "changed"
	cloned["list"].([]any)[0] = 99

	if original["nested"].(map[string]any)["k"] != "v" {
		t.Fatalf("clone shares nested map with original")
	}
	if original["list"].([]any)[0] != 1 {
		t.Fatalf("clone shares slice with original")
	}
}
