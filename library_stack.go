package fixture

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// LibraryLayer is a named set of library entries with a precedence. Higher
// priority values represent stronger layers.
type LibraryLayer struct {
	Name     string
	Priority int
	Entries  *Library
}

// NewLibraryLayer pairs entries with a name and priority. Validation is
// deferred to stack construction so callers can assemble layers before
// deciding precedence.
func NewLibraryLayer(name string, priority int, entries *Library) LibraryLayer {
	return LibraryLayer{Name: name, Priority: priority, Entries: entries}
}

var (
	// ErrLayerNameRequired indicates a layer without a name.
	ErrLayerNameRequired = errors.New("library: layer name must be provided")
	// ErrDuplicateLayerName indicates multiple layers share a name.
	ErrDuplicateLayerName = errors.New("library: layer names must be unique")
	// ErrLayerPriorityOrder indicates duplicate layer priorities.
	ErrLayerPriorityOrder = errors.New("library: layer priorities must be strictly ordered")
)

// LibraryStack orders library layers from strongest to weakest.
type LibraryStack struct {
	layers []LibraryLayer
}

// NewLibraryStack validates and sorts layers so that the strongest layer
// (highest priority) comes first.
func NewLibraryStack(layers ...LibraryLayer) (*LibraryStack, error) {
	if len(layers) == 0 {
		return &LibraryStack{}, nil
	}

	seen := make(map[string]struct{}, len(layers))
	copied := make([]LibraryLayer, len(layers))
	for i, layer := range layers {
		if layer.Name == "" {
			return nil, ErrLayerNameRequired
		}
		if _, ok := seen[layer.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLayerName, layer.Name)
		}
		seen[layer.Name] = struct{}{}
		copied[i] = layer
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Priority == copied[j].Priority {
			return copied[i].Name < copied[j].Name
		}
		return copied[i].Priority > copied[j].Priority
	})

	for i := 1; i < len(copied); i++ {
		if copied[i-1].Priority <= copied[i].Priority {
			return nil, fmt.Errorf("%w: %d", ErrLayerPriorityOrder, copied[i].Priority)
		}
	}

	return &LibraryStack{layers: copied}, nil
}

// Layers returns the layers, strongest first.
func (s *LibraryStack) Layers() []LibraryLayer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]LibraryLayer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Len returns the number of layers in the stack.
func (s *LibraryStack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge folds the stack into a single library. Mappings present in several
// layers are merged recursively, the same way LoadLibrary merges files; any
// other entry is taken whole from the strongest layer defining it. The
// returned library records which layer contributed each entry, see
// Library.Origin.
func (s *LibraryStack) Merge() (*Library, error) {
	if s == nil || len(s.layers) == 0 {
		return nil, fmt.Errorf("library: stack must include at least one layer")
	}
	origins := map[string]string{}
	root := Mapping(nil)
	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		root = overlay(root, layer.Entries.Root(), layer.Name, "", origins)
	}
	return &Library{root: root, origins: origins}, nil
}

// overlay lays strong over weak. Both stay untouched; shared mappings are
// rebuilt.
func overlay(weak, strong Value, layer, at string, origins map[string]string) Value {
	if weak.Kind() != KindMapping || strong.Kind() != KindMapping {
		markOrigins(layer, at, origins)
		return strong
	}
	fields := make(map[string]Value, len(weak.fields)+len(strong.fields))
	for key, value := range weak.fields {
		fields[key] = value
	}
	for key, value := range strong.fields {
		path := joinPath(at, key)
		if existing, ok := fields[key]; ok {
			fields[key] = overlay(existing, value, layer, path, origins)
			continue
		}
		markOrigins(layer, path, origins)
		fields[key] = value
	}
	return Value{kind: KindMapping, fields: fields}
}

// markOrigins records layer for at and drops stale records beneath it.
func markOrigins(layer, at string, origins map[string]string) {
	if at == "" {
		return
	}
	prefix := at + "."
	for key := range origins {
		if strings.HasPrefix(key, prefix) {
			delete(origins, key)
		}
	}
	origins[at] = layer
}
