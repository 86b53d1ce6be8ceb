package fixture

import (
	"strconv"
	"strings"
)

// Library is an immutable tree of named slices addressed by dotted
// identifiers such as "todo.default".
type Library struct {
	root    Value
	origins map[string]string
}

// NewLibrary converts data into a library. Slice references are declared
// with Slice and path references with Path.
func NewLibrary(data map[string]any) *Library {
	return &Library{root: Value{kind: KindMapping, fields: fromMap(data)}}
}

// NewLibraryFromValue wraps an existing mapping value.
func NewLibraryFromValue(root Value) *Library {
	if root.Kind() != KindMapping {
		root = Mapping(nil)
	}
	return &Library{root: root}
}

// Root returns the library tree.
func (l *Library) Root() Value {
	if l == nil {
		return Mapping(nil)
	}
	return l.root
}

// Lookup walks id segment by segment through mappings and, for numeric
// segments, sequences.
func (l *Library) Lookup(id string) (Value, bool) {
	if l == nil || id == "" {
		return Value{}, false
	}
	current := l.root
	for _, segment := range strings.Split(id, ".") {
		switch current.Kind() {
		case KindMapping:
			next, ok := current.Field(segment)
			if !ok {
				return Value{}, false
			}
			current = next
		case KindSequence:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return Value{}, false
			}
			next, ok := current.Index(index)
			if !ok {
				return Value{}, false
			}
			current = next
		default:
			return Value{}, false
		}
	}
	if current.IsUndefined() {
		return Value{}, false
	}
	return current, true
}

// Has reports whether id resolves to an entry.
func (l *Library) Has(id string) bool {
	_, ok := l.Lookup(id)
	return ok
}

// Origin returns the name of the library layer that contributed id, walking
// up to the nearest recorded ancestor. Origins are recorded by
// LibraryStack.Merge and the file loaders; other libraries report "".
func (l *Library) Origin(id string) string {
	if l == nil || len(l.origins) == 0 {
		return ""
	}
	for key := id; key != ""; {
		if origin, ok := l.origins[key]; ok {
			return origin
		}
		idx := strings.LastIndex(key, ".")
		if idx < 0 {
			break
		}
		key = key[:idx]
	}
	return ""
}
