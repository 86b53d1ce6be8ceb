package fixture

import "sort"

// Kind discriminates the shape held by a Value.
type Kind uint8

const (
	// KindUndefined is the zero Value, produced by missing slice lookups.
	KindUndefined Kind = iota
	// KindScalar holds an opaque Go value that is never recursed into.
	KindScalar
	// KindSequence holds an ordered list of values.
	KindSequence
	// KindMapping holds a set of named values.
	KindMapping
	// KindSlice holds a reference into the slice library.
	KindSlice
	// KindPath holds a structural path into a built instance.
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindSlice:
		return "slice"
	case KindPath:
		return "path"
	default:
		return "undefined"
	}
}

// Value is a node of a fixture tree. The kind is fixed when the value is
// constructed; resolution dispatches on it instead of inspecting Go types.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	fields map[string]Value
	slice  *SliceRef
	path   *PathRef
}

// Undefined returns the zero Value.
func Undefined() Value {
	return Value{}
}

// Scalar wraps v as an opaque leaf.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Sequence builds an ordered list value.
func Sequence(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindSequence, items: out}
}

// Mapping builds a mapping value. The map is copied.
func Mapping(fields map[string]Value) Value {
	out := make(map[string]Value, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return Value{kind: KindMapping, fields: out}
}

// SliceValue wraps a slice reference.
func SliceValue(ref SliceRef) Value {
	ref = ref.clone()
	return Value{kind: KindSlice, slice: &ref}
}

// PathValue wraps a path reference.
func PathValue(ref PathRef) Value {
	return Value{kind: KindPath, path: &ref}
}

// From converts plain Go data into a Value. Only []any, []Value,
// []map[string]any, map[string]any and map[string]Value are treated as
// containers; every other non-reference value becomes a Scalar.
func From(v any) Value {
	switch typed := v.(type) {
	case nil:
		return Undefined()
	case Value:
		return typed
	case *Value:
		if typed == nil {
			return Undefined()
		}
		return *typed
	case SliceRef:
		return SliceValue(typed)
	case *SliceRef:
		if typed == nil {
			return Undefined()
		}
		return SliceValue(*typed)
	case PathRef:
		return PathValue(typed)
	case *PathRef:
		if typed == nil {
			return Undefined()
		}
		return PathValue(*typed)
	case []Value:
		return Sequence(typed...)
	case []any:
		items := make([]Value, len(typed))
		for i, item := range typed {
			items[i] = From(item)
		}
		return Value{kind: KindSequence, items: items}
	case []map[string]any:
		items := make([]Value, len(typed))
		for i, item := range typed {
			items[i] = From(item)
		}
		return Value{kind: KindSequence, items: items}
	case map[string]Value:
		return Mapping(typed)
	case map[string]any:
		return Value{kind: KindMapping, fields: fromMap(typed)}
	default:
		return Scalar(v)
	}
}

func fromMap(in map[string]any) map[string]Value {
	out := make(map[string]Value, len(in))
	for key, value := range in {
		out[key] = From(value)
	}
	return out
}

// Kind reports the value shape.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndefined reports whether v is the zero Value.
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// Scalar returns the wrapped opaque value.
func (v Value) Scalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// Items returns a copy of the sequence elements.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Len returns the number of sequence items or mapping fields.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.fields)
	default:
		return 0
	}
}

// Field returns the named mapping field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	field, ok := v.fields[name]
	return field, ok
}

// Index returns the sequence item at i.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Fields returns a copy of the mapping fields.
func (v Value) Fields() map[string]Value {
	if v.kind != KindMapping {
		return nil
	}
	out := make(map[string]Value, len(v.fields))
	for key, value := range v.fields {
		out[key] = value
	}
	return out
}

// Keys returns the mapping keys sorted alphabetically.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for key := range v.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SliceRef returns the wrapped slice reference.
func (v Value) SliceRef() (SliceRef, bool) {
	if v.kind != KindSlice || v.slice == nil {
		return SliceRef{}, false
	}
	return v.slice.clone(), true
}

// PathRef returns the wrapped path reference.
func (v Value) PathRef() (PathRef, bool) {
	if v.kind != KindPath || v.path == nil {
		return PathRef{}, false
	}
	return *v.path, true
}

// Interface converts v into plain Go data. Undefined mapping fields are
// omitted, undefined sequence items become nil. References are returned as
// SliceRef / PathRef values.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for key, field := range v.fields {
			if field.IsUndefined() {
				continue
			}
			out[key] = field.Interface()
		}
		return out
	case KindSlice:
		if v.slice == nil {
			return nil
		}
		return v.slice.clone()
	case KindPath:
		if v.path == nil {
			return nil
		}
		return *v.path
	default:
		return nil
	}
}

// IsConcrete reports whether v contains no slice or path references.
func (v Value) IsConcrete() bool {
	switch v.kind {
	case KindSlice, KindPath:
		return false
	case KindSequence:
		for _, item := range v.items {
			if !item.IsConcrete() {
				return false
			}
		}
	case KindMapping:
		for _, field := range v.fields {
			if !field.IsConcrete() {
				return false
			}
		}
	}
	return true
}
