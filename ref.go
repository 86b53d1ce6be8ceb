package fixture

// SliceRef points at a slice in the library by dotted identifier and carries
// optional field overrides applied where the reference is used.
type SliceRef struct {
	ID        string
	Model     string
	Overrides map[string]Value
}

// Slice builds a reference to the slice at id. Override maps are merged in
// order, later maps winning.
func Slice(id string, overrides ...map[string]any) SliceRef {
	ref := SliceRef{ID: id}
	for _, set := range overrides {
		if len(set) == 0 {
			continue
		}
		if ref.Overrides == nil {
			ref.Overrides = make(map[string]Value, len(set))
		}
		for key, value := range set {
			ref.Overrides[key] = From(value)
		}
	}
	return ref
}

// As pins the model name used when the reference is built, bypassing
// segment routing.
func (r SliceRef) As(model string) SliceRef {
	out := r.clone()
	out.Model = model
	return out
}

// HasOverrides reports whether the reference carries any override fields.
func (r SliceRef) HasOverrides() bool {
	return len(r.Overrides) > 0
}

// OverrideKeys returns the override field names sorted alphabetically.
func (r SliceRef) OverrideKeys() []string {
	if len(r.Overrides) == 0 {
		return nil
	}
	return Mapping(r.Overrides).Keys()
}

func (r SliceRef) clone() SliceRef {
	out := SliceRef{ID: r.ID, Model: r.Model}
	if len(r.Overrides) > 0 {
		out.Overrides = make(map[string]Value, len(r.Overrides))
		for key, value := range r.Overrides {
			out.Overrides[key] = value
		}
	}
	return out
}

// PathRef points at a node inside a built instance using JSON pointer
// syntax, e.g. "/todos/0".
type PathRef struct {
	Path string
}

// Path builds a path reference.
func Path(path string) PathRef {
	return PathRef{Path: path}
}

// PatchOp names a structural patch operation.
type PatchOp string

const (
	PatchAdd     PatchOp = "add"
	PatchReplace PatchOp = "replace"
	PatchRemove  PatchOp = "remove"
)

// Valid reports whether op is a supported operation.
func (op PatchOp) Valid() bool {
	switch op {
	case PatchAdd, PatchReplace, PatchRemove:
		return true
	default:
		return false
	}
}

// Patch describes a structural change applied after an instance is built.
// Value may itself contain slice references.
type Patch struct {
	Op    PatchOp
	Path  string
	Value Value
}

// NewPatch builds a patch descriptor, converting value with From.
func NewPatch(op PatchOp, path string, value any) Patch {
	return Patch{Op: op, Path: path, Value: From(value)}
}

// Operation is a resolved patch handed to the model runtime. It encodes as an
// RFC 6902 operation.
type Operation struct {
	Op    PatchOp `json:"op"`
	Path  string  `json:"path"`
	Value any     `json:"value"`
}
