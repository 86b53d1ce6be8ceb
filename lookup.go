package fixture

import layering "github.com/goliatone/go-fixture/layering"

// Lookup returns the library fragment for target with call-site overrides
// merged in. The result may still be a slice reference.
func (f *Factory) Lookup(target any) (Value, error) {
	ref, err := toSliceRef(target)
	if err != nil {
		return Value{}, err
	}
	res := f.newResolution(nil)
	value, _ := res.lookup(ref)
	if err := res.err(); err != nil {
		return Value{}, err
	}
	return value, nil
}

// lookup fetches the entry for ref and merges its overrides without
// touching the library.
func (r *resolution) lookup(ref SliceRef) (Value, bool) {
	entry, ok := r.entry(ref.ID)
	if !ok {
		return Value{}, false
	}
	return r.applyOverrides(ref.ID, entry, ref.Overrides), true
}

func (r *resolution) entry(id string) (Value, bool) {
	entry, ok := r.library.Lookup(id)
	if !ok {
		r.missingSlice(id)
		return Value{}, false
	}
	return entry, true
}

// applyOverrides layers call-site overrides onto entry:
//   - entry is a reference with overrides: entry overrides win over the caller's.
//   - entry is a reference without overrides: caller overrides carry down.
//   - entry is a mapping: caller overrides win over entry fields.
func (r *resolution) applyOverrides(id string, entry Value, overrides map[string]Value) Value {
	if len(overrides) == 0 {
		return entry
	}

	switch entry.Kind() {
	case KindSlice:
		base, _ := entry.SliceRef()
		next := SliceRef{ID: base.ID, Model: base.Model}
		if base.HasOverrides() {
			next.Overrides = layering.Merge(base.Overrides, overrides)
		} else {
			next.Overrides = layering.Merge(overrides)
		}
		return SliceValue(next)
	case KindMapping:
		return Value{kind: KindMapping, fields: layering.Merge(overrides, entry.fields)}
	default:
		r.logger.LogDiagnostic(Diagnostic{
			Level:   LevelWarn,
			SliceID: id,
			Chain:   r.chainCopy(),
			Message: "overrides ignored on " + entry.Kind().String() + " slice",
		})
		return entry
	}
}
