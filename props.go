package fixture

import "fmt"

// CreateProps resolves props against instance. Path references become live
// nodes of the instance; every other value is resolved like a slice. props
// may be a mapping or a reference to a mapping slice in the library.
func (f *Factory) CreateProps(instance Instance, props any) (map[string]any, error) {
	if instance == nil {
		return nil, fmt.Errorf("fixture: props require an instance")
	}

	res := f.newResolution(instance)
	source, err := f.propsSource(res, props)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, source.Len())
	for key, value := range source.fields {
		resolved, err := res.resolve(value)
		if err != nil {
			return nil, fmt.Errorf("fixture: prop %q: %w", key, err)
		}
		out[key] = resolved.Interface()
	}
	if err := res.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Factory) propsSource(res *resolution, props any) (Value, error) {
	var value Value
	switch typed := props.(type) {
	case string:
		value = SliceValue(SliceRef{ID: typed})
	default:
		value = From(props)
	}

	var seen []string
	for value.Kind() == KindSlice {
		ref, _ := value.SliceRef()
		for _, id := range seen {
			if id == ref.ID {
				return Value{}, &CycleError{Chain: append(seen, ref.ID)}
			}
		}
		seen = append(seen, ref.ID)
		next, found := res.lookup(ref)
		if !found {
			return Mapping(nil), nil
		}
		value = next
	}

	switch value.Kind() {
	case KindMapping:
		return value, nil
	case KindUndefined:
		return Mapping(nil), nil
	default:
		return Value{}, fmt.Errorf("%w: props must be a mapping, got %s", ErrInvalidTarget, value.Kind())
	}
}
