package fixture

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// resolution holds the state of one resolve call. The factory and library
// are never written to; everything mutable lives here.
type resolution struct {
	library  *Library
	logger   Logger
	strict   bool
	instance Instance

	chain   []string
	missing *multierror.Error
	trace   *Trace
}

func (f *Factory) newResolution(instance Instance) *resolution {
	return &resolution{
		library:  f.library,
		logger:   f.cfg.logger,
		strict:   f.cfg.strict,
		instance: instance,
	}
}

// Resolve expands every slice reference in value until no reference is
// left. Missing slices resolve to Undefined and are logged unless the
// factory is strict.
func (f *Factory) Resolve(value any) (Value, error) {
	res := f.newResolution(nil)
	out, err := res.resolve(From(value))
	if err != nil {
		return Value{}, err
	}
	if err := res.err(); err != nil {
		return Value{}, err
	}
	return out, nil
}

// Snapshot looks up target, resolves it and returns plain Go data.
func (f *Factory) Snapshot(target any) (any, error) {
	value, err := f.resolveTarget(target, nil)
	if err != nil {
		return nil, err
	}
	return value.Interface(), nil
}

func (f *Factory) resolveTarget(target any, trace *Trace) (Value, error) {
	ref, err := toSliceRef(target)
	if err != nil {
		return Value{}, err
	}
	res := f.newResolution(nil)
	res.trace = trace
	out, err := res.expand(ref)
	if err != nil {
		return Value{}, err
	}
	if err := res.err(); err != nil {
		return Value{}, err
	}
	return out, nil
}

func (r *resolution) resolve(value Value) (Value, error) {
	switch value.Kind() {
	case KindSequence:
		items := make([]Value, len(value.items))
		for i, item := range value.items {
			resolved, err := r.resolve(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = resolved
		}
		return Value{kind: KindSequence, items: items}, nil
	case KindMapping:
		fields := make(map[string]Value, len(value.fields))
		for key, field := range value.fields {
			resolved, err := r.resolve(field)
			if err != nil {
				return Value{}, err
			}
			fields[key] = resolved
		}
		return Value{kind: KindMapping, fields: fields}, nil
	case KindSlice:
		return r.expand(*value.slice)
	case KindPath:
		return r.resolvePath(*value.path)
	default:
		return value, nil
	}
}

func (r *resolution) expand(ref SliceRef) (Value, error) {
	for _, id := range r.chain {
		if id == ref.ID {
			chain := append(r.chainCopy(), ref.ID)
			return Value{}, &CycleError{Chain: chain}
		}
	}

	entry, found := r.entry(ref.ID)
	r.record(ref, found)
	if !found {
		return Value{}, nil
	}

	// Call-site overrides belong to the caller, so they resolve against the
	// chain as it was before this hop.
	overrides, err := r.resolveOverrides(ref.Overrides)
	if err != nil {
		return Value{}, err
	}
	fragment := r.applyOverrides(ref.ID, entry, overrides)

	r.chain = append(r.chain, ref.ID)
	defer func() { r.chain = r.chain[:len(r.chain)-1] }()
	return r.resolve(fragment)
}

func (r *resolution) resolveOverrides(overrides map[string]Value) (map[string]Value, error) {
	if len(overrides) == 0 {
		return nil, nil
	}
	out := make(map[string]Value, len(overrides))
	for key, value := range overrides {
		resolved, err := r.resolve(value)
		if err != nil {
			return nil, err
		}
		out[key] = resolved
	}
	return out, nil
}

func (r *resolution) resolvePath(ref PathRef) (Value, error) {
	if r.instance == nil {
		return Value{}, fmt.Errorf("%w: %q", ErrUnboundPath, ref.Path)
	}
	node, err := r.instance.Resolve(ref.Path)
	if err != nil {
		return Value{}, fmt.Errorf("fixture: resolve path %q: %w", ref.Path, err)
	}
	return Scalar(node), nil
}

func (r *resolution) missingSlice(id string) {
	err := &MissingSliceError{ID: id, Chain: r.chainCopy()}
	if r.strict {
		r.missing = multierror.Append(r.missing, err)
		return
	}
	r.logger.LogDiagnostic(Diagnostic{
		Level:   LevelWarn,
		SliceID: id,
		Chain:   err.Chain,
		Message: "no slice at identifier",
		Err:     err,
	})
}

func (r *resolution) record(ref SliceRef, found bool) {
	if r.trace == nil {
		return
	}
	r.trace.Steps = append(r.trace.Steps, Step{
		ID:        ref.ID,
		Depth:     len(r.chain),
		Overrides: ref.OverrideKeys(),
		Found:     found,
		Origin:    r.library.Origin(ref.ID),
	})
}

// err returns the aggregated missing-slice error collected in strict mode.
func (r *resolution) err() error {
	if r.missing == nil {
		return nil
	}
	return r.missing.ErrorOrNil()
}

func (r *resolution) chainCopy() []string {
	if len(r.chain) == 0 {
		return nil
	}
	out := make([]string, len(r.chain))
	copy(out, r.chain)
	return out
}
