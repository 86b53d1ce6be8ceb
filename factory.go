package fixture

import (
	"context"
	"fmt"

	"github.com/goliatone/go-fixture/pkg/activity"
	"github.com/google/uuid"
)

// Factory builds model instances from slices in a library.
type Factory struct {
	models  Models
	library *Library
	cfg     factoryConfig
	emitter *activity.Emitter
}

// New constructs a Factory over models and library.
func New(models Models, library *Library, opts ...Option) *Factory {
	if library == nil {
		library = NewLibrary(nil)
	}
	cfg := applyOptions(opts)
	return &Factory{
		models:  models.clone(),
		library: library,
		cfg:     cfg,
		emitter: activity.NewEmitter(cfg.activityHooks, cfg.activityCfg),
	}
}

// Models returns a copy of the registered models.
func (f *Factory) Models() Models {
	return f.models.clone()
}

// Library returns the slice library.
func (f *Factory) Library() *Library {
	return f.library
}

// NameDepth returns the identifier segment used for model routing.
func (f *Factory) NameDepth() int {
	return f.cfg.nameDepth
}

// Create resolves target into a snapshot, constructs an instance of the
// routed model and applies patches in the order given.
func (f *Factory) Create(target any, patches ...Patch) (Instance, error) {
	id, err := f.Identify(target)
	if err != nil {
		return nil, err
	}
	ref, err := toSliceRef(target)
	if err != nil {
		return nil, err
	}

	model, ok := f.models[id.Model]
	if !ok || model == nil {
		return nil, &MissingModelError{Model: id.Model, ID: id.Path}
	}

	snapshot, err := f.resolveTarget(ref, nil)
	if err != nil {
		return nil, err
	}

	instance, err := model.New(snapshot.Interface())
	if err != nil {
		return nil, fmt.Errorf("fixture: construct %s: %w", id, err)
	}

	var ops []Operation
	if len(patches) > 0 {
		ops, err = f.resolvePatches(patches)
		if err != nil {
			return nil, err
		}
		if err := instance.ApplyPatches(ops); err != nil {
			return nil, fmt.Errorf("fixture: patch %s: %w", id, err)
		}
	}

	if err := f.checkRules(id.Model, instance); err != nil {
		return nil, err
	}

	f.emitBuild(id, ops)
	return instance, nil
}

func (f *Factory) resolvePatches(patches []Patch) ([]Operation, error) {
	ops := make([]Operation, len(patches))
	for i, patch := range patches {
		if !patch.Op.Valid() {
			return nil, fmt.Errorf("fixture: patch %d: unsupported op %q", i, patch.Op)
		}
		op := Operation{Op: patch.Op, Path: patch.Path}
		if patch.Op != PatchRemove {
			value, err := f.Resolve(patch.Value)
			if err != nil {
				return nil, fmt.Errorf("fixture: patch %d value: %w", i, err)
			}
			op.Value = value.Interface()
		}
		ops[i] = op
	}
	return ops, nil
}

func (f *Factory) emitBuild(id ID, ops []Operation) {
	if !f.emitter.Enabled() {
		return
	}
	build := activity.Build{
		ID:     uuid.NewString(),
		Model:  id.Model,
		Slice:  id.Path,
		Origin: f.library.Origin(id.Path),
	}
	for _, op := range ops {
		build.Patches = append(build.Patches, activity.PatchOp{Op: string(op.Op), Path: op.Path})
	}
	if err := f.emitter.EmitBuild(context.Background(), build); err != nil {
		f.cfg.logger.LogDiagnostic(Diagnostic{Level: LevelWarn, SliceID: id.Path, Message: "activity hook failed", Err: err})
	}
}
