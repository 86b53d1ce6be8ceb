package fixture

// Model constructs live instances from resolved snapshots.
type Model interface {
	New(snapshot any) (Instance, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(snapshot any) (Instance, error)

// New implements Model.
func (f ModelFunc) New(snapshot any) (Instance, error) {
	return f(snapshot)
}

// Instance is a live model instance produced by a Model.
type Instance interface {
	// ModelName reports the model the instance was built from.
	ModelName() string
	// ApplyPatches applies ops in order.
	ApplyPatches(ops []Operation) error
	// Resolve returns a live reference to the node at a JSON pointer path.
	Resolve(path string) (any, error)
	// Snapshot returns the instance as plain Go data.
	Snapshot() (any, error)
}

// Models maps short model names to their constructors.
type Models map[string]Model

func (m Models) clone() Models {
	if len(m) == 0 {
		return Models{}
	}
	out := make(Models, len(m))
	for name, model := range m {
		out[name] = model
	}
	return out
}
