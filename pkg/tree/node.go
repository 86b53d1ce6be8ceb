package tree

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	fixture "github.com/goliatone/go-fixture"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Node is a live value of a Model. The root pointer returned by Value stays
// valid across patches; pointers to inner nodes obtained before a patch do
// not observe it.
type Node[T any] struct {
	model *Model[T]
	value *T
}

// ModelName implements fixture.Instance.
func (n *Node[T]) ModelName() string {
	return n.model.name
}

// Value returns the live root value.
func (n *Node[T]) Value() *T {
	return n.value
}

// Snapshot returns the node as plain JSON-shaped data.
func (n *Node[T]) Snapshot() (any, error) {
	buffer, err := json.Marshal(n.value)
	if err != nil {
		return nil, fmt.Errorf("tree: %s: snapshot: %w", n.model.name, err)
	}
	var out any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, fmt.Errorf("tree: %s: snapshot: %w", n.model.name, err)
	}
	return out, nil
}

// ApplyPatches applies ops as one RFC 6902 patch. The node is left
// unchanged when any operation fails or the result does not validate.
func (n *Node[T]) ApplyPatches(ops []fixture.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	doc, err := json.Marshal(n.value)
	if err != nil {
		return fmt.Errorf("tree: %s: encode document: %w", n.model.name, err)
	}
	rawOps, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("tree: %s: encode patch: %w", n.model.name, err)
	}
	patch, err := jsonpatch.DecodePatch(rawOps)
	if err != nil {
		return fmt.Errorf("tree: %s: decode patch: %w", n.model.name, err)
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return fmt.Errorf("tree: %s: apply patch: %w", n.model.name, err)
	}

	var fresh T
	if err := json.Unmarshal(patched, &fresh); err != nil {
		return fmt.Errorf("tree: %s: decode patched document: %w", n.model.name, err)
	}
	if err := n.model.validate(&fresh); err != nil {
		return err
	}
	*n.value = fresh
	return nil
}

// Resolve implements fixture.Instance.
func (n *Node[T]) Resolve(path string) (any, error) {
	node, err := resolvePointer(n.value, path)
	if err != nil {
		return nil, fmt.Errorf("tree: %s: %w", n.model.name, err)
	}
	return node, nil
}
