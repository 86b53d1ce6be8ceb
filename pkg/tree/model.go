package tree

import (
	"fmt"

	fixture "github.com/goliatone/go-fixture"
	"github.com/goliatone/go-fixture/internal/hydrate"
	"github.com/goliatone/go-fixture/layering"
)

// Validator checks a hydrated value. Returning an error rejects the value.
type Validator[T any] func(*T) error

// Option configures a Model.
type Option[T any] func(*Model[T])

// WithDefaults fills nil pointer, map and slice fields of every hydrated
// value from defaults.
func WithDefaults[T any](defaults T) Option[T] {
	return func(m *Model[T]) {
		cloned := layering.Clone(defaults)
		m.defaults = &cloned
	}
}

// WithDecoderOptions configures the decoder used to hydrate snapshots.
func WithDecoderOptions[T any](opts ...hydrate.DecoderOption[T]) Option[T] {
	return func(m *Model[T]) {
		m.decoderOpts = append(m.decoderOpts, opts...)
	}
}

// WithValidator registers a validator run after construction and after
// every patch batch.
func WithValidator[T any](validator Validator[T]) Option[T] {
	return func(m *Model[T]) {
		if validator != nil {
			m.validators = append(m.validators, validator)
		}
	}
}

// Model builds Nodes of T.
type Model[T any] struct {
	name        string
	defaults    *T
	decoderOpts []hydrate.DecoderOption[T]
	decoder     *hydrate.Decoder[T]
	validators  []Validator[T]
}

// Define declares a model named name.
func Define[T any](name string, opts ...Option[T]) *Model[T] {
	m := &Model[T]{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.decoder = hydrate.NewDecoder(m.decoderOpts...)
	return m
}

// Name returns the model name.
func (m *Model[T]) Name() string {
	return m.name
}

// New implements fixture.Model.
func (m *Model[T]) New(snapshot any) (fixture.Instance, error) {
	return m.Build(snapshot)
}

// Build hydrates snapshot into a Node. snapshot may be nil, a map[string]any,
// a T or a *T.
func (m *Model[T]) Build(snapshot any) (*Node[T], error) {
	var value T
	switch typed := snapshot.(type) {
	case nil:
		decoded, err := m.decode(map[string]any{})
		if err != nil {
			return nil, err
		}
		value = decoded
	case map[string]any:
		decoded, err := m.decode(typed)
		if err != nil {
			return nil, err
		}
		value = decoded
	case T:
		value = layering.Clone(typed)
	case *T:
		if typed == nil {
			return nil, fmt.Errorf("tree: %s: nil snapshot", m.name)
		}
		value = layering.Clone(*typed)
	default:
		return nil, fmt.Errorf("tree: %s: unsupported snapshot type %T", m.name, snapshot)
	}

	if m.defaults != nil {
		value = layering.MergeLayers(value, *m.defaults)
	}
	if err := m.validate(&value); err != nil {
		return nil, err
	}
	return &Node[T]{model: m, value: &value}, nil
}

func (m *Model[T]) decode(payload map[string]any) (T, error) {
	return m.decoder.Decode(hydrate.Context{Model: m.name}, payload)
}

func (m *Model[T]) validate(value *T) error {
	for _, validator := range m.validators {
		if err := validator(value); err != nil {
			return fmt.Errorf("tree: %s: validation failed: %w", m.name, err)
		}
	}
	return nil
}

// Of returns the value held by instance when it is a Node of T.
func Of[T any](instance fixture.Instance) (*T, bool) {
	node, ok := instance.(*Node[T])
	if !ok || node == nil {
		return nil, false
	}
	return node.Value(), true
}
