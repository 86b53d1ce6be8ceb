package fixture

import (
	"fmt"
	"strings"
)

// ID is the two-part identifier of a build target: the model used to
// construct the instance and the dotted path of the slice in the library.
type ID struct {
	Model string
	Path  string
}

// NewID builds an explicit identifier.
func NewID(model, path string) ID {
	return ID{Model: model, Path: path}
}

// ParseID splits a dotted identifier and picks the model name from the
// segment at depth. An out of range depth leaves Model empty.
func ParseID(path string, depth int) ID {
	return ID{Model: segmentAt(path, depth), Path: path}
}

func (id ID) String() string {
	if id.Model == "" {
		return id.Path
	}
	return fmt.Sprintf("%s(%s)", id.Model, id.Path)
}

// Ref returns a slice reference for the identifier.
func (id ID) Ref() SliceRef {
	return SliceRef{ID: id.Path, Model: id.Model}
}

func segmentAt(path string, depth int) string {
	if depth < 0 {
		return ""
	}
	segments := strings.Split(path, ".")
	if depth >= len(segments) {
		return ""
	}
	return segments[depth]
}

// RouteName returns the model name for target: a dotted identifier string,
// SliceRef, *SliceRef or ID. An explicit model wins over segment routing.
func (f *Factory) RouteName(target any) string {
	id, err := f.Identify(target)
	if err != nil {
		return ""
	}
	return id.Model
}

// Identify builds the two-part identifier for target using the factory name
// depth.
func (f *Factory) Identify(target any) (ID, error) {
	switch typed := target.(type) {
	case ID:
		if typed.Model == "" {
			return ParseID(typed.Path, f.cfg.nameDepth), nil
		}
		return typed, nil
	default:
		ref, err := toSliceRef(target)
		if err != nil {
			return ID{}, err
		}
		if ref.Model != "" {
			return NewID(ref.Model, ref.ID), nil
		}
		return ParseID(ref.ID, f.cfg.nameDepth), nil
	}
}

func toSliceRef(target any) (SliceRef, error) {
	switch typed := target.(type) {
	case string:
		return SliceRef{ID: typed}, nil
	case SliceRef:
		return typed, nil
	case *SliceRef:
		if typed == nil {
			return SliceRef{}, fmt.Errorf("%w: nil slice reference", ErrInvalidTarget)
		}
		return *typed, nil
	case ID:
		return typed.Ref(), nil
	case Value:
		if ref, ok := typed.SliceRef(); ok {
			return ref, nil
		}
		return SliceRef{}, fmt.Errorf("%w: %s value", ErrInvalidTarget, typed.Kind())
	default:
		return SliceRef{}, fmt.Errorf("%w: %T", ErrInvalidTarget, target)
	}
}
