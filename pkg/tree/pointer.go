package tree

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// ErrNoNode matches pointers that do not address a node.
var ErrNoNode = errors.New("tree: no node at path")

// resolvePointer walks root along a JSON pointer. Struct fields match their
// json names. Addressable nodes are returned as pointers so callers see
// later writes; map entries are returned by value.
func resolvePointer(root any, path string) (any, error) {
	pointer, err := jsonpointer.New(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	current := reflect.ValueOf(root)
	for _, token := range pointer.DecodedTokens() {
		current = indirect(current)
		if !current.IsValid() {
			return nil, fmt.Errorf("%w %q", ErrNoNode, path)
		}
		next, ok := step(current, token)
		if !ok {
			return nil, fmt.Errorf("%w %q: segment %q", ErrNoNode, path, token)
		}
		current = next
	}

	current = indirect(current)
	if !current.IsValid() {
		return nil, fmt.Errorf("%w %q", ErrNoNode, path)
	}
	if current.CanAddr() {
		return current.Addr().Interface(), nil
	}
	return current.Interface(), nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func step(v reflect.Value, token string) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Struct:
		return structField(v, token)
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(token)
		if err != nil || index < 0 || index >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(index), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		entry := v.MapIndex(reflect.ValueOf(token).Convert(v.Type().Key()))
		return entry, entry.IsValid()
	default:
		return reflect.Value{}, false
	}
}

func structField(v reflect.Value, token string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := jsonName(field)
		if skip {
			continue
		}
		if field.Anonymous && name == "" {
			embedded := indirect(v.Field(i))
			if embedded.IsValid() && embedded.Kind() == reflect.Struct {
				if found, ok := structField(embedded, token); ok {
					return found, true
				}
			}
			continue
		}
		if name == "" {
			name = field.Name
		}
		if name == token {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	return name, false
}
