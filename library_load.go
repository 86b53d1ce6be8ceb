package fixture

import (
	"fmt"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Document markers used by library files.
const (
	MarkerSlice     = "$slice"
	MarkerOverrides = "$overrides"
	MarkerModel     = "$model"
	MarkerPath      = "$path"
)

// Format names a library document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("fixture: unsupported library format %q", filepath.Ext(path))
	}
}

// ParseLibrary decodes a library document. Mappings holding a "$slice" key
// become slice references (with optional "$overrides" and "$model"), mappings
// holding a "$path" key become path references.
func ParseLibrary(data []byte, format Format) (*Library, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case FormatJSON:
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = gotoml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("fixture: unsupported library format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("fixture: parse %s library: %w", format, err)
	}
	return libraryFromDocument(raw)
}

// LoadLibrary reads library files in order. Later files override entries of
// earlier ones; nested namespaces are merged while slice and path references
// are replaced whole. Library.Origin reports the file behind each entry.
func LoadLibrary(paths ...string) (*Library, error) {
	return LoadLibraryWithDefaults(nil, paths...)
}

// LoadLibraryWithDefaults seeds the loader with in-memory defaults before
// reading paths. Entries taken from defaults report the "defaults" origin.
func LoadLibraryWithDefaults(defaults map[string]any, paths ...string) (*Library, error) {
	origins := map[string]string{}
	root := Mapping(nil)
	if len(defaults) > 0 {
		k := koanf.New(".")
		if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
			return nil, fmt.Errorf("fixture: load library defaults: %w", err)
		}
		value, err := valueFromDocument(k.Raw(), "")
		if err != nil {
			return nil, err
		}
		root = overlay(root, value, "defaults", "", origins)
	}
	for _, path := range paths {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		// One koanf instance per file: koanf merges raw maps, which would
		// leak "$overrides" from an earlier file into a replaced reference.
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("fixture: load library %s: %w", path, err)
		}
		value, err := valueFromDocument(k.Raw(), "")
		if err != nil {
			return nil, fmt.Errorf("fixture: load library %s: %w", path, err)
		}
		root = overlay(root, value, path, "", origins)
	}
	return &Library{root: root, origins: origins}, nil
}

func parserFor(path string) (koanf.Parser, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatYAML:
		return kyaml.Parser(), nil
	case FormatTOML:
		return toml.Parser(), nil
	default:
		return jsonParser{}, nil
	}
}

type jsonParser struct{}

func (jsonParser) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (jsonParser) Marshal(o map[string]any) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(o)
}

func libraryFromDocument(raw map[string]any) (*Library, error) {
	root, err := valueFromDocument(raw, "")
	if err != nil {
		return nil, err
	}
	return NewLibraryFromValue(root), nil
}

func valueFromDocument(raw any, at string) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Undefined(), nil
	case map[string]any:
		if _, ok := typed[MarkerSlice]; ok {
			return sliceFromDocument(typed, at)
		}
		if path, ok := typed[MarkerPath]; ok {
			str, isString := path.(string)
			if !isString {
				return Value{}, fmt.Errorf("fixture: %s at %q must be a string", MarkerPath, at)
			}
			return PathValue(Path(str)), nil
		}
		fields := make(map[string]Value, len(typed))
		for key, value := range typed {
			converted, err := valueFromDocument(value, joinPath(at, key))
			if err != nil {
				return Value{}, err
			}
			fields[key] = converted
		}
		return Value{kind: KindMapping, fields: fields}, nil
	case map[any]any:
		normalized := make(map[string]any, len(typed))
		for key, value := range typed {
			normalized[fmt.Sprint(key)] = value
		}
		return valueFromDocument(normalized, at)
	case []any:
		items := make([]Value, len(typed))
		for i, item := range typed {
			converted, err := valueFromDocument(item, joinPath(at, fmt.Sprint(i)))
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Value{kind: KindSequence, items: items}, nil
	case []map[string]any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = item
		}
		return valueFromDocument(items, at)
	default:
		return Scalar(raw), nil
	}
}

func sliceFromDocument(raw map[string]any, at string) (Value, error) {
	id, ok := raw[MarkerSlice].(string)
	if !ok || id == "" {
		return Value{}, fmt.Errorf("fixture: %s at %q must be a non-empty string", MarkerSlice, at)
	}
	ref := SliceRef{ID: id}
	if model, ok := raw[MarkerModel]; ok {
		str, isString := model.(string)
		if !isString {
			return Value{}, fmt.Errorf("fixture: %s at %q must be a string", MarkerModel, at)
		}
		ref.Model = str
	}
	if overrides, ok := raw[MarkerOverrides]; ok && overrides != nil {
		converted, err := valueFromDocument(overrides, joinPath(at, MarkerOverrides))
		if err != nil {
			return Value{}, err
		}
		if converted.Kind() != KindMapping {
			return Value{}, fmt.Errorf("fixture: %s at %q must be a mapping", MarkerOverrides, at)
		}
		if converted.Len() > 0 {
			ref.Overrides = converted.fields
		}
	}
	return SliceValue(ref), nil
}

// documentFromValue converts a library value back into document form with
// markers, the inverse of valueFromDocument.
func documentFromValue(v Value) any {
	switch v.Kind() {
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = documentFromValue(item)
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for key, field := range v.fields {
			out[key] = documentFromValue(field)
		}
		return out
	case KindSlice:
		doc := map[string]any{MarkerSlice: v.slice.ID}
		if v.slice.Model != "" {
			doc[MarkerModel] = v.slice.Model
		}
		if len(v.slice.Overrides) > 0 {
			overrides := make(map[string]any, len(v.slice.Overrides))
			for key, field := range v.slice.Overrides {
				overrides[key] = documentFromValue(field)
			}
			doc[MarkerOverrides] = overrides
		}
		return doc
	case KindPath:
		return map[string]any{MarkerPath: v.path.Path}
	case KindScalar:
		return v.scalar
	default:
		return nil
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
