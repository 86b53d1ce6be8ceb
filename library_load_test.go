package fixture_test

import (
	"path/filepath"
	"testing"

	fixture "github.com/goliatone/go-fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryPath(name string) string {
	return filepath.Join("testdata", "library", name)
}

func TestParseLibraryMarkers(t *testing.T) {
	doc := []byte(`
todo:
  default: {title: Default Todo, done: false}
  overwrite: {$slice: todo.default, $overrides: {done: true}, $model: todo}
props:
  first: {$path: /todos/0}
`)
	lib, err := fixture.ParseLibrary(doc, fixture.FormatYAML)
	require.NoError(t, err)

	entry, ok := lib.Lookup("todo.overwrite")
	require.True(t, ok)
	ref, ok := entry.SliceRef()
	require.True(t, ok)
	assert.Equal(t, "todo.default", ref.ID)
	assert.Equal(t, "todo", ref.Model)
	assert.Equal(t, []string{"done"}, ref.OverrideKeys())

	path, ok := lib.Lookup("props.first")
	require.True(t, ok)
	pathRef, ok := path.PathRef()
	require.True(t, ok)
	assert.Equal(t, "/todos/0", pathRef.Path)
}

func TestParseLibraryFormats(t *testing.T) {
	cases := []struct {
		name   string
		format fixture.Format
		doc    string
	}{
		{name: "json", format: fixture.FormatJSON, doc: `{"todo": {"a": {"$slice": "todo.b"}, "b": {"done": true}}}`},
		{name: "yaml", format: fixture.FormatYAML, doc: "todo:\n  a: {$slice: todo.b}\n  b: {done: true}\n"},
		{name: "toml", format: fixture.FormatTOML, doc: "[todo.a]\n\"$slice\" = \"todo.b\"\n[todo.b]\ndone = true\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lib, err := fixture.ParseLibrary([]byte(tc.doc), tc.format)
			require.NoError(t, err)

			factory := fixture.New(nil, lib, fixture.WithLogger(fixture.NopLogger()))
			got, err := factory.Snapshot("todo.a")
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"done": true}, got)
		})
	}
}

func TestParseLibraryRejectsMalformedMarkers(t *testing.T) {
	docs := []string{
		`{"a": {"$slice": 3}}`,
		`{"a": {"$slice": ""}}`,
		`{"a": {"$slice": "b", "$overrides": [1]}}`,
		`{"a": {"$slice": "b", "$model": 1}}`,
		`{"a": {"$path": false}}`,
		`{not json`,
	}
	for _, doc := range docs {
		_, err := fixture.ParseLibrary([]byte(doc), fixture.FormatJSON)
		assert.Error(t, err, doc)
	}

	_, err := fixture.ParseLibrary([]byte(`{}`), fixture.Format("xml"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]fixture.Format{
		"a.json": fixture.FormatJSON,
		"a.YAML": fixture.FormatYAML,
		"a.yml":  fixture.FormatYAML,
		"a.toml": fixture.FormatTOML,
	} {
		got, err := fixture.FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := fixture.FormatFromPath("a.ini")
	assert.Error(t, err)
}

func TestLoadLibraryMergesFilesInOrder(t *testing.T) {
	lib, err := fixture.LoadLibrary(libraryPath("base.yaml"), libraryPath("local.json"), libraryPath("extra.toml"))
	require.NoError(t, err)

	factory := fixture.New(testModels(), lib, fixture.WithLogger(fixture.NopLogger()))

	got, err := factory.Snapshot("todo.default")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Local Todo", "done": false}, got)

	got, err = factory.Snapshot("todo.doubleOverwrite")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Overwritten", "done": true}, got)

	assert.Equal(t, "todo", factory.RouteName("todo.pinned"))

	store := mustCreate(t, factory, "store.single")
	snapshot, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"todos": []any{map[string]any{"title": "Overwritten", "done": true}},
	}, snapshot)

	props, err := factory.CreateProps(mustCreate(t, factory, "store.default"), "props.default")
	require.NoError(t, err)
	first, ok := props["todo"].(*Todo)
	require.True(t, ok)
	assert.Equal(t, "Local Todo", first.Title)
}

func TestLoadLibraryReplacesReferencesWhole(t *testing.T) {
	first, second := libraryPath("pick_first.json"), libraryPath("pick_second.json")
	lib, err := fixture.LoadLibrary(libraryPath("base.yaml"), first, second)
	require.NoError(t, err)

	entry, ok := lib.Lookup("todo.pick")
	require.True(t, ok)
	ref, ok := entry.SliceRef()
	require.True(t, ok)
	assert.Equal(t, fixture.SliceRef{ID: "todo.other"}, ref)

	factory := fixture.New(testModels(), lib, fixture.WithLogger(fixture.NopLogger()))
	got, err := factory.Snapshot("todo.pick")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Other", "done": false}, got)

	assert.Equal(t, second, lib.Origin("todo.pick"))
	assert.Equal(t, first, lib.Origin("todo.other"))
	assert.Equal(t, libraryPath("base.yaml"), lib.Origin("todo.default.title"))
}

func TestLoadLibraryWithDefaults(t *testing.T) {
	lib, err := fixture.LoadLibraryWithDefaults(map[string]any{
		"todo": map[string]any{
			"seeded": map[string]any{"title": "Seeded", "done": true},
		},
	}, libraryPath("base.yaml"))
	require.NoError(t, err)

	assert.True(t, lib.Has("todo.seeded"))
	assert.True(t, lib.Has("todo.default"))
	assert.Equal(t, "defaults", lib.Origin("todo.seeded"))
}

func TestLoadLibraryErrors(t *testing.T) {
	_, err := fixture.LoadLibrary(libraryPath("missing.yaml"))
	assert.Error(t, err)

	_, err = fixture.LoadLibrary(libraryPath("library.ini"))
	assert.Error(t, err)
}
