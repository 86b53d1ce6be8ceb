package fixture

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerWritesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.LogDiagnostic(Diagnostic{
		Level:   LevelWarn,
		SliceID: "todo.nope",
		Chain:   []string{"store.default"},
		Message: "no slice at identifier",
		Err:     &MissingSliceError{ID: "todo.nope"},
	})

	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "todo.nope", entry["slice"])
	assert.Equal(t, "no slice at identifier", entry["message"])
	assert.Equal(t, []any{"store.default"}, entry["chain"])
	assert.Contains(t, entry["error"], "todo.nope")
}

func TestZerologLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	logger.LogDiagnostic(Diagnostic{Level: LevelDebug, Message: "rule evaluated"})
	assert.Zero(t, buf.Len(), "debug diagnostics should be filtered")
}

func TestWithLoggerNilDiscards(t *testing.T) {
	f := New(nil, NewLibrary(nil), WithLogger(nil))
	assert.IsType(t, noopLogger{}, f.cfg.logger)

	_, err := f.Snapshot("missing")
	assert.NoError(t, err, "missing slices are not errors by default")
}

func TestLoggerFuncNilIsSafe(t *testing.T) {
	var fn LoggerFunc
	assert.NotPanics(t, func() {
		fn.LogDiagnostic(Diagnostic{Err: errors.New("ignored")})
	})
}

func TestMemoryProgramCacheConcurrentAccess(t *testing.T) {
	cache := NewMemoryProgramCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			cache.Set(key, i)
			_, ok := cache.Get(key)
			assert.True(t, ok, "expected %q to be cached", key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, cache.Len())

	var zero MemoryProgramCache
	zero.Set("k", 1)
	v, ok := zero.Get("k")
	assert.True(t, ok, "zero value cache should be usable")
	assert.Equal(t, 1, v)
}
