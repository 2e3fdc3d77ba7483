package slot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
)

func openBackends(t *testing.T) map[string]Slot {
	t.Helper()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "slot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]Slot{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(dir, "nested", "todos.json")),
		"sqlite": sq,
	}
}

func TestSlotBackends(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("todo-storage")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("todo-storage", []byte(`{"a":1}`)))
			require.NoError(t, s.Set("todo-redux", []byte(`{"b":2}`)))
			require.NoError(t, s.Set("todo-storage", []byte(`{"a":3}`)))

			v, ok, err := s.Get("todo-storage")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"a":3}`, string(v))

			v, ok, err = s.Get("todo-redux")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"b":2}`, string(v))

			require.NoError(t, s.Remove("todo-storage"))
			require.NoError(t, s.Remove("never-set"))
			_, ok, err = s.Get("todo-storage")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileRejectsInvalidJSON(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "todos.json"))
	require.Error(t, f.Set("k", []byte("not json")))
}

func TestSQLiteReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tada.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("todo-context", []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("todo-context")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(v))
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, b)

	_, err = ParseBackend("sqlit")
	require.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), `did you mean "sqlite"`)

	_, err = ParseBackend("postgres")
	require.ErrorIs(t, err, ErrUnknownBackend)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestMirror(t *testing.T) {
	mem := NewMemory()
	m := NewMirror(mem, "todo-storage", zerolog.Nop())

	assert.Empty(t, m.Load())

	items := sampleItems(t)
	m.Save(items)
	got := m.Load()
	require.Len(t, got, 3)
	assert.Equal(t, "Write report", got[1].Title)
	assert.True(t, got[1].Completed)

	require.NoError(t, mem.Set("todo-storage", []byte(`{"state":`)))
	assert.Empty(t, m.Load())

	var nilMirror *Mirror
	nilMirror.Save(items)
	assert.Empty(t, nilMirror.Load())
}

// flakySlot fails Get while down is set.
type flakySlot struct {
	*Memory
	down bool
}

func (f *flakySlot) Get(key string) ([]byte, bool, error) {
	if f.down {
		return nil, false, errors.New("database is locked")
	}
	return f.Memory.Get(key)
}

func TestMirrorHoldsSavesAfterFailedLoad(t *testing.T) {
	fs := &flakySlot{Memory: NewMemory()}
	m := NewMirror(fs, "todo-storage", zerolog.Nop())
	m.Save(sampleItems(t))

	fs.down = true
	assert.Empty(t, m.Load())
	assert.True(t, m.held)

	m.Save([]model.Item{{ID: "new", Title: "only me"}})
	fs.down = false
	got, err := Decode(mustGet(t, fs, "todo-storage"))
	require.NoError(t, err)
	assert.Len(t, got, 3, "stored items survive the held save")

	require.Len(t, m.Load(), 3)
	assert.False(t, m.held)
	m.Save([]model.Item{{ID: "new", Title: "only me"}})
	got, err = Decode(mustGet(t, fs, "todo-storage"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMirrorLoadKeepsItemsAroundBadDate(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.Set("todo-storage", []byte(`{"state":{"todos":[
		{"id":"a","title":"one","createdAt":"2025-05-04T09:30:00Z"},
		{"id":"b","title":"two","createdAt":"someday"},
		{"id":"c","title":"three","createdAt":"2025-06-01"}
	]},"version":0}`)))

	got := NewMirror(mem, "todo-storage", zerolog.Nop()).Load()
	require.Len(t, got, 3)
	assert.True(t, got[1].CreatedAt.IsZero())
	assert.True(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Equal(got[2].CreatedAt))
}

func mustGet(t *testing.T, s Slot, key string) []byte {
	t.Helper()
	b, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	return b
}

func TestOpenFileDefaultsToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s, err := Open(BackendFile, "")
	require.NoError(t, err)
	require.NoError(t, s.Set("k", []byte(`true`)))
	_, err = os.Stat(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
}
