package chunks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customScript = `
chunks := [{
	name: "custom",
	width: 1,
	height: 1,
	rows: [["c1"]],
	objects: [{ref: 0, object: "c1"}],
	difficulty: difficulty,
	theme: theme
}]
`

// nextReload waits for the next reload, failing the test on a watcher error
// or timeout.
func nextReload(t *testing.T, w *Watcher) Reload {
	t.Helper()
	select {
	case r := <-w.Reloads:
		return r
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	return Reload{}
}

func TestWatcherReloadsChangedScript(t *testing.T) {
	dir := t.TempDir()
	src := &ScriptSource{Dir: dir, Script: "custom.tengo", Theme: "lab", Logger: quiet}
	w, err := NewWatcher(src)
	require.NoError(t, err)
	defer w.Close()

	// Other files in the directory never trigger a reload.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultScript), []byte("chunks := []"), 0o644))

	path := filepath.Join(dir, "custom.tengo")
	require.NoError(t, os.WriteFile(path, []byte(customScript), 0o644))

	r := nextReload(t, w)
	require.NoError(t, r.Err)
	assert.Equal(t, path, r.Path)
	require.Len(t, r.Chunks, 1)
	assert.Equal(t, "custom", r.Chunks[0].Name)
	assert.Equal(t, "lab", r.Chunks[0].Metadata.Theme)
}

func TestWatcherReportsScriptErrors(t *testing.T) {
	dir := t.TempDir()
	src := &ScriptSource{Dir: dir, Logger: quiet}
	w, err := NewWatcher(src)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultScript), []byte("chunks := [{name: \"x\",}"), 0o644))

	r := nextReload(t, w)
	assert.Error(t, r.Err)
	assert.Empty(t, r.Chunks)
}

func TestNewWatcherNeedsDirectory(t *testing.T) {
	_, err := NewWatcher(&ScriptSource{})
	assert.Error(t, err)

	_, err = NewWatcher(nil)
	assert.Error(t, err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(&ScriptSource{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Reloads
	assert.False(t, ok, "reloads channel should be closed")
}

func TestScriptName(t *testing.T) {
	cases := map[string]string{
		"":                       DefaultScript,
		"presets":                "presets.tengo",
		"chunks/scripts/a.tengo": "a.tengo",
		"../../etc/b.TENGO":      "b.TENGO",
	}
	for in, want := range cases {
		assert.Equal(t, want, scriptName(in), "scriptName(%q)", in)
	}

	assert.True(t, isScriptFile("a/b/presets.TENGO"))
	assert.False(t, isScriptFile("a/b/level.yaml"))
}
