package chunks

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = log.New(io.Discard, "", 0)

func TestScriptSourceDifficulty(t *testing.T) {
	cases := []struct {
		difficulty int
		want       int
	}{
		{0, 4},
		{1, 4},
		{2, 5},
		{3, 6},
	}

	for _, tc := range cases {
		src := &ScriptSource{Theme: "ward", Difficulty: tc.difficulty, Seed: 3, Logger: quiet}
		got, err := src.Chunks(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, tc.want, "difficulty %d", tc.difficulty)

		for _, c := range got {
			assert.NoError(t, c.Validate())
			assert.Equal(t, "ward", c.Metadata.Theme)
			assert.Equal(t, 5, c.Width)
		}
	}
}

func TestEmbeddedScriptsRun(t *testing.T) {
	names, err := EmbeddedScripts()
	require.NoError(t, err)
	require.Contains(t, names, DefaultScript)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			for difficulty := 0; difficulty <= 3; difficulty++ {
				src := &ScriptSource{Script: name, Theme: "ward", Difficulty: difficulty, Logger: quiet}
				got, err := src.Chunks(context.Background())
				require.NoError(t, err, "difficulty %d", difficulty)
				assert.NotEmpty(t, got, "difficulty %d", difficulty)
			}
		})
	}
}

func TestScriptSourceIsDeterministic(t *testing.T) {
	src := &ScriptSource{Theme: "ward", Difficulty: 3, Seed: 11, Logger: quiet}

	a, err := src.Chunks(context.Background())
	require.NoError(t, err)
	b, err := src.Chunks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestScriptSourcePrefersDiskCopy(t *testing.T) {
	dir := t.TempDir()
	script := `
chunks := [{
	name: "disk",
	width: 1,
	height: 1,
	rows: [["d1"]],
	objects: [{ref: 0, object: "d1"}],
	difficulty: difficulty,
	theme: theme,
	tags: []
}, {
	name: "broken",
	width: 2,
	height: 1,
	rows: [["d1"]],
	objects: []
}]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultScript), []byte(script), 0o644))

	src := &ScriptSource{Dir: dir, Theme: "lab", Difficulty: 1, Logger: quiet}
	got, err := src.Chunks(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1, "the malformed chunk is skipped")
	assert.Equal(t, "disk", got[0].Name)
	assert.Equal(t, [][]string{{"d1"}}, got[0].Grid)
	assert.Equal(t, []Object{{Ref: 0, Object: "d1"}}, got[0].Objects)
}

func TestScriptSourceMissingScript(t *testing.T) {
	src := &ScriptSource{Script: "nope.tengo", Logger: quiet}
	_, err := src.Chunks(context.Background())
	assert.Error(t, err)
}

func TestScriptGeneratorPicksHardestAllowed(t *testing.T) {
	gen := &ScriptGenerator{Seed: 7, Logger: quiet}

	first, err := gen.Generate(context.Background(), "ward", 1)
	require.NoError(t, err)
	assert.Equal(t, "crate_stack_gen7", first.Name)
	assert.NoError(t, first.Validate())

	second, err := gen.Generate(context.Background(), "ward", 3)
	require.NoError(t, err)
	assert.Equal(t, "guard_post_gen8", second.Name)
	assert.Equal(t, 3, second.Metadata.Difficulty)
}
