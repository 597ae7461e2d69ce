package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/milk9111/levelforge/assembly"
	"github.com/milk9111/levelforge/chunks"
	"github.com/milk9111/levelforge/export"
	"github.com/milk9111/levelforge/levels"
	"github.com/milk9111/levelforge/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = log.New(io.Discard, "", 0)

func newPipeline(t *testing.T, v validate.Validator) *Pipeline {
	t.Helper()
	cfg := levels.DefaultConfig()
	cfg.Logger = quiet

	return &Pipeline{
		Config:     cfg,
		Source:     &chunks.ScriptSource{Theme: "ward", Difficulty: 2, Logger: quiet},
		Generator:  &chunks.ScriptGenerator{Logger: quiet},
		Generated:  2,
		Theme:      "ward",
		Difficulty: 2,
		NewAssembler: func(seed int64) assembly.Assembler {
			opts := assembly.DefaultOptions()
			opts.Theme = "ward"
			opts.MaxDifficulty = 2
			opts.Seed = seed
			opts.Logger = quiet
			return assembly.NewSlotAssembler(opts)
		},
		Validator: v,
		Exporter:  export.FileExporter{Dir: t.TempDir()},
		Logger:    quiet,
	}
}

func TestRunExportsValidLevel(t *testing.T) {
	p := newPipeline(t, validate.All(validate.Consistency{}, validate.Required{Refs: []string{"sp", "ex"}}))

	path, l, err := p.Run(context.Background(), 5, "ward_a")
	require.NoError(t, err)
	assert.Equal(t, "ward_a.yaml", filepath.Base(path))
	assert.FileExists(t, path)

	_, err = uuid.Parse(l.FileProperties["levelId"])
	assert.NoError(t, err)
	assert.Equal(t, "5", l.FileProperties["seed"])
}

func TestRunSkipsExportOnValidationFailure(t *testing.T) {
	p := newPipeline(t, validate.Required{Refs: []string{"zz"}})

	path, l, err := p.Run(context.Background(), 1, "nope")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validate.ErrMissingObject)
	assert.Empty(t, path)
	assert.NotNil(t, l)
}

func TestBuildRequiresCollaborators(t *testing.T) {
	_, err := (&Pipeline{}).Build(context.Background(), 0)
	assert.Error(t, err)
}

func TestBatchRetriesFailedSeeds(t *testing.T) {
	evenOnly := validate.Func(func(l *levels.Level) error {
		seed, _ := strconv.Atoi(l.FileProperties["seed"])
		if seed%2 != 0 {
			return errors.New("odd seed")
		}
		return nil
	})
	p := newPipeline(t, evenOnly)

	results, err := p.Batch(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "level_001.yaml", filepath.Base(results[0].Path))
	assert.Equal(t, "level_002.yaml", filepath.Base(results[1].Path))
	assert.Equal(t, "0", results[0].Level.FileProperties["seed"])
	assert.Equal(t, "2", results[1].Level.FileProperties["seed"])

	// The returned level is the one that was written.
	for _, r := range results {
		data, err := os.ReadFile(r.Path)
		require.NoError(t, err)
		assert.Contains(t, string(data), r.Level.FileProperties["levelId"])
	}
}

func TestBatchRequiresExporter(t *testing.T) {
	var buf bytes.Buffer
	p := newPipeline(t, nil)
	p.Exporter = nil
	p.Logger = log.New(&buf, "", 0)

	results, err := p.Batch(context.Background(), 2, 0)
	assert.Error(t, err)
	assert.Empty(t, results)
	assert.NotContains(t, buf.String(), "wrote")
}

func TestBatchGivesUp(t *testing.T) {
	p := newPipeline(t, validate.Required{Refs: []string{"zz"}})
	p.MaxAttempts = 2

	results, err := p.Batch(context.Background(), 2, 0)
	assert.Error(t, err)
	assert.Empty(t, results)
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newPipeline(t, nil).Batch(ctx, 3, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
