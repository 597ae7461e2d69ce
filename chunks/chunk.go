package chunks

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/milk9111/levelforge/levels"
)

// Chunk is a reusable rectangular level segment. Grid holds Height rows of
// Width cells; each cell is "" or an object reference. Objects lists the
// same placements keyed by chunk-local flat index.
type Chunk struct {
	Name     string     `yaml:"name"`
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	Grid     [][]string `yaml:"grid"`
	Objects  []Object   `yaml:"objects"`
	Metadata Metadata   `yaml:"metadata"`
}

type Object struct {
	Ref    int    `yaml:"ref"`
	Object string `yaml:"object"`
}

type Metadata struct {
	Difficulty int      `yaml:"difficulty"`
	Theme      string   `yaml:"theme"`
	Tags       []string `yaml:"tags,omitempty"`
}

// Source supplies the chunk library a level is assembled from.
type Source interface {
	Chunks(ctx context.Context) ([]Chunk, error)
}

// Generator produces a single new chunk for a theme and difficulty.
type Generator interface {
	Generate(ctx context.Context, theme string, difficulty int) (Chunk, error)
}

// Library is a fixed in-memory Source.
type Library []Chunk

func (l Library) Chunks(ctx context.Context) ([]Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Chunk, len(l))
	copy(out, l)
	return out, nil
}

// Validate checks dimensions, token format, and that Grid and Objects agree.
func (c Chunk) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("chunks: %s: invalid dimensions %dx%d", c.Name, c.Width, c.Height)
	}
	if len(c.Grid) != c.Height {
		return fmt.Errorf("chunks: %s: grid has %d rows, want %d", c.Name, len(c.Grid), c.Height)
	}

	occupied := 0
	for y, row := range c.Grid {
		if len(row) != c.Width {
			return fmt.Errorf("chunks: %s: row %d has %d cells, want %d", c.Name, y, len(row), c.Width)
		}
		for x, cell := range row {
			if cell == "" {
				continue
			}
			if utf8.RuneCountInString(cell) != levels.RefLen {
				return fmt.Errorf("chunks: %s: cell %d,%d: %q: %w", c.Name, x, y, cell, levels.ErrInvalidFormat)
			}
			occupied++
		}
	}

	seen := make(map[int]bool, len(c.Objects))
	for _, o := range c.Objects {
		if o.Ref < 0 || o.Ref >= c.Width*c.Height {
			return fmt.Errorf("chunks: %s: object %q at %d: %w", c.Name, o.Object, o.Ref, levels.ErrOutOfRange)
		}
		if seen[o.Ref] {
			return fmt.Errorf("chunks: %s: duplicate object at %d", c.Name, o.Ref)
		}
		seen[o.Ref] = true
		if got := c.Grid[o.Ref/c.Width][o.Ref%c.Width]; got != o.Object {
			return fmt.Errorf("chunks: %s: object %q at %d but grid holds %q", c.Name, o.Object, o.Ref, got)
		}
	}
	if occupied != len(c.Objects) {
		return fmt.Errorf("chunks: %s: %d occupied cells but %d objects", c.Name, occupied, len(c.Objects))
	}
	return nil
}
