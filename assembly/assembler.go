package assembly

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/levelforge/chunks"
	"github.com/milk9111/levelforge/levels"
)

var ErrNoChunks = errors.New("no eligible chunks")

// Assembler builds a level from a chunk library.
type Assembler interface {
	Assemble(ctx context.Context, cfg levels.Config, library []chunks.Chunk) (*levels.Level, error)
}

type Options struct {
	ChunkWidth  int
	ChunkHeight int

	// Theme restricts selection to chunks with this theme; "" allows any.
	Theme         string
	MaxDifficulty int
	Seed          int64

	// Spawn and Exit are placed at the bottom-left and bottom-right cells
	// before any chunk and are never overwritten.
	Spawn     string
	Exit      string
	Protected []string

	Logger *log.Logger
}

func DefaultOptions() Options {
	return Options{
		ChunkWidth:    5,
		ChunkHeight:   5,
		MaxDifficulty: 1,
		Spawn:         "sp",
		Exit:          "ex",
	}
}

// SlotAssembler divides the level into ChunkWidth x ChunkHeight slots and
// fills each with a chunk drawn from a seeded source. The same seed and
// library always give the same level.
type SlotAssembler struct {
	Options Options
}

func NewSlotAssembler(opts Options) *SlotAssembler {
	return &SlotAssembler{Options: opts}
}

func (a *SlotAssembler) Assemble(ctx context.Context, cfg levels.Config, library []chunks.Chunk) (*levels.Level, error) {
	opts := a.Options
	if opts.ChunkWidth <= 0 || opts.ChunkHeight <= 0 {
		return nil, fmt.Errorf("assembly: invalid chunk size %dx%d", opts.ChunkWidth, opts.ChunkHeight)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	eligible := a.eligible(library, logger)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("assembly: theme=%q max difficulty=%d: %w", opts.Theme, opts.MaxDifficulty, ErrNoChunks)
	}

	l, err := levels.InitializeEmpty(cfg)
	if err != nil {
		return nil, err
	}

	protected := make(map[string]bool, len(opts.Protected)+2)
	for _, ref := range opts.Protected {
		protected[ref] = true
	}
	if opts.Spawn != "" {
		idx, _ := l.Index(0, l.Height()-1)
		if err := l.InsertObjectReference(idx, opts.Spawn); err != nil {
			return nil, fmt.Errorf("assembly: spawn: %w", err)
		}
		protected[opts.Spawn] = true
	}
	if opts.Exit != "" {
		idx, _ := l.Index(l.Width()-1, l.Height()-1)
		if err := l.InsertObjectReference(idx, opts.Exit); err != nil {
			return nil, fmt.Errorf("assembly: exit: %w", err)
		}
		protected[opts.Exit] = true
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	for sy := 0; sy < l.Height(); sy += opts.ChunkHeight {
		for sx := 0; sx < l.Width(); sx += opts.ChunkWidth {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c := eligible[rng.Intn(len(eligible))]
			if err := PlaceChunk(l, c, sx, sy, protected); err != nil {
				logger.Printf("assembly: slot %d,%d chunk %s: %v", sx, sy, c.Name, err)
			}
		}
	}
	return l, nil
}

func (a *SlotAssembler) eligible(library []chunks.Chunk, logger *log.Logger) []chunks.Chunk {
	opts := a.Options
	var out []chunks.Chunk
	for _, c := range library {
		if err := c.Validate(); err != nil {
			logger.Printf("assembly: skipping chunk %s: %v", c.Name, err)
			continue
		}
		if c.Width > opts.ChunkWidth || c.Height > opts.ChunkHeight {
			continue
		}
		if opts.Theme != "" && c.Metadata.Theme != "" && c.Metadata.Theme != opts.Theme {
			continue
		}
		if c.Metadata.Difficulty > opts.MaxDifficulty {
			continue
		}
		out = append(out, c)
	}
	return out
}
