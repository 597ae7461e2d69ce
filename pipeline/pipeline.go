package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"
	"github.com/milk9111/levelforge/assembly"
	"github.com/milk9111/levelforge/chunks"
	"github.com/milk9111/levelforge/export"
	"github.com/milk9111/levelforge/levels"
	"github.com/milk9111/levelforge/validate"
)

var ErrValidation = errors.New("level failed validation")

// Pipeline wires the chunk library, assembly, validation and export steps.
type Pipeline struct {
	Config levels.Config
	Source chunks.Source

	// Generator, when set, adds Generated extra chunks to the library on
	// every build. Chunks that fail validation are dropped.
	Generator  chunks.Generator
	Generated  int
	Theme      string
	Difficulty int

	// NewAssembler returns the assembler for a given seed.
	NewAssembler func(seed int64) assembly.Assembler
	Validator    validate.Validator
	Exporter     export.Exporter

	// MaxAttempts bounds retries per level in Batch. Zero means 3.
	MaxAttempts int
	Logger      *log.Logger
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

// Build assembles one level for seed. It does not validate or export.
func (p *Pipeline) Build(ctx context.Context, seed int64) (*levels.Level, error) {
	if p.Source == nil || p.NewAssembler == nil {
		return nil, fmt.Errorf("pipeline: source and assembler are required")
	}

	library, err := p.Source.Chunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load chunks: %w", err)
	}

	if p.Generator != nil {
		for i := 0; i < p.Generated; i++ {
			c, err := p.Generator.Generate(ctx, p.Theme, p.Difficulty)
			if err != nil {
				return nil, fmt.Errorf("pipeline: generate chunk: %w", err)
			}
			if err := c.Validate(); err != nil {
				p.logger().Printf("pipeline: dropping generated chunk: %v", err)
				continue
			}
			library = append(library, c)
		}
	}

	l, err := p.NewAssembler(seed).Assemble(ctx, p.Config, library)
	if err != nil {
		return nil, fmt.Errorf("pipeline: assemble: %w", err)
	}

	l.FileProperties["levelId"] = uuid.NewString()
	l.FileProperties["seed"] = strconv.FormatInt(seed, 10)
	return l, nil
}

// Validate runs the configured validator, if any.
func (p *Pipeline) Validate(l *levels.Level) error {
	if p.Validator == nil {
		return nil
	}
	if err := p.Validator.Validate(l); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Run builds, validates and exports one level. Nothing is exported when
// validation fails.
func (p *Pipeline) Run(ctx context.Context, seed int64, name string) (string, *levels.Level, error) {
	l, err := p.Build(ctx, seed)
	if err != nil {
		return "", nil, err
	}
	if err := p.Validate(l); err != nil {
		return "", l, err
	}
	if p.Exporter == nil {
		return "", l, nil
	}
	path, err := p.Exporter.Export(ctx, l, name)
	if err != nil {
		return "", l, err
	}
	return path, l, nil
}

// Result is one level exported by Batch.
type Result struct {
	Path  string
	Level *levels.Level
}

// Batch exports count levels using seeds starting at seed. Levels that fail
// validation are retried with the next seed until count*MaxAttempts builds
// have been spent. An Exporter is required.
func (p *Pipeline) Batch(ctx context.Context, count int, seed int64) ([]Result, error) {
	if p.Exporter == nil {
		return nil, fmt.Errorf("pipeline: batch needs an exporter")
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	var results []Result
	for tries := 0; len(results) < count; tries++ {
		if tries >= count*attempts {
			return results, fmt.Errorf("pipeline: only %d of %d levels passed validation after %d attempts", len(results), count, tries)
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		s := seed + int64(tries)
		path, l, err := p.Run(ctx, s, fmt.Sprintf("level_%03d", len(results)+1))
		if errors.Is(err, ErrValidation) {
			p.logger().Printf("pipeline: seed %d: %v", s, err)
			continue
		}
		if err != nil {
			return results, err
		}
		p.logger().Printf("pipeline: seed %d: wrote %s", s, path)
		results = append(results, Result{Path: path, Level: l})
	}
	return results, nil
}
