package assembly

import (
	"errors"
	"fmt"

	"github.com/milk9111/levelforge/chunks"
	"github.com/milk9111/levelforge/levels"
)

var (
	ErrOutsideLevel = errors.New("cell falls outside the level")
	ErrProtected    = errors.New("cell holds a protected object")
)

// PlaceChunk copies the chunk's objects into l with the chunk's top-left cell
// at x,y. Objects that land outside the level or on a cell holding a
// protected reference are skipped; the skips are returned joined while the
// rest of the chunk is still placed.
func PlaceChunk(l *levels.Level, c chunks.Chunk, x, y int, protected map[string]bool) error {
	if c.Width <= 0 {
		return fmt.Errorf("assembly: chunk %s has width %d", c.Name, c.Width)
	}

	var errs []error
	for _, o := range c.Objects {
		lx := x + o.Ref%c.Width
		ly := y + o.Ref/c.Width
		idx, ok := l.Index(lx, ly)
		if !ok {
			errs = append(errs, fmt.Errorf("assembly: %s: %q at %d,%d: %w", c.Name, o.Object, lx, ly, ErrOutsideLevel))
			continue
		}
		if cur, ok := l.ObjectAt(idx); ok && protected[cur] && cur != o.Object {
			errs = append(errs, fmt.Errorf("assembly: %s: %q at %d,%d over %q: %w", c.Name, o.Object, lx, ly, cur, ErrProtected))
			continue
		}
		if err := l.InsertObjectReference(idx, o.Object); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
