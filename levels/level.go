package levels

import (
	"fmt"
	"log"
	"sort"
	"unicode/utf8"
)

// RefLen is the number of characters in an object reference token.
const RefLen = 2

// Placement records which object occupies a cell.
type Placement struct {
	Ref    int    `yaml:"ref"`
	Object string `yaml:"object"`
}

// Level is an assembled level grid plus the metadata the engine needs.
// Each non-empty cell has exactly one placement and vice versa.
//
// A Level is not safe for concurrent mutation.
type Level struct {
	width  int
	height int

	// cells is the flat row-major grid; "" is an empty cell.
	cells []string
	// placements mirrors cells, keyed by cell index.
	placements map[int]string

	Include        []string
	FileProperties map[string]string
	SceneName      string
	CameraSettings CameraSettings

	ObjectDefinitions map[string]string
	Sounds            map[string]string
	GlobalData        map[string]string

	logger *log.Logger
}

// InitializeEmpty builds a level with every cell empty and no placements.
func InitializeEmpty(cfg Config) (*Level, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("levels: invalid level dimensions: %dx%d", cfg.Width, cfg.Height)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	var include []string
	if cfg.Include != "" {
		include = []string{cfg.Include}
	}

	return &Level{
		width:             cfg.Width,
		height:            cfg.Height,
		cells:             make([]string, cfg.Len()),
		placements:        make(map[int]string),
		Include:           include,
		FileProperties:    map[string]string{"creator": cfg.Creator},
		SceneName:         cfg.SceneName,
		CameraSettings:    cfg.Camera,
		ObjectDefinitions: map[string]string{},
		Sounds:            map[string]string{},
		GlobalData:        map[string]string{},
		logger:            logger,
	}, nil
}

// MustInitializeEmpty is like InitializeEmpty but panics on a bad config.
func MustInitializeEmpty(cfg Config) *Level {
	l, err := InitializeEmpty(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Level) Width() int  { return l.width }
func (l *Level) Height() int { return l.height }

// Len returns the number of cells in the grid.
func (l *Level) Len() int {
	return len(l.cells)
}

// Index converts x,y to a cell index. ok is false outside the grid.
func (l *Level) Index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= l.width || y >= l.height {
		return 0, false
	}
	return y*l.width + x, true
}

// Coord converts a cell index back to x,y.
func (l *Level) Coord(idx int) (x, y int) {
	return idx % l.width, idx / l.width
}

func (l *Level) inRange(idx int) bool {
	return idx >= 0 && idx < len(l.cells)
}

// ObjectAt returns the reference stored at idx.
func (l *Level) ObjectAt(idx int) (string, bool) {
	if !l.inRange(idx) || l.cells[idx] == "" {
		return "", false
	}
	return l.cells[idx], true
}

// Cells returns a copy of the flat grid.
func (l *Level) Cells() []string {
	out := make([]string, len(l.cells))
	copy(out, l.cells)
	return out
}

// Placements returns the placement records sorted by cell index.
func (l *Level) Placements() []Placement {
	out := make([]Placement, 0, len(l.placements))
	for idx, ref := range l.placements {
		out = append(out, Placement{Ref: idx, Object: ref})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

// InsertObjectReference places ref at idx, replacing any different reference
// already there. Re-inserting the same reference is a no-op. On error the
// level is left untouched.
func (l *Level) InsertObjectReference(idx int, ref string) error {
	if !l.inRange(idx) {
		return l.reject("insert", idx, ref, ErrOutOfRange)
	}
	if utf8.RuneCountInString(ref) != RefLen {
		return l.reject("insert", idx, ref, ErrInvalidFormat)
	}

	switch old := l.cells[idx]; old {
	case ref:
		return nil
	case "":
	default:
		delete(l.placements, idx)
	}

	l.cells[idx] = ref
	l.placements[idx] = ref
	return nil
}

// RemoveObjectReference clears idx and drops its placement.
func (l *Level) RemoveObjectReference(idx int) error {
	if !l.inRange(idx) {
		return l.reject("remove", idx, "", ErrOutOfRange)
	}
	if l.cells[idx] == "" {
		return l.reject("remove", idx, "", ErrNotFound)
	}

	l.cells[idx] = ""
	delete(l.placements, idx)
	return nil
}

func (l *Level) reject(op string, idx int, ref string, err error) error {
	logger := l.logger
	if logger == nil {
		logger = log.Default()
	}
	if ref != "" {
		logger.Printf("levels: warning: %s %q at %d rejected: %v", op, ref, idx, err)
	} else {
		logger.Printf("levels: warning: %s at %d rejected: %v", op, idx, err)
	}
	return &OpError{Op: op, Index: idx, Ref: ref, Err: err}
}

// CheckConsistency reports the first disagreement between the grid and the
// placement records, or nil.
func (l *Level) CheckConsistency() error {
	occupied := 0
	for idx, ref := range l.cells {
		if ref == "" {
			continue
		}
		occupied++
		if got, ok := l.placements[idx]; !ok || got != ref {
			return fmt.Errorf("levels: cell %d holds %q but placement is %q", idx, ref, got)
		}
	}
	if occupied != len(l.placements) {
		return fmt.Errorf("levels: %d occupied cells but %d placements", occupied, len(l.placements))
	}
	return nil
}
