package chunks

import (
	"context"
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptSource builds the chunk library by running a tengo preset script.
type ScriptSource struct {
	// Dir is checked for Script before the embedded copy.
	Dir        string
	Script     string
	Theme      string
	Difficulty int
	Seed       int64
	Logger     *log.Logger
}

func (s *ScriptSource) Chunks(ctx context.Context) ([]Chunk, error) {
	return runScript(ctx, s.Dir, s.Script, s.Theme, s.Difficulty, s.Seed, s.Logger)
}

// ScriptGenerator produces one chunk per call from a preset script, cycling
// through the script output with successive seeds.
type ScriptGenerator struct {
	Dir    string
	Script string
	Seed   int64
	Logger *log.Logger

	calls int64
}

func (g *ScriptGenerator) Generate(ctx context.Context, theme string, difficulty int) (Chunk, error) {
	seed := g.Seed + g.calls
	g.calls++

	out, err := runScript(ctx, g.Dir, g.Script, theme, difficulty, seed, g.Logger)
	if err != nil {
		return Chunk{}, err
	}
	if len(out) == 0 {
		return Chunk{}, fmt.Errorf("chunks: script %s produced no chunks", g.Script)
	}

	// Prefer the hardest chunk the difficulty allows.
	best := out[0]
	for _, c := range out[1:] {
		if c.Metadata.Difficulty <= difficulty && c.Metadata.Difficulty > best.Metadata.Difficulty {
			best = c
		}
	}
	best.Name = fmt.Sprintf("%s_gen%d", best.Name, seed)
	return best, nil
}

func runScript(ctx context.Context, dir, name, theme string, difficulty int, seed int64, logger *log.Logger) ([]Chunk, error) {
	if name == "" {
		name = DefaultScript
	}
	if logger == nil {
		logger = log.Default()
	}

	src, err := LoadScript(dir, name)
	if err != nil {
		return nil, fmt.Errorf("chunks: load %s: %w", name, err)
	}

	script := tengo.NewScript(src)
	_ = script.Add("theme", theme)
	_ = script.Add("difficulty", difficulty)
	_ = script.Add("seed", seed)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("chunks: run %s: %w", name, err)
	}

	v := compiled.Get("chunks")
	if v.IsUndefined() {
		return nil, fmt.Errorf("chunks: %s does not define chunks", name)
	}

	var out []Chunk
	for i, raw := range v.Array() {
		m, ok := raw.(map[string]interface{})
		if !ok {
			logger.Printf("chunks: %s: entry %d is %T, skipping", name, i, raw)
			continue
		}
		c, err := chunkFromScript(m)
		if err == nil {
			err = c.Validate()
		}
		if err != nil {
			logger.Printf("chunks: %s: entry %d: %v, skipping", name, i, err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func chunkFromScript(m map[string]interface{}) (Chunk, error) {
	c := Chunk{
		Name:   asString(m["name"]),
		Width:  asInt(m["width"]),
		Height: asInt(m["height"]),
		Metadata: Metadata{
			Difficulty: asInt(m["difficulty"]),
			Theme:      asString(m["theme"]),
		},
	}

	for _, t := range asSlice(m["tags"]) {
		c.Metadata.Tags = append(c.Metadata.Tags, asString(t))
	}

	for y, rawRow := range asSlice(m["rows"]) {
		cells := asSlice(rawRow)
		if cells == nil {
			return Chunk{}, fmt.Errorf("row %d is not an array", y)
		}
		row := make([]string, len(cells))
		for x, cell := range cells {
			row[x] = asString(cell)
		}
		c.Grid = append(c.Grid, row)
	}

	for _, rawObj := range asSlice(m["objects"]) {
		obj, ok := rawObj.(map[string]interface{})
		if !ok {
			return Chunk{}, fmt.Errorf("object is %T, want map", rawObj)
		}
		c.Objects = append(c.Objects, Object{Ref: asInt(obj["ref"]), Object: asString(obj["object"])})
	}
	return c, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}
