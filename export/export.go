package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/levelforge/levels"
)

// Exporter persists a finished level and returns where it went.
type Exporter interface {
	Export(ctx context.Context, l *levels.Level, name string) (string, error)
}

// FileExporter writes levels as YAML files under Dir.
type FileExporter struct {
	Dir string
}

func (e FileExporter) Export(ctx context.Context, l *levels.Level, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := e.Dir
	if dir == "" {
		dir = "generated_levels"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	path := filepath.Join(dir, fileName(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	if err := l.EncodeYAML(f); err != nil {
		f.Close()
		return "", fmt.Errorf("export: %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export: %s: %w", path, err)
	}
	return path, nil
}

func fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("level_%d.yaml", time.Now().Unix())
	}
	name = filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return name
	}
	return name + ".yaml"
}
