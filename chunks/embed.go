package chunks

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// DefaultScript is the bundled chunk preset script.
const DefaultScript = "presets.tengo"

// LoadScript returns the named script, preferring a copy under dir on disk
// over the embedded one. Only the base name is used, so a script can never
// be read from outside dir.
func LoadScript(dir, name string) ([]byte, error) {
	base := scriptName(name)
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, base)); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(path.Join("scripts", base))
}

// EmbeddedScripts lists the bundled script names, sorted.
func EmbeddedScripts() ([]string, error) {
	names, err := fs.Glob(ScriptsFS, "scripts/*.tengo")
	if err != nil {
		return nil, err
	}
	for i, n := range names {
		names[i] = path.Base(n)
	}
	sort.Strings(names)
	return names, nil
}

// scriptName reduces name to a base file name with a .tengo extension;
// "" means DefaultScript.
func scriptName(name string) string {
	name = strings.TrimSpace(filepath.ToSlash(name))
	if name == "" {
		return DefaultScript
	}
	base := path.Base(name)
	if !isScriptFile(base) {
		base += ".tengo"
	}
	return base
}
