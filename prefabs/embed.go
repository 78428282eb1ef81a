package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskRoot is checked before the embedded tree so prefabs and cue scripts can
// be edited without rebuilding.
var DiskRoot = "prefabs"

//go:embed *.yaml scripts/*.tengo
var bundled embed.FS

// Load reads a prefab yaml file.
func Load(name string) ([]byte, error) {
	return read(trimDir(name))
}

// LoadScript reads a cue script. "intro.tengo", "scripts/intro.tengo" and
// "prefabs/scripts/intro.tengo" all name the same file.
func LoadScript(name string) ([]byte, error) {
	return read(path.Join("scripts", strings.TrimPrefix(trimDir(name), "scripts/")))
}

// Names lists the bundled prefab files.
func Names() []string {
	names, _ := fs.Glob(bundled, "*.yaml")
	return names
}

func read(rel string) ([]byte, error) {
	if rel == "" {
		return nil, fs.ErrNotExist
	}
	if data, err := os.ReadFile(filepath.Join(DiskRoot, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return bundled.ReadFile(rel)
}

func trimDir(name string) string {
	s := filepath.ToSlash(name)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}
