package assets

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed manifest.yaml audio textures
var assetsFS embed.FS

// DefaultManifest is the manifest bundled with the binary.
const DefaultManifest = "manifest.yaml"

// FS returns the embedded asset tree.
func FS() fs.FS {
	return assetsFS
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	return assetsFS.ReadFile(clean)
}

// ReadFile reads path from fsys after normalizing it the same way LoadFile does.
func ReadFile(fsys fs.FS, path string) ([]byte, error) {
	if fsys == nil {
		fsys = assetsFS
	}
	return fs.ReadFile(fsys, cleanAssetPath(path))
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return strings.TrimPrefix(s, "./")
}
