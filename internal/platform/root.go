package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/autoprop/pkg/adapters/fs"
)

// rootMarkers identify a vault root, most specific first.
var rootMarkers = []string{fs.DefaultSystemDir, ".obsidian", ".git"}

// FindRoot looks upwards from startDir for a vault root and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for _, marker := range rootMarkers {
		dir := abs
		for {
			if hasFile(dir, marker) {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return "", fmt.Errorf("vault root not found from %s", startDir)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
