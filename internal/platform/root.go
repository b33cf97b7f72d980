package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned when no project marker is found above a directory.
var ErrRootNotFound = errors.New("project root not found")

// rootMarkers identify a site project: the tome config, the site generator
// config, or the cache directory of a previous run.
var rootMarkers = []string{
	"tome.yaml",
	"tome.yml",
	"docusaurus.config.ts",
	"docusaurus.config.js",
	".tome",
}

// FindRoot walks up from startDir looking for a project marker and returns
// the absolute path of the first directory holding one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
