// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PlaceholderPrefix marks folders created for articles with no downloaded data.
const PlaceholderPrefix = "empty_"

// Placeholders creates an empty_<PMCID> folder in baseDir for each id and
// returns how many were created. Existing folders are left alone. baseDir
// must already exist.
func Placeholders(baseDir string, pmcids []string, w io.Writer) (int, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return 0, fmt.Errorf("target directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("target %s is not a directory", baseDir)
	}

	created := 0
	for _, id := range pmcids {
		name := PlaceholderPrefix + NormalizePMCID(id)
		path := filepath.Join(baseDir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "exists  %s\n", name)
			continue
		}
		if err := os.Mkdir(path, 0o755); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "created %s\n", name)
		created++
	}
	return created, nil
}
