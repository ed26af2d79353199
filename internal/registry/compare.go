// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Comparison is the set difference between the registry PMCIDs and one
// local target.
type Comparison struct {
	Label       string
	SourceTotal int
	TargetTotal int
	Matches     []string
	Missing     []string // in the registry but not the target
	Extra       []string // in the target but not the registry
}

// Coverage returns the share of registry PMCIDs present in the target, as a
// percentage. It is 0 when the registry is empty.
func (c Comparison) Coverage() float64 {
	if c.SourceTotal == 0 {
		return 0
	}
	return float64(len(c.Matches)) / float64(c.SourceTotal) * 100
}

// Report holds both comparisons produced by Compare.
type Report struct {
	Processed Comparison
	Folders   Comparison
}

// Compare checks the registry review export against the processed JSON
// files in processedDir and the per-article folders in foldersDir. A
// missing target directory is reported to w and treated as empty.
func Compare(reviewsFile, processedDir, foldersDir string, w io.Writer) (Report, error) {
	source, err := ReviewPMCIDs(reviewsFile)
	if err != nil {
		return Report{}, err
	}
	fmt.Fprintf(w, "Found %d unique PMCIDs in %s\n", len(source), reviewsFile)

	processed, err := JSONStems(processedDir)
	if err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
	folders, err := FolderNames(foldersDir)
	if err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	return Report{
		Processed: compareSets("Registry PMCIDs vs processed JSON files", source, processed),
		Folders:   compareSets("Registry PMCIDs vs article folders", source, folders),
	}, nil
}

// MissingFolders returns the processed JSON stems in processedDir that have
// no folder of the same name in foldersDir.
func MissingFolders(processedDir, foldersDir string) ([]string, error) {
	processed, err := JSONStems(processedDir)
	if err != nil {
		return nil, err
	}
	folders, err := FolderNames(foldersDir)
	if err != nil {
		return nil, err
	}
	return compareSets("", processed, folders).Missing, nil
}

// JSONStems returns the names of *.json files in dir without extension.
func JSONStems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading processed directory: %w", err)
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		if stem := strings.TrimSpace(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))); stem != "" {
			seen[stem] = true
		}
	}
	return sortedKeys(seen), nil
}

// FolderNames returns the names of the subdirectories of dir.
func FolderNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folders directory: %w", err)
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			seen[e.Name()] = true
		}
	}
	return sortedKeys(seen), nil
}

func compareSets(label string, source, target []string) Comparison {
	inTarget := make(map[string]bool, len(target))
	for _, id := range target {
		inTarget[id] = true
	}
	inSource := make(map[string]bool, len(source))

	c := Comparison{Label: label, SourceTotal: len(source), TargetTotal: len(target)}
	for _, id := range source {
		inSource[id] = true
		if inTarget[id] {
			c.Matches = append(c.Matches, id)
		} else {
			c.Missing = append(c.Missing, id)
		}
	}
	for _, id := range target {
		if !inSource[id] {
			c.Extra = append(c.Extra, id)
		}
	}
	return c
}

// FormatReport writes a human-readable comparison report to w.
func FormatReport(w io.Writer, r Report) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nCOMPARISON REPORT\n%s\n", rule, rule)
	for i, c := range []Comparison{r.Processed, r.Folders} {
		if i > 0 {
			fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 60))
		}
		fmt.Fprintf(w, "\n--- %s ---\n", c.Label)
		fmt.Fprintf(w, "Total registry PMCIDs: %d\n", c.SourceTotal)
		fmt.Fprintf(w, "Total in target: %d\n", c.TargetTotal)
		fmt.Fprintf(w, "Matches: %d\n", len(c.Matches))
		fmt.Fprintf(w, "Coverage: %.2f%%\n", c.Coverage())
		fmt.Fprintf(w, "\n[MISSING] in registry but not in target (%d):\n%s\n", len(c.Missing), joinOrNone(c.Missing))
		fmt.Fprintf(w, "\n[EXTRA] in target but not in registry (%d):\n%s\n", len(c.Extra), joinOrNone(c.Extra))
	}
	fmt.Fprintf(w, "\n%s\n", rule)
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "None"
	}
	return strings.Join(ids, ", ")
}
