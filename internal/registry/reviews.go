// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry maintains the local DOME registry download tree: it
// files full-text PDFs into per-article folders, reports coverage between
// the registry export and local data, and packages everything into a zip
// with a per-PMCID coverage table.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var pmcidPattern = regexp.MustCompile(`PMC\d+`)

// PMCIDFromName returns the first PMC identifier embedded in name, or "".
func PMCIDFromName(name string) string {
	return pmcidPattern.FindString(name)
}

// NormalizePMCID trims id and adds the PMC prefix when it is missing.
func NormalizePMCID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "PMC") {
		return id
	}
	return "PMC" + id
}

type reviewEntry struct {
	Publication *struct {
		PMCID json.RawMessage `json:"pmcid"`
	} `json:"publication"`
}

// ReviewPMCIDs reads a registry review export (a JSON array of entries with
// a publication.pmcid field) and returns its unique PMCIDs, sorted. Entries
// without a usable PMCID are skipped; numeric ids gain the PMC prefix.
func ReviewPMCIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading review export: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing review export %s: %w", path, err)
	}

	seen := make(map[string]bool)
	for _, item := range raw {
		var entry reviewEntry
		if err := json.Unmarshal(item, &entry); err != nil || entry.Publication == nil {
			continue
		}
		if id := NormalizePMCID(rawID(entry.Publication.PMCID)); id != "" {
			seen[id] = true
		}
	}
	return sortedKeys(seen), nil
}

// rawID accepts a JSON string or number.
func rawID(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String()
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
