// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output names, renders, and writes resolved metadata records.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// Filename returns the output file name for m: metadata_<pmid> when a PMID
// is known, metadata_doi_<doi with slashes as underscores> otherwise.
func Filename(m types.Metadata, format types.OutputFormat) string {
	if m.PMID != "" {
		return fmt.Sprintf("metadata_%s.%s", m.PMID, format.Ext())
	}
	return fmt.Sprintf("metadata_doi_%s.%s", doi.SafeName(m.DOI), format.Ext())
}

// Render serializes m in the requested format. JSON is indented by four
// spaces and keeps non-ASCII characters as-is.
func Render(m types.Metadata, format types.OutputFormat) ([]byte, error) {
	switch format {
	case types.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return buf.Bytes(), nil
	case types.FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Write renders m into dir under its Filename and returns the path. The
// file is written to a temporary name and renamed, so a failed write leaves
// nothing behind.
func Write(dir string, m types.Metadata, format types.OutputFormat) (string, error) {
	if m.DOI == "" {
		return "", fmt.Errorf("refusing to write record without a DOI")
	}
	data, err := Render(m, format)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, Filename(m, format))
	tmp, err := os.CreateTemp(dir, ".metadata-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return path, nil
}
