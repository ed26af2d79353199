// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OrganizeResult holds counts from an Organize run.
type OrganizeResult struct {
	Copied   int
	Replaced int
	Failed   int
}

// Total returns the number of PDFs processed.
func (r OrganizeResult) Total() int {
	return r.Copied + r.Replaced + r.Failed
}

// Organize files every PDF in srcDir into destDir/<PMCID>/<PMCID>_main.pdf.
// The PMCID is the file name up to "_main", or its stem. Existing PDFs in
// the target folder with the same byte size as the source are removed
// first. Per-file failures are reported to w and counted.
func Organize(srcDir, destDir string, w io.Writer) (OrganizeResult, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return OrganizeResult{}, fmt.Errorf("reading source directory: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return OrganizeResult{}, fmt.Errorf("creating destination directory: %w", err)
	}

	var result OrganizeResult
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		pmcid := pdfPMCID(e.Name())
		replaced, err := organizeOne(filepath.Join(srcDir, e.Name()), filepath.Join(destDir, pmcid), pmcid, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed   %s: %v\n", e.Name(), err)
			result.Failed++
		case replaced:
			fmt.Fprintf(w, "replaced %s -> %s\n", e.Name(), pmcid)
			result.Replaced++
		default:
			fmt.Fprintf(w, "copied   %s -> %s\n", e.Name(), pmcid)
			result.Copied++
		}
	}

	fmt.Fprintf(w, "\nOrganize summary: %d copied, %d replaced, %d failed (total: %d)\n",
		result.Copied, result.Replaced, result.Failed, result.Total())
	return result, nil
}

func pdfPMCID(name string) string {
	if i := strings.Index(name, "_main"); i >= 0 {
		return name[:i]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// organizeOne reports whether a same-size PDF was removed from folder.
func organizeOne(src, folder, pmcid string, w io.Writer) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return false, fmt.Errorf("creating folder: %w", err)
	}

	existing, err := os.ReadDir(folder)
	if err != nil {
		return false, fmt.Errorf("reading folder: %w", err)
	}
	replaced := false
	for _, e := range existing {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		ei, err := e.Info()
		if err != nil || ei.Size() != info.Size() {
			continue
		}
		if err := os.Remove(filepath.Join(folder, e.Name())); err != nil {
			fmt.Fprintf(w, "  warning: removing %s: %v\n", e.Name(), err)
			continue
		}
		replaced = true
	}

	dest := filepath.Join(folder, pmcid+"_main.pdf")
	if err := copyFile(src, dest, info); err != nil {
		return replaced, err
	}
	return replaced, nil
}

// copyFile copies src to dest through a temporary file and carries over
// the source modification time.
func copyFile(src, dest string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".organize-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("copying: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
