// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source maps a local file or directory to its folder name inside the
// package.
type Source struct {
	Path string
	Dest string
}

// PackageResult summarizes a Package run.
type PackageResult struct {
	Files   int
	PMCIDs  int
	Skipped []string
}

// Package writes a zip archive at zipPath containing every source under
// root/<Dest>, plus root/<root>_Metadata.csv with one row per PMCID and a
// Yes/No column per source. Missing sources are reported and skipped.
func Package(zipPath, root string, sources []Source, w io.Writer) (PackageResult, error) {
	if dir := filepath.Dir(zipPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return PackageResult{}, fmt.Errorf("creating output directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(zipPath), ".package-*.tmp")
	if err != nil {
		return PackageResult{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	p := &packager{
		zw:       zip.NewWriter(tmp),
		root:     root,
		presence: make(map[string]map[string]bool),
		w:        w,
	}
	result, buildErr := p.build(sources)
	zipErr := p.zw.Close()
	closeErr := tmp.Close()
	for _, err := range []error{buildErr, zipErr, closeErr} {
		if err != nil {
			os.Remove(tmpPath)
			return PackageResult{}, fmt.Errorf("writing %s: %w", zipPath, err)
		}
	}
	if err := os.Rename(tmpPath, zipPath); err != nil {
		os.Remove(tmpPath)
		return PackageResult{}, fmt.Errorf("renaming temp file: %w", err)
	}

	fmt.Fprintf(w, "Package written: %s (%d files, %d PMCIDs)\n", zipPath, result.Files, result.PMCIDs)
	return result, nil
}

type packager struct {
	zw       *zip.Writer
	root     string
	presence map[string]map[string]bool // PMCID -> dest -> present
	w        io.Writer
	files    int
}

func (p *packager) build(sources []Source) (PackageResult, error) {
	var result PackageResult
	for _, src := range sources {
		info, err := os.Stat(src.Path)
		if err != nil {
			fmt.Fprintf(p.w, "warning: source not found: %s\n", src.Path)
			result.Skipped = append(result.Skipped, src.Path)
			continue
		}
		fmt.Fprintf(p.w, "Processing %s -> %s\n", src.Path, src.Dest)

		if info.IsDir() {
			err = p.addDir(src)
		} else {
			err = p.addFile(src)
		}
		if err != nil {
			return result, err
		}
	}

	if err := p.writeMetadata(sources); err != nil {
		return result, err
	}
	result.Files = p.files
	result.PMCIDs = len(p.presence)
	return result, nil
}

func (p *packager) mark(pmcid, dest string) {
	if pmcid == "" {
		return
	}
	if p.presence[pmcid] == nil {
		p.presence[pmcid] = make(map[string]bool)
	}
	p.presence[pmcid][dest] = true
}

func (p *packager) addFile(src Source) error {
	if err := p.copyEntry(src.Path, path.Join(p.root, src.Dest)); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(src.Path), ".json") {
		ids, err := ReviewPMCIDs(src.Path)
		if err != nil {
			fmt.Fprintf(p.w, "  warning: no review metadata in %s: %v\n", src.Path, err)
			return nil
		}
		for _, id := range ids {
			p.mark(id, src.Dest)
		}
	}
	return nil
}

func (p *packager) addDir(src Source) error {
	return filepath.WalkDir(src.Path, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if fpath == src.Path {
			return nil
		}
		p.mark(PMCIDFromName(d.Name()), src.Dest)
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src.Path, fpath)
		if err != nil {
			return err
		}
		return p.copyEntry(fpath, path.Join(p.root, src.Dest, filepath.ToSlash(rel)))
	})
}

func (p *packager) copyEntry(src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := p.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	p.files++
	return nil
}

// MetadataName returns the coverage table file name for a package root.
func MetadataName(root string) string {
	return root + "_Metadata.csv"
}

func (p *packager) writeMetadata(sources []Source) error {
	dst, err := p.zw.Create(path.Join(p.root, MetadataName(p.root)))
	if err != nil {
		return fmt.Errorf("adding metadata table: %w", err)
	}

	cw := csv.NewWriter(dst)
	header := []string{"PMCID"}
	for _, s := range sources {
		header = append(header, s.Dest)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, id := range sortedKeys(presenceKeys(p.presence)) {
		row := []string{id}
		for _, s := range sources {
			if p.presence[id][s.Dest] {
				row = append(row, "Yes")
			} else {
				row = append(row, "No")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func presenceKeys(m map[string]map[string]bool) map[string]bool {
	keys := make(map[string]bool, len(m))
	for k := range m {
		keys[k] = true
	}
	return keys
}
