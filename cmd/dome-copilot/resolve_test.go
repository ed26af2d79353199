// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/catalog"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/output"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/resolver"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

const domeDOI = "10.1038/s41592-021-01205-4"

var domeRecord = types.Metadata{
	Title:   "DOME: recommendations for supervised machine learning validation in biology",
	Authors: []string{"Walsh Ian", "Fishman Dmytro"},
	Journal: "Nature methods",
	Year:    "2021",
	PMID:    "33706413",
	PMCID:   "PMC8041921",
}

// stubProvider answers from a fixed table of DOIs.
type stubProvider struct {
	records map[string]types.Metadata
	calls   int
}

func (p *stubProvider) Name() string                   { return "Stub" }
func (p *stubProvider) Applies(resolver.Request) bool { return true }

func (p *stubProvider) TryResolve(_ context.Context, req resolver.Request) resolver.Result {
	p.calls++
	if m, ok := p.records[req.DOI]; ok {
		return resolver.Found(m)
	}
	return resolver.NotFound("unknown DOI")
}

// useStubChain swaps the chain builder for one backed by p.
func useStubChain(t *testing.T, p *stubProvider) {
	t.Helper()
	orig := newChain
	newChain = func(_ types.ResolverConfig, w io.Writer) *resolver.Chain {
		return &resolver.Chain{Providers: []resolver.Provider{p}, Log: w}
	}
	t.Cleanup(func() { newChain = orig })
}

// testResolveCmd returns a command carrying the flags runResolve reads,
// with stdout and stderr captured.
func testResolveCmd(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().StringSlice("pdf", nil, "")
	cmd.Flags().String("input-file", "", "")
	cmd.Flags().Bool("dry-run", false, "")

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func resolveSettings(outDir string) map[string]any {
	return map[string]any{
		"resolver.format":        "json",
		"resolver.output_dir":    outDir,
		"resolver.contact_email": "test@example.org",
	}
}

func TestRunResolveWritesPMIDNamedFile(t *testing.T) {
	outDir := t.TempDir()
	setViper(t, resolveSettings(outDir))
	useStubChain(t, &stubProvider{records: map[string]types.Metadata{domeDOI: domeRecord}})

	cmd, stdout, stderr := testResolveCmd(t)
	require.NoError(t, runResolve(cmd, []string{"https://doi.org/" + domeDOI}))

	want := domeRecord
	want.DOI = domeDOI
	rendered, err := output.Render(want, types.FormatJSON)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "metadata_33706413.json"))
	require.NoError(t, err)
	assert.Equal(t, rendered, data)
	assert.Equal(t, string(rendered), stdout.String())
	assert.Contains(t, stderr.String(), "Saved metadata to")
}

func TestRunResolveWithoutDOIWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	setViper(t, resolveSettings(outDir))
	stub := &stubProvider{}
	useStubChain(t, stub)

	cmd, stdout, _ := testResolveCmd(t)
	err := runResolve(cmd, []string{"no identifier in this text"})
	assert.ErrorContains(t, err, "1 input(s) failed")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, stdout.String())
	assert.Equal(t, 0, stub.calls)
}

func TestRunResolveUnknownDOIWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	setViper(t, resolveSettings(outDir))
	useStubChain(t, &stubProvider{})

	cmd, _, stderr := testResolveCmd(t)
	err := runResolve(cmd, []string{"10.1000/unknown"})
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "[Stub] not found")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunResolveRecordsCatalog(t *testing.T) {
	outDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	settings := resolveSettings(outDir)
	settings["resolver.catalog"] = dbPath
	setViper(t, settings)
	useStubChain(t, &stubProvider{records: map[string]types.Metadata{domeDOI: domeRecord}})

	cmd, _, _ := testResolveCmd(t)
	require.NoError(t, runResolve(cmd, []string{domeDOI}))

	store, err := catalog.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	e, err := store.Get(context.Background(), domeDOI)
	require.NoError(t, err)
	assert.Equal(t, "Stub", e.Provider)
	assert.Equal(t, "33706413", e.Metadata.PMID)
}

func TestRunResolveDryRun(t *testing.T) {
	outDir := t.TempDir()
	setViper(t, resolveSettings(outDir))
	useStubChain(t, &stubProvider{records: map[string]types.Metadata{domeDOI: domeRecord}})

	cmd, stdout, _ := testResolveCmd(t)
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))
	require.NoError(t, runResolve(cmd, []string{domeDOI}))

	assert.Contains(t, stdout.String(), `"publication/pmid": "33706413"`)
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "dois.txt")
	require.NoError(t, os.WriteFile(list, []byte("10.1000/from-file\n"), 0o644))

	cmd, _, _ := testResolveCmd(t)
	require.NoError(t, cmd.Flags().Set("input-file", list))
	require.NoError(t, cmd.Flags().Set("pdf", filepath.Join("..", "..", "internal", "doi", "testdata", "doi_page1.pdf")))
	require.NoError(t, cmd.Flags().Set("pdf", filepath.Join(dir, "missing.pdf")))

	var log bytes.Buffer
	inputs, failures := collectInputs(cmd, []string{"10.1000/arg"}, &log)
	assert.Equal(t, []string{"10.1000/arg", "10.1000/from-file", "10.1093/bioinformatics/btab123"}, inputs)
	assert.Equal(t, 1, failures)
	assert.Contains(t, log.String(), "missing.pdf")
}
