// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/catalog"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/output"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/resolver"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/secrets"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [doi-or-text...]",
	Short: "Resolve DOIs to standardized publication metadata",
	Long: `Resolve extracts a DOI from each argument (a bare DOI, a doi.org URL, or
free text containing one) and queries CrossRef, Zenodo, arXiv, bioRxiv,
medRxiv and Europe PMC in that order until one returns a record.

Each record is printed to stdout and written to metadata_<pmid>.json, or
metadata_doi_<doi>.json when no PMID is known. Nothing is written for
inputs that fail.`,
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.StringSlice("pdf", nil, "PDF files to take DOIs from (first pages are scanned)")
	f.String("input-file", "", "file with one DOI or citation per line")
	f.String("output-dir", ".", "directory for metadata files")
	f.String("format", string(types.FormatJSON), "output format: json or yaml")
	f.Duration("timeout", resolver.DefaultTimeout, "HTTP request timeout")
	f.Duration("retry-delay", 0, "wait before retrying a transient failure (default 2s)")
	f.Float64("rps", resolver.DefaultRequestsPerSecond, "maximum requests per second across providers")
	f.String("email", "", "contact email for CrossRef and NCBI (or .secrets/contact-email)")
	f.String("tool", "", "NCBI tool name (or .secrets/ncbi-tool)")
	f.String("catalog", "", "SQLite catalog to record resolved entries in")
	f.Bool("dry-run", false, "print records without writing files")

	for key, flag := range map[string]string{
		"resolver.output_dir":          "output-dir",
		"resolver.format":              "format",
		"resolver.timeout":             "timeout",
		"resolver.retry_delay":         "retry-delay",
		"resolver.requests_per_second": "rps",
		"resolver.contact_email":       "email",
		"resolver.tool":                "tool",
		"resolver.catalog":             "catalog",
	} {
		bindFlag(resolveCmd, key, flag)
	}

	rootCmd.AddCommand(resolveCmd)
}

// newChain builds the provider chain for a run. Tests replace it.
var newChain = func(cfg types.ResolverConfig, w io.Writer) *resolver.Chain {
	return resolver.NewChain(resolver.NewClient(cfg), w)
}

// resolverConfig assembles the resolver settings from flags, config file,
// environment and secrets, in that order of precedence.
func resolverConfig(s secrets.Secrets) (types.ResolverConfig, error) {
	format := types.OutputFormat(strings.ToLower(viper.GetString("resolver.format")))
	if format != types.FormatJSON && format != types.FormatYAML {
		return types.ResolverConfig{}, fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
	return types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("resolver.timeout"),
			UserAgent: "dome-copilot/" + version,
		},
		ContactEmail:      s.Or(viper.GetString("resolver.contact_email"), secrets.KeyContactEmail),
		Tool:              s.Or(viper.GetString("resolver.tool"), secrets.KeyNCBITool),
		RequestsPerSecond: viper.GetFloat64("resolver.requests_per_second"),
		RetryDelay:        viper.GetDuration("resolver.retry_delay"),
		OutputDir:         viper.GetString("resolver.output_dir"),
		Format:            format,
	}, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolverConfig(loadedSecrets)
	if err != nil {
		return err
	}
	if cfg.ContactEmail == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no contact email configured; CrossRef and NCBI ask for one")
	}

	inputs, inputFailures := collectInputs(cmd, args, cmd.ErrOrStderr())
	if len(inputs) == 0 && inputFailures == 0 {
		return fmt.Errorf("provide one or more DOIs, --pdf files, or --input-file")
	}

	var store *catalog.Store
	if path := viper.GetString("resolver.catalog"); path != "" {
		store, err = catalog.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx := context.Background()
	chain := newChain(cfg, cmd.ErrOrStderr())
	result := chain.ResolveBatch(ctx, inputs)

	failed := result.Failed + inputFailures
	for _, item := range result.Items {
		if item.Err != nil {
			continue
		}
		if err := emit(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), item.Resolution, cfg, store, dryRun); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed:  %s (%v)\n", item.Input, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d input(s) failed resolution", failed)
	}
	return nil
}

// emit prints a resolved record to out, writes its file, and catalogs it.
// Progress goes to log.
func emit(ctx context.Context, out, log io.Writer, res resolver.Resolution, cfg types.ResolverConfig, store *catalog.Store, dryRun bool) error {
	data, err := output.Render(res.Metadata, cfg.Format)
	if err != nil {
		return err
	}
	out.Write(data)

	if !dryRun {
		path, err := output.Write(cfg.OutputDir, res.Metadata, cfg.Format)
		if err != nil {
			return err
		}
		fmt.Fprintf(log, "Saved metadata to %s (via %s)\n", path, res.Provider)
	}
	if store != nil {
		if err := store.Put(ctx, res.Metadata, res.Provider); err != nil {
			return err
		}
	}
	return nil
}

// collectInputs gathers raw inputs from args, --input-file lines, and DOIs
// found in --pdf files. It returns the number of PDFs or files that could
// not be read or had no DOI.
func collectInputs(cmd *cobra.Command, args []string, w io.Writer) ([]string, int) {
	inputs := append([]string(nil), args...)
	failures := 0

	if path, _ := cmd.Flags().GetString("input-file"); path != "" {
		lines, err := readLines(path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			failures++
		}
		inputs = append(inputs, lines...)
	}

	pdfs, _ := cmd.Flags().GetStringSlice("pdf")
	for _, path := range pdfs {
		start := time.Now()
		d, err := doi.FromPDF(path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			failures++
			continue
		}
		fmt.Fprintf(w, "Found DOI %s in %s (%s)\n", d, path, time.Since(start).Round(time.Millisecond))
		inputs = append(inputs, d)
	}
	return inputs, failures
}

// readLines returns the non-blank, non-comment lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
