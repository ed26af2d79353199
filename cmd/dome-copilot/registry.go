// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/registry"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

const (
	defaultPDFDir           = "DOME_Registry_PMC_PDFs"
	defaultSupplementaryDir = "DOME_Registry_PMC_Supplementary"
	defaultProcessedDir     = "Copilot_Processed_Datasets_JSON"
	defaultReviewsFile      = "DOME_Registry_Human_Reviews.json"
	defaultPackageRoot      = "DOME_Copilot_Data_Package"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Maintain the local DOME registry download tree",
	Long: `Registry groups housekeeping for the registry downloads: filing PDFs
into per-article folders, comparing local data against the registry review
export, creating placeholder folders, and packaging everything into a zip.

Directory flags may also be set in dome-copilot.yaml under "registry".`,
}

var registryOrganizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "File full-text PDFs into <PMCID>/<PMCID>_main.pdf folders",
	RunE:  runRegistryOrganize,
}

var registryCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare registry PMCIDs with processed JSON files and article folders",
	RunE:  runRegistryCompare,
}

var registryMissingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List processed JSON files that have no article folder",
	RunE:  runRegistryMissing,
}

var registryPlaceholdersCmd = &cobra.Command{
	Use:   "placeholders [pmcid...]",
	Short: "Create empty_<PMCID> folders for articles without downloads",
	Long: `Placeholders creates an empty_<PMCID> folder in the supplementary
directory for each PMCID given. With --missing, it instead uses the registry
PMCIDs that have no article folder yet.`,
	RunE: runRegistryPlaceholders,
}

var registryPackageCmd = &cobra.Command{
	Use:   "package [path=dest...]",
	Short: "Zip registry data with a per-PMCID coverage table",
	Long: `Package writes a zip archive with every source under <root>/<dest> and a
<root>_Metadata.csv table marking which sources hold data for each PMCID.

Without arguments the configured processed, supplementary and reviews paths
are packaged. Each argument may name an extra source as path=dest.`,
	RunE: runRegistryPackage,
}

func init() {
	pf := registryCmd.PersistentFlags()
	pf.String("pdf-dir", defaultPDFDir, "flat directory of PMC full-text PDFs")
	pf.String("supplementary-dir", defaultSupplementaryDir, "directory with one folder per PMCID")
	pf.String("processed-dir", defaultProcessedDir, "directory with one processed JSON per PMCID")
	pf.String("reviews", defaultReviewsFile, "registry human review export (JSON)")

	for key, flag := range map[string]string{
		"registry.pdf_dir":           "pdf-dir",
		"registry.supplementary_dir": "supplementary-dir",
		"registry.processed_dir":     "processed-dir",
		"registry.reviews_file":      "reviews",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	registryPlaceholdersCmd.Flags().Bool("missing", false, "use registry PMCIDs that have no folder")
	registryPackageCmd.Flags().String("output", defaultPackageRoot+".zip", "zip file to write")
	registryPackageCmd.Flags().String("root", defaultPackageRoot, "top-level folder inside the zip")

	registryCmd.AddCommand(registryOrganizeCmd, registryCompareCmd, registryMissingCmd, registryPlaceholdersCmd, registryPackageCmd)
	rootCmd.AddCommand(registryCmd)
}

func registryConfig() types.RegistryConfig {
	return types.RegistryConfig{
		PDFDir:           viper.GetString("registry.pdf_dir"),
		SupplementaryDir: viper.GetString("registry.supplementary_dir"),
		ProcessedDir:     viper.GetString("registry.processed_dir"),
		ReviewsFile:      viper.GetString("registry.reviews_file"),
	}
}

func runRegistryOrganize(cmd *cobra.Command, args []string) error {
	cfg := registryConfig()
	result, err := registry.Organize(cfg.PDFDir, cfg.SupplementaryDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d PDF(s) could not be organized", result.Failed)
	}
	return nil
}

func runRegistryCompare(cmd *cobra.Command, args []string) error {
	cfg := registryConfig()
	report, err := registry.Compare(cfg.ReviewsFile, cfg.ProcessedDir, cfg.SupplementaryDir, os.Stderr)
	if err != nil {
		return err
	}
	registry.FormatReport(cmd.OutOrStdout(), report)
	return nil
}

func runRegistryMissing(cmd *cobra.Command, args []string) error {
	cfg := registryConfig()
	missing, err := registry.MissingFolders(cfg.ProcessedDir, cfg.SupplementaryDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d processed JSON file(s) without a folder in %s\n", len(missing), cfg.SupplementaryDir)
	for _, id := range missing {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runRegistryPlaceholders(cmd *cobra.Command, args []string) error {
	cfg := registryConfig()
	pmcids := args

	missing, _ := cmd.Flags().GetBool("missing")
	if missing {
		report, err := registry.Compare(cfg.ReviewsFile, cfg.ProcessedDir, cfg.SupplementaryDir, os.Stderr)
		if err != nil {
			return err
		}
		pmcids = append(pmcids, withoutPlaceholders(report.Folders.Missing, cfg.SupplementaryDir)...)
	}
	if len(pmcids) == 0 {
		fmt.Fprintln(os.Stderr, "No PMCIDs to create placeholders for.")
		return nil
	}

	created, err := registry.Placeholders(cfg.SupplementaryDir, pmcids, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nCreated %d placeholder folder(s)\n", created)
	return nil
}

// withoutPlaceholders drops ids that already have an empty_<id> folder.
func withoutPlaceholders(ids []string, dir string) []string {
	existing, err := registry.FolderNames(dir)
	if err != nil {
		return ids
	}
	has := make(map[string]bool, len(existing))
	for _, name := range existing {
		has[name] = true
	}
	var out []string
	for _, id := range ids {
		if !has[registry.PlaceholderPrefix+id] {
			out = append(out, id)
		}
	}
	return out
}

func runRegistryPackage(cmd *cobra.Command, args []string) error {
	cfg := registryConfig()
	zipPath, _ := cmd.Flags().GetString("output")
	root, _ := cmd.Flags().GetString("root")

	sources, err := packageSources(cfg, args)
	if err != nil {
		return err
	}
	_, err = registry.Package(zipPath, root, sources, os.Stdout)
	return err
}

// packageSources returns the configured default sources when args is
// empty, otherwise the path=dest pairs from args.
func packageSources(cfg types.RegistryConfig, args []string) ([]registry.Source, error) {
	if len(args) == 0 {
		return []registry.Source{
			{Path: cfg.ProcessedDir, Dest: filepath.Base(cfg.ProcessedDir)},
			{Path: cfg.SupplementaryDir, Dest: filepath.Base(cfg.SupplementaryDir)},
			{Path: cfg.ReviewsFile, Dest: filepath.Base(cfg.ReviewsFile)},
		}, nil
	}
	sources := make([]registry.Source, 0, len(args))
	for _, arg := range args {
		path, dest, ok := strings.Cut(arg, "=")
		if !ok || path == "" || dest == "" {
			return nil, fmt.Errorf("invalid source %q (want path=dest)", arg)
		}
		sources = append(sources, registry.Source{Path: path, Dest: dest})
	}
	return sources, nil
}
