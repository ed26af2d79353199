// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/catalog"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/output"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

const defaultCatalogPath = "dome-copilot.db"

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the local catalog of resolved records",
	Long: `Catalog reads the SQLite database that resolve --catalog writes to.
Use list for a summary of every record and show for a single record.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued records",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <doi>",
	Short: "Print one catalogued record",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.PersistentFlags().String("db", defaultCatalogPath, "catalog database path")
	catalogShowCmd.Flags().String("format", string(types.FormatJSON), "output format: json or yaml")

	if err := viper.BindPFlag("catalog.path", catalogCmd.PersistentFlags().Lookup("db")); err != nil {
		panic(err)
	}

	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

func openCatalog() (*catalog.Store, error) {
	return catalog.Open(viper.GetString("catalog.path"))
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOI\tPMID\tPROVIDER\tYEAR\tTITLE")
	for _, e := range entries {
		m := e.Metadata
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.DOI, m.PMID, e.Provider, m.Year, truncate(m.Title, 60))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d record(s)\n", len(entries))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	d, err := doi.Extract(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(context.Background(), d)
	if err != nil {
		return err
	}
	data, err := output.Render(e.Metadata, types.OutputFormat(format))
	if err != nil {
		return err
	}
	cmd.OutOrStdout().Write(data)
	fmt.Fprintf(cmd.ErrOrStderr(), "provider: %s, resolved: %s\n", e.Provider, e.ResolvedAt.Format("2006-01-02 15:04"))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
