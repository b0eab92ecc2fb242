package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/biopolymer/internal/derive"
	"github.com/inodb/biopolymer/internal/duckdb"
	"github.com/inodb/biopolymer/internal/output"
)

func newFacetsCmd() *cobra.Command {
	var (
		storePath string
		protein   string
	)

	cmd := &cobra.Command{
		Use:   "facets [id]...",
		Short: "Show stored facets by record ID or protein",
		Example: `  biopolymer facets ENST00000335295 --store genes.duckdb
  biopolymer facets --protein MVLSPADKTNVKAAWGKVGAHAGEYGAEALERMFLSFPTTKTYFPHF --store genes.duckdb`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"store.path": "store"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("store.path")
			if path == "" {
				return errors.New("no store configured: pass --store or set store.path")
			}
			if len(args) == 0 && protein == "" {
				return errors.New("give at least one ID or --protein")
			}
			return runFacets(cmd, path, args, protein)
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB file holding derived facets")
	cmd.Flags().StringVar(&protein, "protein", "", "Find records translating to this protein")

	return cmd
}

func runFacets(cmd *cobra.Command, storePath string, ids []string, protein string) error {
	store, err := duckdb.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	var found []*derive.Facets
	for _, id := range ids {
		f, err := store.LookupFacets(id)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("no facets stored for %q", id)
		}
		found = append(found, f)
	}
	if protein != "" {
		matches, err := store.SearchByProtein(protein)
		if err != nil {
			return err
		}
		found = append(found, matches...)
	}

	tw := output.NewTabWriter(cmd.OutOrStdout())
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, f := range found {
		if err := tw.Write(f); err != nil {
			return err
		}
	}
	return tw.Flush()
}
