package main

import (
	"fmt"
	"time"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/biopolymer/internal/duckdb"
	"github.com/inodb/biopolymer/internal/fasta"
	"github.com/inodb/biopolymer/internal/fetch"
)

func newFetchCmd() *cobra.Command {
	var (
		baseURL   string
		timeout   time.Duration
		storePath string
		inputPath string
		width     int
	)

	cmd := &cobra.Command{
		Use:   "fetch <accession>...",
		Short: "Fetch protein sequences by accession",
		Long: `Fetch retrieves protein records from the UniProt REST API (or a local FASTA
file with --input) and prints them as FASTA. With --store, fetched records are
cached in DuckDB and served from there on later calls.`,
		Example: `  biopolymer fetch P69905
  biopolymer fetch P69905 P68871 --store genes.duckdb
  biopolymer fetch P69905 --input uniprot_sprot.fasta.gz`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"fetch.base_url": "base-url",
				"fetch.timeout":  "timeout",
				"store.path":     "store",
				"output.width":   "width",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath != "" {
				return runFetchLocal(cmd, inputPath, args, viper.GetInt("output.width"))
			}
			return runFetch(cmd, args, fetchOptions{
				baseURL:   viper.GetString("fetch.base_url"),
				timeout:   fetchTimeout(),
				storePath: viper.GetString("store.path"),
				width:     viper.GetInt("output.width"),
			})
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", fetch.DefaultBaseURL, "Base URL of the sequence service")
	cmd.Flags().DurationVar(&timeout, "timeout", fetch.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB file caching fetched sequences")
	cmd.Flags().StringVar(&inputPath, "input", "", "Read records from a local FASTA file instead of the network")
	cmd.Flags().IntVar(&width, "width", fasta.DefaultWidth, "FASTA line width")

	return cmd
}

type fetchOptions struct {
	baseURL   string
	timeout   time.Duration
	storePath string
	width     int
}

func runFetch(cmd *cobra.Command, accessions []string, opts fetchOptions) error {
	f := fetch.NewFetcher(opts.baseURL, opts.timeout)
	f.SetLogger(logger)

	if opts.storePath != "" {
		store, err := duckdb.Open(opts.storePath)
		if err != nil {
			return err
		}
		defer store.Close()
		f.SetCache(store)
	}

	records := make([]*linear.Seq, 0, len(accessions))
	for _, acc := range accessions {
		s, err := f.Fetch(cmd.Context(), acc)
		if err != nil {
			return err
		}
		records = append(records, s)
	}
	return fasta.Write(cmd.OutOrStdout(), opts.width, records...)
}

func runFetchLocal(cmd *cobra.Command, path string, accessions []string, width int) error {
	records := make([]*linear.Seq, 0, len(accessions))
	for _, acc := range accessions {
		in, err := openInput(cmd, path)
		if err != nil {
			return err
		}
		s, err := fetch.ReadRecord(in, acc, alphabet.Protein)
		in.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, s)
	}
	return fasta.Write(cmd.OutOrStdout(), width, records...)
}
