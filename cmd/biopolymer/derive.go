package main

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/biopolymer/internal/annotation"
	"github.com/inodb/biopolymer/internal/derive"
	"github.com/inodb/biopolymer/internal/duckdb"
	"github.com/inodb/biopolymer/internal/fasta"
	"github.com/inodb/biopolymer/internal/input"
	"github.com/inodb/biopolymer/internal/output"
)

func newDeriveCmd() *cobra.Command {
	var (
		gtfPath           string
		outputFile        string
		storePath         string
		workers           int
		requireAnnotation bool
		force             bool
	)

	cmd := &cobra.Command{
		Use:   "derive <fasta>",
		Short: "Derive coding, transcript, mRNA and protein facets of genes",
		Long: `Derive reads gene DNA from a FASTA file (plain, gzip, xz or bzip2; "-" for stdin) and
writes one tab-delimited row of facets per record. Exon structure comes from a
GTF file matched on transcript ID; records without an annotation are treated as
single-exon genes unless --require-annotation is set.

Records must be in transcript orientation: genes on the reverse strand are
expected reverse-complemented, as in GENCODE transcript FASTA. GTF exon
coordinates are mapped onto that orientation; a record in genomic orientation
would yield mirrored exons.`,
		Example: `  biopolymer derive genes.fa
  biopolymer derive genes.fa.gz --gtf gencode.v46.annotation.gtf.gz -o facets.tsv
  biopolymer derive genes.fa --store genes.duckdb --workers 8`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"store.path":     "store",
				"derive.workers": "workers",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, args[0], deriveOptions{
				gtfPath:           gtfPath,
				outputFile:        outputFile,
				storePath:         viper.GetString("store.path"),
				workers:           viper.GetInt("derive.workers"),
				requireAnnotation: requireAnnotation,
				force:             force,
			})
		},
	}

	cmd.Flags().StringVar(&gtfPath, "gtf", "", "GTF annotation with exon features (plain or compressed)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB file to persist derived facets")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of worker goroutines (0 = all CPUs)")
	cmd.Flags().BoolVar(&requireAnnotation, "require-annotation", false, "Skip records without a GTF annotation")
	cmd.Flags().BoolVar(&force, "force", false, "Derive again even if the store already holds this input")

	return cmd
}

type deriveOptions struct {
	gtfPath           string
	outputFile        string
	storePath         string
	workers           int
	requireAnnotation bool
	force             bool
}

func runDerive(cmd *cobra.Command, inputPath string, opts deriveOptions) error {
	var store *duckdb.Store
	var fp duckdb.FileFingerprint
	if opts.storePath != "" {
		var err error
		store, err = duckdb.Open(opts.storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if inputPath != "-" {
			fp, err = duckdb.StatFile(inputPath)
			if err != nil {
				return fmt.Errorf("stat input: %w", err)
			}
			done, n, err := store.HasRun(fp)
			if err != nil {
				return err
			}
			if done && !opts.force {
				logger.Info("input already derived, use --force to derive again",
					zap.String("path", inputPath),
					zap.Int("records", n))
				return nil
			}
		}
	}

	in, err := openInput(cmd, inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := fasta.Read(in, alphabet.DNA)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	logger.Info("loaded sequences", zap.String("path", inputPath), zap.Int("records", len(records)))

	var lookup derive.AnnotationLookup
	if opts.gtfPath != "" {
		index, err := annotation.NewGTFLoader(opts.gtfPath).Load()
		if err != nil {
			return fmt.Errorf("loading GTF: %w", err)
		}
		logger.Info("loaded annotations", zap.String("path", opts.gtfPath), zap.Int("transcripts", len(index)))
		lookup = derive.RecordIndex(index)
	}

	d := derive.NewDeriver(lookup)
	d.SetRequireAnnotation(opts.requireAnnotation)
	d.SetLogger(logger)

	var out io.Writer = cmd.OutOrStdout()
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	tw := output.NewTabWriter(out)
	if err := tw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var derived []*derive.Facets
	err = d.DeriveAll(records, opts.workers, func(f *derive.Facets) error {
		if store != nil {
			derived = append(derived, f)
		}
		return tw.Write(f)
	})
	if err != nil {
		return fmt.Errorf("deriving: %w", err)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	if store != nil {
		if err := store.WriteFacets(derived); err != nil {
			return err
		}
		if fp.Path != "" {
			if err := store.RecordRun(fp, len(derived)); err != nil {
				return err
			}
		}
		logger.Info("stored facets", zap.String("store", store.Path()), zap.Int("records", len(derived)))
	}
	return nil
}

// openInput opens path for reading, decompressing gzip, xz or bzip2
// content. "-" reads from the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		r, _, err := input.NewReader(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return io.NopCloser(r), nil
	}
	f, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
