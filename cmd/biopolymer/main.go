// Package main provides the biopolymer command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/biopolymer/internal/fasta"
	"github.com/inodb/biopolymer/internal/fetch"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is replaced in the root command's PersistentPreRunE.
var logger = zap.NewNop()

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "biopolymer",
		Short: "Derive transcripts, mRNA and proteins from annotated genes",
		Long: `biopolymer derives the molecular facets of genetic biopolymers: the coding
and non-coding partition of a gene, its spliced transcript, messenger RNA and
translated protein. Sequences are read from FASTA; exon structure from GTF.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.biopolymer.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newDeriveCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newFacetsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads the config file and environment into viper.
func initConfig(cfgFile string) error {
	viper.SetDefault("fetch.base_url", fetch.DefaultBaseURL)
	viper.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	viper.SetDefault("derive.workers", 0)
	viper.SetDefault("output.width", fasta.DefaultWidth)

	viper.SetEnvPrefix("BIOPOLYMER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".biopolymer")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// bindFlags binds config keys to the named flags of cmd. Called from PreRunE
// so that only the running command's flags are bound.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = nil
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func fetchTimeout() time.Duration {
	return viper.GetDuration("fetch.timeout")
}
