// Package cmd holds the relvec command line: building the dictionaries and
// pair lists, querying the corpus, and extracting the feature vectors.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

type Config struct {
	CQPBinary      string `envconfig:"RELVEC_CQP_BINARY" default:"cqp"`
	CQPConcurrency int    `envconfig:"RELVEC_CQP_CONCURRENCY" default:"8"`
	WorkDir        string `envconfig:"RELVEC_WORK_DIR" default:"."`
	RestAPIPort    string `envconfig:"RELVEC_REST_API_PORT" default:"10000"`
}

var cmdLogger = logger.NewLogger("Main")

func loadConfig() (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		cmdLogger.Err(err).Msg("Failed to read environment")
		return Config{}, err
	}
	return config, nil
}

// NewRootCmd builds the relvec command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relvec",
		Short: "relvec - pattern features for lexical relation classification",
		Long: `relvec builds feature vectors for classifying German word pairs as
antonyms, synonyms or unrelated, from the lexico-syntactic patterns joining
them in a CQP corpus.

Stages:
  celex      build the form/lemma dictionaries
  antonyms   extract antonym pairs from GermaNet
  synonyms   extract synonym pairs from OpenThesaurus
  nonyms     draw unrelated pairs
  query      query the corpus for a chunk of every pair file
  dispatch   same as query, through the worker queue
  worker     consume the worker queue
  vectors    select the patterns and write the vectors
  serve      vectorize pairs over HTTP`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newCelexCmd(),
		newAntonymsCmd(),
		newSynonymsCmd(),
		newNonymsCmd(),
		newQueryCmd(),
		newDispatchCmd(),
		newWorkerCmd(),
		newVectorsCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the command line until it finishes or the process is signalled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
