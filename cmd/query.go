package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Franka-Beyer/HSprakt/cqp"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/relations"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/Franka-Beyer/HSprakt/worker"
	"github.com/spf13/cobra"
)

const workerRestartDelay = 5 * time.Second

var defaultPairFiles = []string{"antonyms_long.csv", "synonyms.csv", "nonyms.csv"}

type chunkOptions struct {
	files []string
	begin int
	end   int
}

func (opts *chunkOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.files, "files", "f", defaultPairFiles, "pair files, labeled by their name prefix")
	flags.IntVar(&opts.begin, "beginrange", 0, "first pair of the chunk")
	flags.IntVar(&opts.end, "endrange", 200, "end of the chunk, exclusive")
}

type queryFunc func(ctx context.Context, pairs []types.WordPair) (cqp.Outcome, error)

// labelFromFile takes the relation from the file name, "antonyms_long.csv"
// holds antonyms.
func labelFromFile(path string) (types.Relation, error) {
	base := filepath.Base(path)
	for _, relation := range types.Relations {
		if strings.HasPrefix(base, string(relation)) {
			return relation, nil
		}
	}
	return "", fmt.Errorf("%w: cannot label %s", types.ErrUnknownRelation, path)
}

// chunkOutputs names the manifest and the blacklist of a chunk of path, both
// next to it.
func chunkOutputs(path string, begin, end int) (string, string) {
	dir, base := filepath.Split(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	chunk := fmt.Sprintf("%d-%d_%s", begin, end, name)
	return filepath.Join(dir, "results_"+chunk+".json"), filepath.Join(dir, "blacklisted_"+chunk+".csv")
}

// queryChunks runs query over the chunk of every pair file and saves which
// pairs matched.
func queryChunks(ctx context.Context, opts chunkOptions, query queryFunc) error {
	if opts.begin < 0 || opts.end < opts.begin {
		return fmt.Errorf("invalid range [%d, %d)", opts.begin, opts.end)
	}
	for _, file := range opts.files {
		fileLogger := cmdLogger.With().Str("file", file).Logger()
		label, err := labelFromFile(file)
		if err != nil {
			fileLogger.Err(err).Msg("Failed to label pair file")
			return err
		}
		pairs, err := relations.ReadPairs(file, label)
		if err != nil {
			fileLogger.Err(err).Msg("Failed to read pair file")
			return err
		}
		chunk := relations.Chunk(pairs, opts.begin, opts.end)
		fileLogger.Info().Int("pairs", len(chunk)).Msg("Querying chunk")

		outcome, err := query(ctx, chunk)
		if err != nil {
			fileLogger.Err(err).Msg("Failed to query chunk")
			return err
		}

		manifestPath, blacklistPath := chunkOutputs(file, opts.begin, opts.end)
		manifest := types.ResultManifest{Label: label, Pairs: outcome.Found}
		if manifest.Pairs == nil {
			manifest.Pairs = []string{}
		}
		if err := types.WriteManifest(manifestPath, manifest); err != nil {
			return err
		}
		blacklisted := make([][2]string, len(outcome.Blacklisted))
		for i, pair := range outcome.Blacklisted {
			blacklisted[i] = [2]string{pair.First, pair.Second}
		}
		if err := relations.WritePairs(blacklistPath, blacklisted); err != nil {
			return err
		}
		fileLogger.Info().
			Int("found", len(outcome.Found)).
			Int("blacklisted", len(outcome.Blacklisted)).
			Str("manifest", manifestPath).
			Msg("Saved chunk results")
	}
	return nil
}

type corpusOptions struct {
	lemmaForms string
	corpus     string
}

func (opts *corpusOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&opts.lemmaForms, "lemmaformname", "LemmaForm.json", "lemma to word forms dictionary")
	flags.StringVar(&opts.corpus, "corpusname", cqp.DefaultCorpus, `activation phrase of the corpus, "<name>;"`)
}

func (opts *corpusOptions) newQuery(config Config) (*cqp.Query, error) {
	forms, err := lemmatizer.LoadLemmaForms(opts.lemmaForms)
	if err != nil {
		cmdLogger.Err(err).Str("file", opts.lemmaForms).Msg("Failed to load lemma to forms dictionary")
		return nil, err
	}
	runner := cqp.NewRunner(config.CQPBinary, config.CQPConcurrency, config.WorkDir)
	return cqp.NewQuery(runner, forms, opts.corpus), nil
}

func newQueryCmd() *cobra.Command {
	var chunks chunkOptions
	var corpus corpusOptions
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query the corpus for a chunk of every pair file",
		Long: `Query the corpus for the pairs [beginrange, endrange) of every pair file.
Matches are left in RELVEC_WORK_DIR, one file per pair. For each pair file a
results manifest and a blacklist of the pairs without matches are saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			query, err := corpus.newQuery(config)
			if err != nil {
				return err
			}
			return queryChunks(cmd.Context(), chunks, query.Prepare)
		},
	}
	chunks.register(queryCmd)
	corpus.register(queryCmd)
	return queryCmd
}

func newDispatchCmd() *cobra.Command {
	var chunks chunkOptions
	dispatchCmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Query a chunk of every pair file through the workers",
		Long: `Publish the pairs [beginrange, endrange) of every pair file to the query
queue and wait for the workers to report. Matches are kept in Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, err := worker.NewDispatcher()
			if err != nil {
				return err
			}
			defer dispatcher.Close()
			return queryChunks(cmd.Context(), chunks, dispatcher.Dispatch)
		},
	}
	chunks.register(dispatchCmd)
	return dispatchCmd
}

func newWorkerCmd() *cobra.Command {
	var corpus corpusOptions
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume the query queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			query, err := corpus.newQuery(config)
			if err != nil {
				return err
			}
			return runWorker(cmd.Context(), query)
		},
	}
	corpus.register(workerCmd)
	return workerCmd
}

// runWorker restarts the worker after failures until ctx is done.
func runWorker(ctx context.Context, query *cqp.Query) error {
	cmdLogger.Info().Msg("Start relvec worker")
	for {
		rmqWorker, err := worker.New(query)
		if err != nil {
			cmdLogger.Err(err).Caller().Msg("Could not initialize RMQ worker")
			return err
		}
		err = rmqWorker.StartWorker(ctx)
		if ctx.Err() != nil {
			cmdLogger.Info().Msg("Worker stopped")
			return nil
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			cmdLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(workerRestartDelay):
		}
	}
}
