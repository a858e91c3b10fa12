package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Franka-Beyer/HSprakt/export"
	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/pipeline"
	"github.com/Franka-Beyer/HSprakt/redis"
	"github.com/Franka-Beyer/HSprakt/s3client"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/spf13/cobra"
)

type vectorsOptions struct {
	configPath   string
	formLemma    string
	manifests    []string
	labels       []string
	k            int
	patternFile  string
	normalize    bool
	vectorFile   string
	balance      bool
	dataFile     string
	matchesDir   string
	uploadPrefix string
}

func newVectorsCmd() *cobra.Command {
	var opts vectorsOptions
	vectorsCmd := &cobra.Command{
		Use:   "vectors",
		Short: "Select the feature patterns and write the vectors of every pair",
		Long: `Select the feature patterns and write the vectors of every pair listed in
the results manifests.

The run is described either by flags or by --config, a YAML run configuration
or a directory of them. Matches are read from --matches-dir (matches_dir) when
set, from Redis otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgs, err := opts.runConfigurations()
			if err != nil {
				cmdLogger.Err(err).Msg("Failed to load run configurations")
				return err
			}
			for _, cfg := range cfgs {
				if err := runVectors(cmd.Context(), cfg); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags := vectorsCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML run configuration or directory of them")
	flags.StringVar(&opts.formLemma, "formlemmaname", types.DefaultFormLemmaFile, "word form to lemma dictionary")
	flags.StringSliceVarP(&opts.manifests, "resultfiles", "f", nil, "results manifests, parallel to --labels")
	flags.StringSliceVarP(&opts.labels, "labels", "l", nil, "labels of the results manifests")
	flags.IntVar(&opts.k, "k", types.DefaultK, "factor of the number of feature patterns")
	flags.StringVar(&opts.patternFile, "patternfile", types.DefaultVocabularyFile, "chosen feature patterns")
	flags.BoolVar(&opts.normalize, "normalize", true, "normalize the vectors, balanced data is always normalized")
	flags.StringVar(&opts.vectorFile, "vectorfile", types.DefaultVectorsFile, "pair to vector dictionary")
	flags.BoolVar(&opts.balance, "balance", true, "balance the labels of the data file")
	flags.StringVar(&opts.dataFile, "datafile", types.DefaultDataFile, "tab separated data file")
	flags.StringVar(&opts.matchesDir, "matches-dir", "", "directory of the query results")
	flags.StringVar(&opts.uploadPrefix, "upload-prefix", "", "upload the outputs to S3 under this prefix")
	return vectorsCmd
}

func (opts vectorsOptions) runConfigurations() ([]types.RunConfiguration, error) {
	if opts.configPath != "" {
		info, err := os.Stat(opts.configPath)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return types.LoadRunConfigurations(opts.configPath)
		}
		cfg, err := types.LoadRunConfiguration(opts.configPath)
		if err != nil {
			return nil, err
		}
		return []types.RunConfiguration{*cfg}, nil
	}

	if len(opts.manifests) != len(opts.labels) {
		return nil, fmt.Errorf("%w: %d result files but %d labels",
			types.ErrInvalidConfig, len(opts.manifests), len(opts.labels))
	}
	cfg := types.RunConfiguration{
		Name:      "vectors",
		K:         opts.k,
		Normalize: &opts.normalize,
		Balance:   &opts.balance,
		FormLemma: opts.formLemma,
		Outputs: types.Outputs{
			Vocabulary: opts.patternFile,
			Vectors:    opts.vectorFile,
			Data:       opts.dataFile,
		},
		MatchesDir:   opts.matchesDir,
		UploadPrefix: opts.uploadPrefix,
	}
	for i, manifest := range opts.manifests {
		cfg.Sources = append(cfg.Sources, types.Source{Manifest: manifest, Label: types.Relation(opts.labels[i])})
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return []types.RunConfiguration{cfg}, nil
}

func runVectors(ctx context.Context, cfg types.RunConfiguration) error {
	runLogger := cmdLogger.With().Str("run", cfg.Name).Logger()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		runLogger.Err(err).Msg("Failed to open match store")
		return err
	}
	defer closeStore()

	result, err := pipeline.Run(ctx, cfg, store)
	if err != nil {
		return err
	}
	files, err := pipeline.Save(result, cfg.Outputs)
	if err != nil {
		runLogger.Err(err).Msg("Failed to save outputs")
		return err
	}
	runLogger.Info().Strs("files", files).Msg("Saved outputs")

	if cfg.UploadPrefix == "" {
		return nil
	}
	client, err := s3client.New()
	if err != nil {
		runLogger.Err(err).Msg("Failed to create S3 client")
		return err
	}
	defer client.Close()
	return export.Publish(ctx, client, cfg.UploadPrefix, files...)
}

func openStore(cfg types.RunConfiguration) (matches.Store, func(), error) {
	if cfg.MatchesDir != "" {
		return matches.NewFileStore(cfg.MatchesDir), func() {}, nil
	}
	client, err := redis.NewClient(matches.MatchesDB)
	if err != nil {
		return nil, nil, err
	}
	return matches.NewRedisStore(&client), func() { _ = client.Close() }, nil
}
