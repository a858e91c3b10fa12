package pipeline

import (
	"context"

	"github.com/Franka-Beyer/HSprakt/export"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/types"
)

// Run executes the run configuration cfg against the match lines in store.
func Run(ctx context.Context, cfg types.RunConfiguration, store matches.Store) (*Result, error) {
	runLogger := logger.NewLogger("Run").With().Str("run", cfg.Name).Logger()
	errLogger := runLogger.With().Caller().Logger()

	forms, err := lemmatizer.LoadFormLemma(cfg.FormLemma)
	if err != nil {
		errLogger.Err(err).Str("form_lemma", cfg.FormLemma).Msg("Failed to load form to lemma dictionary")
		return nil, err
	}
	runLogger.Info().Int("forms", len(forms)).Msg("Loaded form to lemma dictionary")

	pairs, labels, err := LabelPairs(cfg.Sources)
	if err != nil {
		errLogger.Err(err).Msg("Failed to read manifests")
		return nil, err
	}
	input, err := LoadInput(ctx, store, pairs, labels)
	if err != nil {
		errLogger.Err(err).Msg("Failed to load match lines")
		return nil, err
	}
	return Extract(ParamsFromConfiguration(cfg), lemmatizer.New(forms), input)
}

// Save writes the vocabulary, the vectors and the table to outputs and returns
// the paths written.
func Save(result *Result, outputs types.Outputs) ([]string, error) {
	if err := export.WriteVocabulary(outputs.Vocabulary, result.Vocabulary); err != nil {
		return nil, err
	}
	if err := export.WriteVectors(outputs.Vectors, result.Vectors); err != nil {
		return nil, err
	}
	if err := export.WriteTableFile(outputs.Data, result.Table); err != nil {
		return nil, err
	}
	return []string{outputs.Vocabulary, outputs.Vectors, outputs.Data}, nil
}
