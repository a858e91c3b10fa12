package pipeline

import (
	"github.com/Franka-Beyer/HSprakt/features"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/Franka-Beyer/HSprakt/patterns"
	"github.com/Franka-Beyer/HSprakt/types"
)

// Result is everything a run exports. Vectors are normalized when the run
// asked for it, Raw never is. Table is balanced when the run asked for it.
type Result struct {
	Vocabulary features.Vocabulary
	Pairs      []string
	Raw        map[string]features.Vector
	Vectors    map[string]features.Vector
	Table      *features.Table
}

// Extract turns the match lines of input into the labeled feature table.
func Extract(params Params, lem *lemmatizer.Lemmatizer, input Input) (*Result, error) {
	extractLogger := logger.NewLogger("Extract")
	errLogger := extractLogger.With().Caller().Logger()
	extractLogger.Info().
		Interface("params", params).
		Msg("Starting feature extraction (see parameters in 'params' field)")

	agg, err := aggregate(lem, input)
	if err != nil {
		errLogger.Err(err).Msg("Failed to aggregate patterns")
		return nil, err
	}
	pairs := agg.Pairs()
	extractLogger.Info().
		Int("pairs", len(pairs)).
		Int("distinct_patterns", len(agg.Global().Distinct())).
		Int("patterns", agg.Global().Total()).
		Msg("Counted patterns")

	vocab, err := features.SelectVocabulary(agg.Global(), params.K, len(pairs))
	if err != nil {
		errLogger.Err(err).Msg("Failed to select vocabulary")
		return nil, err
	}

	raw := features.BuildVectors(agg, vocab)
	vectors := raw
	if params.Normalize {
		vectors = features.NormalizeAll(raw)
	}
	if err := features.CheckDimensions(vectors, vocab); err != nil {
		errLogger.Err(err).Msg("Inconsistent vectors")
		return nil, err
	}

	table, err := features.NewTable(vocab, pairs, input.Labels, vectors)
	if err != nil {
		errLogger.Err(err).Msg("Failed to build table")
		return nil, err
	}
	if params.Balance {
		table, err = features.Balance(table, raw)
		if err != nil {
			errLogger.Err(err).Msg("Failed to balance table")
			return nil, err
		}
	}
	extractLogger.Info().
		Int("vocabulary", len(vocab)).
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Header)).
		Msg("Finished feature extraction")

	return &Result{
		Vocabulary: vocab,
		Pairs:      pairs,
		Raw:        raw,
		Vectors:    vectors,
		Table:      table,
	}, nil
}

func aggregate(lem *lemmatizer.Lemmatizer, input Input) (*patterns.Aggregator, error) {
	agg := patterns.NewAggregator()
	for _, pairKey := range input.Pairs {
		pair, err := types.PairFromKey(pairKey, input.Labels[pairKey])
		if err != nil {
			return nil, err
		}
		agg.Add(pairKey, lem.PrepareAll(input.Lines[pairKey], pair))
	}
	return agg, nil
}
