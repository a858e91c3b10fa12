package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/types"
)

// Input holds the labeled pairs of a run and their raw match lines.
type Input struct {
	Pairs  []string
	Labels map[string]types.Relation
	Lines  map[string][][]string
}

// LabelPairs reads the manifests of sources. A source label overrides the
// label recorded in its manifest. A pair listed more than once keeps its first
// position and takes the last label it was given.
func LabelPairs(sources []types.Source) ([]string, map[string]types.Relation, error) {
	var pairs []string
	labels := make(map[string]types.Relation)
	for _, source := range sources {
		manifest, err := types.ReadManifest(source.Manifest)
		if err != nil {
			return nil, nil, fmt.Errorf("reading manifest %s: %w", source.Manifest, err)
		}
		label := manifest.Label
		if source.Label != "" {
			label = source.Label
		}
		for _, pairKey := range manifest.Pairs {
			if _, ok := labels[pairKey]; !ok {
				pairs = append(pairs, pairKey)
			}
			labels[pairKey] = label
		}
	}
	return pairs, labels, nil
}

// LoadInput fetches the match lines of every pair from store. Pairs the store
// has nothing for are reported and left out.
func LoadInput(ctx context.Context, store matches.Store, pairs []string, labels map[string]types.Relation) (Input, error) {
	inputLogger := logger.NewLogger("Pipeline Input")
	input := Input{
		Labels: labels,
		Lines:  make(map[string][][]string, len(pairs)),
	}
	for _, pairKey := range pairs {
		lines, err := store.Lines(ctx, pairKey)
		if errors.Is(err, matches.ErrNoMatches) {
			inputLogger.Warn().Str("pair", pairKey).Msg("No matches stored, skipping pair")
			continue
		}
		if err != nil {
			return Input{}, fmt.Errorf("loading matches of %s: %w", pairKey, err)
		}
		input.Pairs = append(input.Pairs, pairKey)
		input.Lines[pairKey] = lines
	}
	inputLogger.Info().
		Int("pairs", len(pairs)).
		Int("loaded", len(input.Pairs)).
		Msg("Loaded match lines")
	return input, nil
}
