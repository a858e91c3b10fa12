package cqp

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/Franka-Beyer/HSprakt/utils"
	"github.com/rs/zerolog"
)

// Query searches the corpus for every surface form combination of word pairs.
type Query struct {
	runner *Runner
	forms  lemmatizer.LemmaForms
	corpus string

	logger zerolog.Logger
}

// Outcome lists the pairs with matches (their keys) and the pairs without.
type Outcome struct {
	Found       []string
	Blacklisted []types.WordPair
}

func NewQuery(runner *Runner, forms lemmatizer.LemmaForms, corpus string) *Query {
	return &Query{
		runner: runner,
		forms:  forms,
		corpus: corpus,
		logger: logger.NewLogger("CQP Query"),
	}
}

// ResultPath is where the matches of pairKey end up.
func (q *Query) ResultPath(pairKey string) string {
	return filepath.Join(q.runner.Dir, ResultName(pairKey))
}

// Prepare runs the scripts of all pairs. Pairs whose result file is missing or
// empty are blacklisted and their empty files removed. Failing scripts are
// logged; only a cancelled context or a file system error fails the batch.
func (q *Query) Prepare(ctx context.Context, pairs []types.WordPair) (Outcome, error) {
	scripts := make([]string, 0, len(pairs))
	defer func() {
		q.removeScripts(scripts)
	}()

	for _, pair := range pairs {
		script, err := q.writeScript(pair)
		if err != nil {
			return Outcome{}, err
		}
		scripts = append(scripts, script)
	}

	if err := q.runner.Run(ctx, scripts); err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		q.logger.Warn().Err(err).Msg("Some queries failed")
	}

	var outcome Outcome
	for _, pair := range pairs {
		found, err := q.collect(pair)
		if err != nil {
			return Outcome{}, err
		}
		if found {
			outcome.Found = append(outcome.Found, pair.Key())
		} else {
			outcome.Blacklisted = append(outcome.Blacklisted, pair)
		}
	}
	return outcome, nil
}

// PreparePair runs the script of a single pair and reports whether it matched.
// Unlike Prepare, a failing script is returned as an error. Results left over
// from an earlier attempt are discarded first, the script appends to the file.
func (q *Query) PreparePair(ctx context.Context, pair types.WordPair) (bool, error) {
	if err := q.RemoveResults(pair.Key()); err != nil {
		return false, err
	}
	script, err := q.writeScript(pair)
	if err != nil {
		return false, err
	}
	defer q.removeScripts([]string{script})

	if err := q.runner.RunScript(ctx, script); err != nil {
		return false, err
	}
	return q.collect(pair)
}

func (q *Query) writeScript(pair types.WordPair) (string, error) {
	combinations := q.forms.Expand(pair.First, pair.Second)
	return WriteScript(q.runner.Dir, q.corpus, pair.Key(), combinations)
}

func (q *Query) collect(pair types.WordPair) (bool, error) {
	path := q.ResultPath(pair.Key())
	found, err := utils.FileHasContent(path)
	if err != nil {
		return false, err
	}
	if found {
		return true, nil
	}

	q.logger.Info().Str("pair", pair.Key()).Msg("No results")
	return false, q.RemoveResults(pair.Key())
}

// RemoveResults deletes the result file of pairKey if there is one.
func (q *Query) RemoveResults(pairKey string) error {
	err := os.Remove(q.ResultPath(pairKey))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (q *Query) removeScripts(scripts []string) {
	for _, script := range scripts {
		if err := os.Remove(script); err != nil && !errors.Is(err, os.ErrNotExist) {
			q.logger.Warn().Err(err).Str("script", script).Msg("Unable to remove script")
		}
	}
}
