package pipeline

import (
	"github.com/Franka-Beyer/HSprakt/features"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/patterns"
	"github.com/Franka-Beyer/HSprakt/types"
)

// Vectorizer encodes single pairs over a vocabulary chosen by an earlier run.
type Vectorizer struct {
	vocab features.Vocabulary
	lem   *lemmatizer.Lemmatizer
}

func NewVectorizer(vocab features.Vocabulary, lem *lemmatizer.Lemmatizer) *Vectorizer {
	return &Vectorizer{vocab: vocab, lem: lem}
}

func (v *Vectorizer) Vocabulary() features.Vocabulary {
	return v.vocab
}

// Vectorize returns the normalized vector of pair given its raw match lines.
func (v *Vectorizer) Vectorize(pair types.WordPair, lines [][]string) features.Vector {
	agg := patterns.NewAggregator()
	agg.Add(pair.Key(), v.lem.PrepareAll(lines, pair))
	return features.Normalize(features.BuildVector(agg.Local(pair.Key()), v.vocab))
}
