package features

import (
	"fmt"
	"sort"

	"github.com/Franka-Beyer/HSprakt/patterns"
)

// Vocabulary is the ordered list of patterns used as feature columns.
type Vocabulary []string

// Index maps each pattern to its column.
func (vocab Vocabulary) Index() map[string]int {
	index := make(map[string]int, len(vocab))
	for i, pattern := range vocab {
		index[pattern] = i
	}
	return index
}

// SelectVocabulary returns the k*n most frequent distinct patterns, ranked by
// global count. Ties keep the order in which the patterns were first seen.
func SelectVocabulary(freq *patterns.Frequencies, k, n int) (Vocabulary, error) {
	if k < 0 || n < 0 {
		return nil, fmt.Errorf("vocabulary size factors must not be negative (k=%d, n=%d)", k, n)
	}
	distinct := freq.Distinct()
	ranked := make([]string, len(distinct))
	copy(ranked, distinct)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq.Count(ranked[i]) > freq.Count(ranked[j])
	})

	size := k * n
	if size > len(ranked) {
		size = len(ranked)
	}
	return Vocabulary(ranked[:size]), nil
}
