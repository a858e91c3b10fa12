package patterns

// Counts maps a joined pattern to its number of occurrences.
type Counts map[string]int

// Frequencies counts patterns and remembers the order in which each distinct
// pattern was first seen. It carries the same information as the flat
// sequence of all generated patterns as far as frequency ranking goes.
type Frequencies struct {
	counts Counts
	order  []string
	total  int
}

func NewFrequencies() *Frequencies {
	return &Frequencies{counts: make(Counts)}
}

// CountSequence builds Frequencies from a flat pattern sequence. Empty
// patterns are ignored.
func CountSequence(sequence []string) *Frequencies {
	freq := NewFrequencies()
	for _, pattern := range sequence {
		freq.Add(pattern)
	}
	return freq
}

func (freq *Frequencies) Add(pattern string) {
	if pattern == "" {
		return
	}
	if _, ok := freq.counts[pattern]; !ok {
		freq.order = append(freq.order, pattern)
	}
	freq.counts[pattern]++
	freq.total++
}

func (freq *Frequencies) Count(pattern string) int {
	return freq.counts[pattern]
}

// Distinct returns the distinct patterns in first-seen order.
func (freq *Frequencies) Distinct() []string {
	return freq.order
}

// Total is the length of the underlying flat sequence.
func (freq *Frequencies) Total() int {
	return freq.total
}

// Aggregator collects the per-pair pattern counts and the corpus-wide
// frequencies for one run. It is not safe for concurrent use.
type Aggregator struct {
	local  map[string]Counts
	pairs  []string
	global *Frequencies
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		local:  make(map[string]Counts),
		global: NewFrequencies(),
	}
}

// Add generates the patterns of every line of the pair and counts them. The
// lines must already be lemmatized and anonymized. A pair is only registered
// once it contributes at least one line.
func (agg *Aggregator) Add(pairKey string, lines [][]string) {
	if len(lines) == 0 {
		return
	}
	counts, ok := agg.local[pairKey]
	if !ok {
		counts = make(Counts)
		agg.local[pairKey] = counts
		agg.pairs = append(agg.pairs, pairKey)
	}
	for _, line := range lines {
		for pattern := range Generate(line) {
			joined := Join(pattern)
			if joined == "" {
				continue
			}
			counts[joined]++
			agg.global.Add(joined)
		}
	}
}

// Local returns the pattern counts of a single pair, nil for unknown pairs.
func (agg *Aggregator) Local(pairKey string) Counts {
	return agg.local[pairKey]
}

// Pairs returns the registered pair keys in insertion order.
func (agg *Aggregator) Pairs() []string {
	return agg.pairs
}

func (agg *Aggregator) Global() *Frequencies {
	return agg.global
}
