// Package features selects the pattern vocabulary and encodes word pairs as
// vectors over it.
//
// Two different counts are involved. Patterns are selected by their global
// count over all pairs, while a pair's coordinate for a selected pattern is
// ln(c+1) of the pair's own local count c. This is not a TF-IDF scheme: no
// document frequency enters the vector values.
package features
