// Package patterns turns anonymized match lines into wildcard patterns and
// counts them per word pair and across the whole corpus.
package patterns

import (
	"iter"
	"strings"
)

const (
	Wildcard     = "*"
	PlaceholderX = "X"
	PlaceholderY = "Y"

	tokenSeparator = " "
)

func IsPlaceholder(token string) bool {
	return token == PlaceholderX || token == PlaceholderY
}

// Generate yields every generalization of line: each token that is not a
// placeholder is independently kept or replaced by the wildcard, so a line
// with m such tokens yields 2^m patterns. Wildcards are chosen before concrete
// tokens, with the leftmost token varying slowest. Every yielded slice is
// freshly allocated.
//
// The choices are enumerated with an odometer instead of a bitmask, so m is
// not bounded by the width of an integer.
func Generate(line []string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		var variable []int
		for i, token := range line {
			if !IsPlaceholder(token) {
				variable = append(variable, i)
			}
		}

		// keep[j] reports whether variable[j] holds its concrete token.
		keep := make([]bool, len(variable))
		for {
			pattern := make([]string, len(line))
			copy(pattern, line)
			for j, pos := range variable {
				if !keep[j] {
					pattern[pos] = Wildcard
				}
			}
			if !yield(pattern) {
				return
			}

			j := len(keep) - 1
			for ; j >= 0 && keep[j]; j-- {
				keep[j] = false
			}
			if j < 0 {
				return
			}
			keep[j] = true
		}
	}
}

// Join renders a pattern as the string used for counting and as vocabulary entry.
func Join(pattern []string) string {
	return strings.Join(pattern, tokenSeparator)
}

// Split is the inverse of Join.
func Split(pattern string) []string {
	if pattern == "" {
		return []string{}
	}
	return strings.Split(pattern, tokenSeparator)
}
