package relations

import (
	"regexp"
	"strings"
)

// thesaurusPreamble is the number of license lines heading the OpenThesaurus
// text export.
const thesaurusPreamble = 18

var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// ReadThesaurus turns OpenThesaurus synonym sets into rows of their first n
// entries. Truncated entries ("...") and annotations in parentheses are
// removed. Sets with fewer than two entries do not form a pair and are dropped.
func ReadThesaurus(lines []string, n int) [][]string {
	if len(lines) <= thesaurusPreamble {
		return nil
	}
	var rows [][]string
	for _, line := range lines[thesaurusPreamble:] {
		line = parenthesized.ReplaceAllString(line, "")
		if strings.Contains(line, "...") {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		var row []string
		for _, synonym := range strings.Split(line, ";") {
			row = append(row, strings.TrimSpace(synonym))
		}
		if len(row) > n {
			row = row[:n]
		}
		if len(row) < 2 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
