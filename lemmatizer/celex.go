package lemmatizer

import (
	"regexp"
	"strings"
)

// celexEscapes transliterates the ASCII escapes of the CELEX word form lists.
var celexEscapes = strings.NewReplacer(
	`"a`, "ä",
	`"A`, "Ä",
	`"u`, "ü",
	`"U`, "Ü",
	`"o`, "ö",
	`"O`, "Ö",
	"$", "ß",
	"#e", "é",
)

var foreignChars = regexp.MustCompile(`[^a-zA-ZäÄöÖüÜßé\\\n]`)

const celexSeparator = `\`

// CleanCELEX transliterates raw CELEX lines of the form `form\lemma` and drops
// every line that is empty or still contains characters outside the German
// alphabet.
func CleanCELEX(lines []string) []string {
	var result []string
	for _, line := range lines {
		line = celexEscapes.Replace(strings.TrimRight(line, "\r\n"))
		if line == "" || foreignChars.MatchString(line) {
			continue
		}
		result = append(result, line)
	}
	return result
}

// LemmaForms maps a lemma to its surface forms.
type LemmaForms map[string][]string

// BuildLemmaForms groups cleaned `form\lemma` entries by lemma. Entries that do
// not have exactly one separator are skipped. The returned order lists every
// lemma once, by first appearance.
func BuildLemmaForms(entries []string) (LemmaForms, []string) {
	dict := make(LemmaForms)
	var order []string
	for _, entry := range entries {
		parts := strings.Split(entry, celexSeparator)
		if len(parts) != 2 {
			continue
		}
		form, lemma := parts[0], parts[1]
		if _, ok := dict[lemma]; !ok {
			order = append(order, lemma)
		}
		dict[lemma] = append(dict[lemma], form)
	}
	return dict, order
}

// FormLemma inverts the dictionary, visiting lemmas in order. A form listed
// under several lemmas maps to the last one visited.
func (dict LemmaForms) FormLemma(order []string) FormLemma {
	result := make(FormLemma)
	for _, lemma := range order {
		for _, form := range dict[lemma] {
			result[form] = lemma
		}
	}
	return result
}

// Forms returns the surface forms of lemma, or the lemma itself if it is unknown.
func (dict LemmaForms) Forms(lemma string) []string {
	if forms, ok := dict[lemma]; ok && len(forms) > 0 {
		return forms
	}
	return []string{lemma}
}

// Expand returns every combination of the surface forms of the two lemmas.
func (dict LemmaForms) Expand(first, second string) [][2]string {
	firstForms := dict.Forms(first)
	secondForms := dict.Forms(second)
	combinations := make([][2]string, 0, len(firstForms)*len(secondForms))
	for _, x := range firstForms {
		for _, y := range secondForms {
			combinations = append(combinations, [2]string{x, y})
		}
	}
	return combinations
}
