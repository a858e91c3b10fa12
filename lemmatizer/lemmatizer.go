// Package lemmatizer maps surface forms to lemmas with dictionaries built from
// CELEX, and anonymizes the two words of a pair in a match line.
package lemmatizer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Franka-Beyer/HSprakt/patterns"
	"github.com/Franka-Beyer/HSprakt/types"
)

// FormLemma maps a surface form to its lemma.
type FormLemma map[string]string

// Lemma returns the lemma of form. Unknown forms are taken to be lemmas already.
func (dict FormLemma) Lemma(form string) string {
	if lemma, ok := dict[form]; ok {
		return lemma
	}
	return form
}

// Lemmatize returns a new slice with every token replaced by its lemma.
func (dict FormLemma) Lemmatize(tokens []string) []string {
	result := make([]string, len(tokens))
	for i, token := range tokens {
		result[i] = dict.Lemma(token)
	}
	return result
}

// Anonymize replaces, in place, every occurrence of the pair's first lemma by
// the X placeholder and of its second lemma by the Y placeholder.
func Anonymize(tokens []string, pair types.WordPair) []string {
	for i, token := range tokens {
		switch token {
		case pair.First:
			tokens[i] = patterns.PlaceholderX
		case pair.Second:
			tokens[i] = patterns.PlaceholderY
		}
	}
	return tokens
}

// Lemmatizer prepares raw match lines for pattern generation.
type Lemmatizer struct {
	forms FormLemma
}

func New(forms FormLemma) *Lemmatizer {
	if forms == nil {
		forms = FormLemma{}
	}
	return &Lemmatizer{forms: forms}
}

// Prepare lemmatizes a raw match line and anonymizes the pair in it. The
// input is left untouched.
func (lem *Lemmatizer) Prepare(line []string, pair types.WordPair) []string {
	return Anonymize(lem.forms.Lemmatize(line), pair)
}

// PrepareAll applies Prepare to every line of the pair.
func (lem *Lemmatizer) PrepareAll(lines [][]string, pair types.WordPair) [][]string {
	prepared := make([][]string, len(lines))
	for i, line := range lines {
		prepared[i] = lem.Prepare(line, pair)
	}
	return prepared
}

func LoadFormLemma(path string) (FormLemma, error) {
	var dict FormLemma
	if err := readJSON(path, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

func LoadLemmaForms(path string) (LemmaForms, error) {
	var dict LemmaForms
	if err := readJSON(path, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

// LoadCleanCELEX reads entries saved after CleanCELEX.
func LoadCleanCELEX(path string) ([]string, error) {
	var entries []string
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func readJSON(path string, v interface{}) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON saves one of the dictionaries of this package.
func WriteJSON(path string, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
