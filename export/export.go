// Package export writes the artifacts of a vectors run and publishes them.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/Franka-Beyer/HSprakt/features"
)

// FormatValue renders a feature value in its shortest exact form.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// WriteTable writes the table tab separated, header first.
func WriteTable(w io.Writer, table *features.Table) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.WriteAll(table.Records(FormatValue)); err != nil {
		return err
	}
	return writer.Error()
}

func WriteTableFile(path string, table *features.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return WriteTable(f, table)
}

func writeJSONFile(path string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// WriteVectors saves the pair to vector mapping as a JSON object.
func WriteVectors(path string, vectors map[string]features.Vector) error {
	return writeJSONFile(path, vectors)
}

// WriteVocabulary saves the chosen patterns as a JSON list, in column order.
func WriteVocabulary(path string, vocab features.Vocabulary) error {
	if vocab == nil {
		vocab = features.Vocabulary{}
	}
	return writeJSONFile(path, vocab)
}

func ReadVocabulary(path string) (features.Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVocabulary(b)
}

func ParseVocabulary(b []byte) (features.Vocabulary, error) {
	var vocab features.Vocabulary
	if err := json.Unmarshal(b, &vocab); err != nil {
		return nil, err
	}
	return vocab, nil
}
