// Package relations builds the labeled word pair lists: antonyms from
// GermaNet, synonyms from OpenThesaurus, and random unrelated pairs.
package relations

import (
	"encoding/csv"
	"errors"
	"os"

	"github.com/Franka-Beyer/HSprakt/types"
)

// ReadRows reads a comma separated file with a varying number of fields.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func WriteRows(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// ReadPairs reads the first two fields of every row as a word pair. Rows with
// fewer fields are skipped and repeated pairs are dropped.
func ReadPairs(path string, relation types.Relation) ([]types.WordPair, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	pairs := make([]types.WordPair, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			continue
		}
		pairs = append(pairs, types.NewWordPair(row[0], row[1], relation))
	}
	return types.Unique(pairs), nil
}

// ReadKnownPairs concatenates the first two fields of every row of files,
// keeping repetitions.
func ReadKnownPairs(files ...string) ([][2]string, error) {
	var pairs [][2]string
	for _, file := range files {
		rows, err := ReadRows(file)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			pairs = append(pairs, [2]string{row[0], row[1]})
		}
	}
	return pairs, nil
}

func WritePairs(path string, pairs [][2]string) error {
	rows := make([][]string, len(pairs))
	for i, pair := range pairs {
		rows[i] = []string{pair[0], pair[1]}
	}
	return WriteRows(path, rows)
}

// Chunk returns pairs[begin:end], clamped to the bounds of the slice.
func Chunk[T any](pairs []T, begin, end int) []T {
	begin = max(0, min(begin, len(pairs)))
	end = max(begin, min(end, len(pairs)))
	return pairs[begin:end]
}
