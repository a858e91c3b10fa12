package features

import (
	"errors"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/types"
)

const (
	HeaderPair  = "WordPair"
	HeaderLabel = "Label"

	leadingColumns = 2
)

var ErrEmptyTable = errors.New("table has no rows")

type Row struct {
	Pair   string
	Label  types.Relation
	Values Vector
}

// Table is the labeled export: a header of the two leading columns followed by
// the vocabulary, and one row per pair.
type Table struct {
	Header []string
	Rows   []Row
}

// Width is the number of feature columns.
func (table *Table) Width() int {
	return len(table.Header) - leadingColumns
}

// NewTable builds one row per pair key, in the given order.
func NewTable(vocab Vocabulary, pairs []string, labels map[string]types.Relation, vectors map[string]Vector) (*Table, error) {
	header := make([]string, 0, len(vocab)+leadingColumns)
	header = append(header, HeaderPair, HeaderLabel)
	header = append(header, vocab...)

	table := Table{Header: header, Rows: make([]Row, 0, len(pairs))}
	for _, pairKey := range pairs {
		label, ok := labels[pairKey]
		if !ok {
			return nil, fmt.Errorf("pair %s has no label", pairKey)
		}
		vector, ok := vectors[pairKey]
		if !ok {
			return nil, fmt.Errorf("pair %s has no vector", pairKey)
		}
		if len(vector) != len(vocab) {
			return nil, fmt.Errorf("%w: %s has %d coordinates, vocabulary has %d",
				ErrDimensionMismatch, pairKey, len(vector), len(vocab))
		}
		table.Rows = append(table.Rows, Row{Pair: pairKey, Label: label, Values: vector})
	}
	return &table, nil
}

// Records renders the header and the rows as string records.
func (table *Table) Records(formatValue func(float64) string) [][]string {
	records := make([][]string, 0, len(table.Rows)+1)
	records = append(records, table.Header)
	for _, row := range table.Rows {
		record := make([]string, 0, len(row.Values)+leadingColumns)
		record = append(record, row.Pair, string(row.Label))
		for _, value := range row.Values {
			record = append(record, formatValue(value))
		}
		records = append(records, record)
	}
	return records
}

// LabelCounts returns the number of rows per label.
func (table *Table) LabelCounts() map[types.Relation]int {
	counts := make(map[types.Relation]int)
	for _, row := range table.Rows {
		counts[row.Label]++
	}
	return counts
}
