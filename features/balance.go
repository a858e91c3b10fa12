package features

import (
	"fmt"

	"github.com/Franka-Beyer/HSprakt/types"
)

// BalanceScale is the fixed factor of the column cap 20*h*labels+2 applied by
// Balance. It is a heuristic kept for compatibility with published results and
// does not follow the vocabulary factor k.
const BalanceScale = 20

// ColumnCap returns the number of table columns, the two leading ones
// included, kept for h rows per label and the given number of labels.
func ColumnCap(h, labels int) int {
	return BalanceScale*h*labels + leadingColumns
}

// Balance keeps the first h rows of every label, h being the size of the
// smallest label, and truncates the table to ColumnCap(h, labels) columns.
// The values of every kept row are the pair's raw (log-scaled, unnormalized)
// vector, truncated first and normalized afterwards. When the vocabulary is
// narrower than the cap all of its columns are kept.
func Balance(table *Table, raw map[string]Vector) (*Table, error) {
	if len(table.Rows) == 0 {
		return nil, ErrEmptyTable
	}

	var labels []types.Relation
	partitions := make(map[types.Relation][]Row)
	for _, row := range table.Rows {
		if _, ok := partitions[row.Label]; !ok {
			labels = append(labels, row.Label)
		}
		partitions[row.Label] = append(partitions[row.Label], row)
	}

	h := len(table.Rows)
	for _, label := range labels {
		if size := len(partitions[label]); size < h {
			h = size
		}
	}

	columns := min(ColumnCap(h, len(labels)), len(table.Header))
	width := columns - leadingColumns

	balanced := Table{
		Header: append([]string(nil), table.Header[:columns]...),
		Rows:   make([]Row, 0, h*len(labels)),
	}
	for _, label := range labels {
		for _, row := range partitions[label][:h] {
			vector, ok := raw[row.Pair]
			if !ok {
				return nil, fmt.Errorf("pair %s has no raw vector", row.Pair)
			}
			if len(vector) != table.Width() {
				return nil, fmt.Errorf("%w: %s has %d coordinates, table has %d",
					ErrDimensionMismatch, row.Pair, len(vector), table.Width())
			}
			balanced.Rows = append(balanced.Rows, Row{
				Pair:   row.Pair,
				Label:  row.Label,
				Values: Normalize(vector[:width]),
			})
		}
	}
	return &balanced, nil
}
