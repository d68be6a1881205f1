package stats

import (
	"strings"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
)

// QualityReport summarises how complete and consistent a table is.
type QualityReport struct {
	TotalRows int
	// Completeness is the percentage of non-missing cells per column, in
	// column order.
	Completeness []ColumnCompleteness
	// DuplicateRows counts rows identical to an earlier row.
	DuplicateRows int
	// KindCounts is the number of columns of each kind.
	KindCounts map[dataset.Kind]int
}

// ColumnCompleteness is the share of present values in a column.
type ColumnCompleteness struct {
	Column  string
	Percent float64
}

// DataQuality builds a QualityReport for t.
func DataQuality(t *dataset.Table) *QualityReport {
	q := &QualityReport{
		TotalRows:  t.NumRows(),
		KindCounts: make(map[dataset.Kind]int),
	}
	for _, c := range t.Columns() {
		pct := 100.0
		if t.NumRows() > 0 {
			pct = (1 - float64(c.MissingCount())/float64(t.NumRows())) * 100
		}
		q.Completeness = append(q.Completeness, ColumnCompleteness{Column: c.Name, Percent: pct})
		q.KindCounts[c.Kind]++
	}

	seen := make(map[string]struct{}, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := rowKey(t, i)
		if _, dup := seen[key]; dup {
			q.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}
	return q
}

// rowKey encodes row i so that missing cells differ from empty strings.
func rowKey(t *dataset.Table, i int) string {
	var b strings.Builder
	for _, c := range t.Columns() {
		if c.IsMissing(i) {
			b.WriteString("\x00")
		} else {
			b.WriteString("\x01")
			b.WriteString(c.Text(i))
		}
		b.WriteString("\x1f")
	}
	return b.String()
}
