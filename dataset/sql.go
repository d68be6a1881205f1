package dataset

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// FromSQL drains rows into a table. Column kinds are inferred as in ReadCSV:
// NULL is missing, and a column is numeric when every non-NULL value is a
// number or a string that parses as one. The caller closes rows.
func FromSQL(rows *sql.Rows) (*Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "read result columns")
	}

	builders := make([]*columnBuilder, len(names))
	for i, n := range names {
		builders[i] = &columnBuilder{name: n}
	}

	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		for i, v := range values {
			s, isNull := sqlText(v)
			builders[i].add(s, isNull)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}

	cols := make([]*Column, len(builders))
	for i, b := range builders {
		cols[i] = b.build()
	}
	return NewTable(cols...)
}

// QuerySQL runs query on db and returns the result as a table.
func QuerySQL(db *sql.DB, query string, args ...any) (*Table, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()
	return FromSQL(rows)
}

func sqlText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case int64:
		return strconv.FormatInt(x, 10), false
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), false
	case bool:
		return strconv.FormatBool(x), false
	case []byte:
		return string(x), false
	case string:
		return x, false
	case time.Time:
		return x.Format(time.RFC3339), false
	default:
		return "", true
	}
}
