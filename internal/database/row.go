package database

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Row is one result row with its column names in result order.
type Row struct {
	Columns []string
	Values  []any
}

// Record maps column names to values for insert, update and condition arguments.
type Record map[string]any

// ColumnDef declares one column of a table to create.
type ColumnDef struct {
	Name string
	Type string
}

// ColumnInfo describes one column as reported by the catalog.
type ColumnInfo struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
	MaxLength  *int64 `json:"character_maximum_length"`
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// String returns the named column converted to a string; NULL and missing columns yield "".
func (r Row) String(column string) string {
	v, _ := r.Get(column)
	return cast.ToString(v)
}

// Int64 converts the named column to an int64. Numeric strings are accepted;
// a missing column or NULL converts to 0.
func (r Row) Int64(column string) (int64, error) {
	v, _ := r.Get(column)
	return cast.ToInt64E(v)
}

// Bool converts the named column to a bool, accepting 0/1 and "true"/"false" forms.
func (r Row) Bool(column string) (bool, error) {
	v, _ := r.Get(column)
	return cast.ToBoolE(v)
}

// Map returns the row as a column to value map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the row as a JSON object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// newRow takes ownership of values and copies columns, so rows of one result
// never share backing arrays.
func newRow(columns []string, values []any) Row {
	for i, v := range values {
		if b, ok := v.([]byte); ok && utf8.Valid(b) {
			values[i] = string(b)
		}
	}
	return Row{Columns: append([]string(nil), columns...), Values: values}
}

// columnsAndValues returns the sorted keys of the record and the values in
// the same order.
func (r Record) columnsAndValues() ([]string, []any) {
	columns := make([]string, 0, len(r))
	for k := range r {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	values := make([]any, len(columns))
	for i, k := range columns {
		values[i] = r[k]
	}
	return columns, values
}
