package record

import (
	"bytes"
	"encoding/json"
)

// Record is one normalized row. Every schema column is always present;
// columns outside the schema cannot be set.
type Record struct {
	schema *Schema
	values []string
}

// New returns a record with every column empty.
func New(schema *Schema) Record {
	return Record{
		schema: schema,
		values: make([]string, len(schema.columns)),
	}
}

// Schema returns the schema the record was built for.
func (r Record) Schema() *Schema {
	return r.schema
}

// Get returns the value of column, or "" for unknown columns.
func (r Record) Get(column string) string {
	if i, ok := r.schema.index[column]; ok {
		return r.values[i]
	}
	return ""
}

// Set assigns the value of column. It reports false and leaves the record
// untouched when column is not part of the schema.
func (r Record) Set(column, value string) bool {
	i, ok := r.schema.index[column]
	if !ok {
		return false
	}
	r.values[i] = value
	return true
}

// Values returns the cell values in column order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the record as a column name to value map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for i, c := range r.schema.columns {
		out[c] = r.values[i]
	}
	return out
}

// MarshalJSON writes the record as an object whose keys follow column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.schema.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
