// Package record maps raw key/value data pulled out of committee report
// PDFs onto the fixed spreadsheet schema and validates the result.
package record

import (
	"strings"
)

// Column names of the output workbook, in column order.
const (
	ColumnStudentName  = "Student Name"
	ColumnThesisTitle  = "Thesis Title"
	ColumnStudentID    = "Student ID"
	ColumnDepartment   = "Department"
	ColumnTH05         = "TH05"
	ColumnDefenceDate  = "Thesis Defence Date"
	ColumnOralDefence  = "Oral Defence"
	ColumnRoom         = "Room"
	ColumnCodedOnSIS   = "Coded on SIS"
	ColumnEmbargoDate  = "Embargo Date"
	ColumnDecision     = "Examining Committee decision"
	ColumnThesisRating = "Thesis Ranking"
)

// Schema bundles the static tables the pipeline runs against. A Schema is
// built once at startup and shared by pointer; its tables are never
// modified after construction.
type Schema struct {
	columns      []string
	index        map[string]int
	fieldMapping map[string]string
	decisions    map[string]string
	rankings     map[string]string
	required     []string
}

// DefaultSchema returns the committee report schema.
func DefaultSchema() *Schema {
	columns := []string{
		ColumnStudentName, ColumnThesisTitle, ColumnStudentID, ColumnDepartment,
		ColumnTH05, ColumnDefenceDate, ColumnOralDefence, ColumnRoom,
		ColumnCodedOnSIS, ColumnEmbargoDate, ColumnDecision, ColumnThesisRating,
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	return &Schema{
		columns: columns,
		index:   index,
		fieldMapping: map[string]string{
			"student name":   ColumnStudentName,
			"thesis title":   ColumnThesisTitle,
			"student id":     ColumnStudentID,
			"department":     ColumnDepartment,
			"defence date":   ColumnDefenceDate,
			"oral defence":   ColumnOralDefence,
			"room":           ColumnRoom,
			"coded on sis":   ColumnCodedOnSIS,
			"embargo date":   ColumnEmbargoDate,
			"decision":       ColumnDecision,
			"thesis ranking": ColumnThesisRating,
		},
		decisions: map[string]string{
			"/choice5": "ACCEPTED",
		},
		rankings: map[string]string{
			"/choice7":  "Outstanding",
			"/choice8":  "Excellent",
			"/choice9":  "Very Good",
			"/choice10": "Satisfactory",
			"/choice11": "Non satisfactory",
		},
		required: []string{ColumnStudentName, ColumnStudentID},
	}
}

// Columns returns the column names in output order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// HasColumn reports whether name is one of the schema columns.
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Required returns the columns that must be non-empty for a record to be accepted.
func (s *Schema) Required() []string {
	out := make([]string, len(s.required))
	copy(out, s.required)
	return out
}

// ColumnFor resolves a raw field name to its column. Matching is
// case-insensitive and ignores surrounding whitespace.
func (s *Schema) ColumnFor(rawKey string) (string, bool) {
	col, ok := s.fieldMapping[strings.ToLower(strings.TrimSpace(rawKey))]
	return col, ok
}

// DecisionLabel translates a committee decision code. Unknown codes are
// returned unchanged.
func (s *Schema) DecisionLabel(value string) string {
	if label, ok := s.decisions[strings.ToLower(value)]; ok {
		return label
	}
	return value
}

// RankingLabel translates a thesis ranking code. Unknown codes yield "".
func (s *Schema) RankingLabel(value string) string {
	return s.rankings[strings.ToLower(value)]
}

// FieldMapping returns a copy of the raw name to column table.
func (s *Schema) FieldMapping() map[string]string {
	return copyTable(s.fieldMapping)
}

// DecisionCodes returns a copy of the decision code table.
func (s *Schema) DecisionCodes() map[string]string {
	return copyTable(s.decisions)
}

// RankingCodes returns a copy of the ranking code table.
func (s *Schema) RankingCodes() map[string]string {
	return copyTable(s.rankings)
}

func copyTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// IsDateColumn reports whether values for column go through date normalization.
func IsDateColumn(column string) bool {
	return strings.Contains(strings.ToLower(column), "date")
}
