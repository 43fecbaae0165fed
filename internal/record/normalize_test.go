package record

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-20", "2025-03-20"},
		{"March 20, 2025", "2025-03-20"},
		{"03/20/2025", "2025-03-20"},
		{"2025-03-20T10:30:00Z", "2025-03-20"},
		{"04/02/2025", "2025-04-02"},
		{"20/03/2025", "2025-03-20"},
		{"20.03.2025", "2025-03-20"},
		{"03.20.2025", "2025-03-20"},
		{"Thursday, March 20, 2025", "2025-03-20"},
		{"  March 20, 2025 ", "2025-03-20"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	for _, in := range []string{"2024-01-31", "1999-12-01", "2025-03-20"} {
		once := NormalizeDate(in)
		assert.Equal(t, in, once)
		assert.Equal(t, once, NormalizeDate(once))
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(DefaultSchema(), zap.NewNop())

	tests := []struct {
		name  string
		text  map[string]string
		form  map[string]string
		check func(t *testing.T, rec Record)
	}{
		{
			name: "text fields map case-insensitively",
			text: map[string]string{
				"Student Name": "Jane Doe",
				"STUDENT ID":   "40012345",
				"Room":         "309",
				"Supervisor":   "ignored",
			},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, "Jane Doe", rec.Get(ColumnStudentName))
				assert.Equal(t, "40012345", rec.Get(ColumnStudentID))
				assert.Equal(t, "309", rec.Get(ColumnRoom))
			},
		},
		{
			name: "form value wins over text value",
			text: map[string]string{"Room": "101"},
			form: map[string]string{"room": "309"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, "309", rec.Get(ColumnRoom))
			},
		},
		{
			name: "date columns normalized",
			text: map[string]string{"Defence Date": "March 20, 2025"},
			form: map[string]string{"embargo date": "tbd"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, "2025-03-20", rec.Get(ColumnDefenceDate))
				assert.Equal(t, "tbd", rec.Get(ColumnEmbargoDate))
			},
		},
		{
			name: "recognized codes translated",
			form: map[string]string{"decision": "/choice5", "thesis ranking": "/choice8"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, "ACCEPTED", rec.Get(ColumnDecision))
				assert.Equal(t, "Excellent", rec.Get(ColumnThesisRating))
			},
		},
		{
			name: "unknown decision kept unknown ranking cleared",
			form: map[string]string{"decision": "/choice99", "thesis ranking": "/choiceX"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, "/choice99", rec.Get(ColumnDecision))
				assert.Equal(t, "", rec.Get(ColumnThesisRating))
			},
		},
		{
			name: "nothing mapped leaves blank record",
			text: map[string]string{"Page": "1 of 2"},
			check: func(t *testing.T, rec Record) {
				for _, v := range rec.Values() {
					assert.Empty(t, v)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := n.Normalize(tt.text, tt.form)
			assert.Len(t, rec.Map(), len(DefaultSchema().Columns()))
			tt.check(t, rec)
		})
	}
}

func TestNormalizer_OnlySchemaColumns(t *testing.T) {
	schema := DefaultSchema()
	n := NewNormalizer(schema, nil)

	inputs := []map[string]string{
		nil,
		{},
		{"x": "y", "Student Name": "A", "extra": "z"},
	}
	for i := 0; i < 20; i++ {
		inputs = append(inputs, map[string]string{
			fmt.Sprintf("key %d", i): "v",
			"department":             fmt.Sprintf("dept %d", i),
		})
	}

	for _, in := range inputs {
		rec := n.Normalize(in, in)
		got := rec.Map()
		assert.Len(t, got, 12)
		for k := range got {
			assert.True(t, schema.HasColumn(k), "unexpected column %q", k)
		}
	}
}

func TestValidator_Validate(t *testing.T) {
	schema := DefaultSchema()
	v := NewValidator(schema)

	rec := New(schema)
	rec.Set(ColumnStudentName, "Jane Doe")
	errs := v.Validate(rec)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "Missing required fields: Student ID", errs[0])
		assert.NotContains(t, errs[0], "Student Name")
	}

	errs = v.Validate(New(schema))
	assert.Equal(t, []string{"Missing required fields: Student Name, Student ID"}, errs)

	rec.Set(ColumnStudentID, "40012345")
	assert.Nil(t, v.Validate(rec))
}
