package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	name   string
	fields map[string]string
	err    error
	panic  bool
}

func (f fakeBackend) Name() string { return f.name }

func (f fakeBackend) ExtractFields(string) (map[string]string, error) {
	if f.panic {
		panic("corrupt object stream")
	}
	return f.fields, f.err
}

func TestNewFormExtractor_DefaultBackends(t *testing.T) {
	extractor := NewFormExtractor(nil)
	assert.Equal(t, []string{"widgets", "acroform"}, extractor.Backends())
}

func TestFormExtractor_ExtractFields(t *testing.T) {
	tests := []struct {
		name     string
		backends []FieldBackend
		expected map[string]string
	}{
		{
			name: "last backend wins on collision",
			backends: []FieldBackend{
				fakeBackend{name: "a", fields: map[string]string{"Room": "101", "Department": "Physics"}},
				fakeBackend{name: "b", fields: map[string]string{"Room": "202"}},
			},
			expected: map[string]string{"Room": "202", "Department": "Physics"},
		},
		{
			name: "failing backend contributes nothing",
			backends: []FieldBackend{
				fakeBackend{name: "a", fields: map[string]string{"Room": "101"}},
				fakeBackend{name: "b", fields: map[string]string{"Room": "999"}, err: errors.New("broken xref")},
			},
			expected: map[string]string{"Room": "101"},
		},
		{
			name: "panicking backend contributes nothing",
			backends: []FieldBackend{
				fakeBackend{name: "a", panic: true},
				fakeBackend{name: "b", fields: map[string]string{"Student ID": "42"}},
			},
			expected: map[string]string{"Student ID": "42"},
		},
		{
			name: "empty names and values are dropped",
			backends: []FieldBackend{
				fakeBackend{name: "a", fields: map[string]string{"": "orphan", "Room": "", "TH05": "yes"}},
			},
			expected: map[string]string{"TH05": "yes"},
		},
		{
			name: "all backends fail",
			backends: []FieldBackend{
				fakeBackend{name: "a", err: errors.New("a")},
				fakeBackend{name: "b", panic: true},
			},
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewFormExtractor(zap.NewNop(), tt.backends...)
			assert.Equal(t, tt.expected, extractor.ExtractFields("ignored.pdf"))
		})
	}
}

func TestFormExtractor_ExtractByBackend(t *testing.T) {
	extractor := NewFormExtractor(zap.NewNop(),
		fakeBackend{name: "healthy", fields: map[string]string{"Room": "101"}},
		fakeBackend{name: "broken", err: errors.New("broken xref")},
		fakeBackend{name: "panicky", panic: true},
	)

	results := extractor.ExtractByBackend("ignored.pdf")
	require.Len(t, results, 3)

	assert.Equal(t, "healthy", results[0].Backend)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, map[string]string{"Room": "101"}, results[0].Fields)

	assert.Equal(t, "broken", results[1].Backend)
	assert.Equal(t, "broken xref", results[1].Error)
	assert.Empty(t, results[1].Fields)

	assert.Equal(t, "panicky", results[2].Backend)
	assert.Contains(t, results[2].Error, "panicked")
	assert.Empty(t, results[2].Fields)
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "Room", qualify("", "Room"))
	assert.Equal(t, "committee.decision", qualify("committee", "decision"))
}
