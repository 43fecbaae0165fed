package record

import (
	"go.uber.org/zap"
)

// Normalizer maps raw extracted fields onto schema records.
type Normalizer struct {
	schema *Schema
	logger *zap.Logger
}

// NewNormalizer creates a normalizer for schema. A nil logger disables logging.
func NewNormalizer(schema *Schema, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		schema: schema,
		logger: logger,
	}
}

// Normalize builds a record from the text-derived and form-derived field
// maps. Text fields are applied first and form fields second, so a form
// value wins over a text value for the same column. Unmapped keys are
// ignored and malformed values never cause an error.
func (n *Normalizer) Normalize(textFields, formFields map[string]string) Record {
	rec := New(n.schema)

	n.apply(rec, textFields, "text")
	n.apply(rec, formFields, "form")

	rec.Set(ColumnDecision, n.schema.DecisionLabel(rec.Get(ColumnDecision)))

	rawRank := rec.Get(ColumnThesisRating)
	rec.Set(ColumnThesisRating, n.schema.RankingLabel(rawRank))
	if rawRank != "" && rec.Get(ColumnThesisRating) == "" {
		n.logger.Debug("unrecognized thesis ranking code cleared", zap.String("value", rawRank))
	}

	return rec
}

func (n *Normalizer) apply(rec Record, fields map[string]string, source string) {
	for rawKey, rawValue := range fields {
		column, ok := n.schema.ColumnFor(rawKey)
		if !ok {
			continue
		}

		value := rawValue
		if IsDateColumn(column) {
			if normalized, ok := parseDate(rawValue); ok {
				value = normalized
			} else {
				n.logger.Debug("date left unnormalized",
					zap.String("column", column),
					zap.String("value", rawValue),
					zap.String("source", source))
			}
		}

		rec.Set(column, value)
	}
}
