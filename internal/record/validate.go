package record

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks records against the schema's required columns.
type Validator struct {
	schema   *Schema
	validate *validator.Validate
}

// NewValidator creates a record validator for schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{
		schema:   schema,
		validate: validator.New(),
	}
}

// Validate returns nil when every required column is filled. Otherwise it
// returns a single message naming all missing columns in column order.
func (v *Validator) Validate(rec Record) []string {
	var missing []string
	for _, column := range v.schema.Required() {
		if err := v.validate.Var(rec.Get(column), "required"); err != nil {
			missing = append(missing, column)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))}
}
