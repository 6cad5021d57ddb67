package ruleset

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when inputs fall outside a revision's bounds.
type ValidationError struct {
	Revision Revision
	Fields   []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return fmt.Sprintf("invalid inputs for rule set %s: %s", e.Revision, strings.Join(parts, "; "))
}
