// ABOUTME: Typed errors for schema inference and validation.
// ABOUTME: Carries machine-readable codes so handlers can name the missing role.

package schema

import "fmt"

// Inference error codes. These are the only two fatal inference outcomes;
// every other role degrades to a fallback or stays empty.
const (
	CodeMissingDate  = "missing_date_property"
	CodeMissingTitle = "missing_title_property"
)

// InferenceError reports that a required role could not be resolved from the
// catalog.
type InferenceError struct {
	Code string
	Role string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("no %s property found in database schema", e.Role)
}

// ValidationError reports that a saved mapping names a required property the
// live schema no longer has.
type ValidationError struct {
	Role     string // "date" or "title"
	Property string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s property %q not found in database schema", e.Role, e.Property)
}
