// ABOUTME: Validation of a saved role mapping against a live schema.
// ABOUTME: Required roles fail hard; stale optional roles only warn.

package schema

import "fmt"

// Report collects non-fatal findings from a validation pass.
type Report struct {
	Warnings []string
}

// Validate checks that mapping's required roles still exist in the catalog.
//
// A missing date or title property is a *ValidationError. Missing schedule or
// importance properties are recorded as warnings and do not fail validation:
// a schema that evolved under a saved widget should degrade, not brick it.
func Validate(mapping RoleMapping, catalog Catalog) (Report, error) {
	var report Report

	if _, ok := catalog.Find(mapping.DateProperty); !ok {
		return report, &ValidationError{Role: "date", Property: mapping.DateProperty}
	}
	if _, ok := catalog.Find(mapping.TitleProperty); !ok {
		return report, &ValidationError{Role: "title", Property: mapping.TitleProperty}
	}

	for _, name := range mapping.ScheduleProperties {
		if _, ok := catalog.Find(name); !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("schedule property %q not found in database schema", name))
		}
	}
	if mapping.ImportanceProperty != "" {
		if _, ok := catalog.Find(mapping.ImportanceProperty); !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("importance property %q not found in database schema", mapping.ImportanceProperty))
		}
	}
	return report, nil
}
