// ABOUTME: Date-range query filter builder for the record-store query API.
// ABOUTME: Produces the inclusive on_or_after/on_or_before compound filter.

package query

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only accepted calendar-day format.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Filter is the compound filter the record-store query endpoint expects.
type Filter struct {
	And []Condition `json:"and"`
}

// Condition constrains one property by date.
type Condition struct {
	Property string        `json:"property"`
	Date     DateCondition `json:"date"`
}

// DateCondition is one side of an inclusive date bound.
type DateCondition struct {
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

// InvalidDateError reports a range bound that is not a real calendar day in
// YYYY-MM-DD form.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, want YYYY-MM-DD", e.Value)
}

// Build produces the filter for records whose dateProperty falls within
// [start, end]. Both bounds are inclusive: a record dated exactly on start or
// end is matched, which is what makes month-edge fetches correct. Each bound
// must be a real calendar date (2023-02-29 is rejected, 2024-02-29 accepted).
func Build(dateProperty, start, end string) (Filter, error) {
	for _, bound := range []string{start, end} {
		if err := validateDate(bound); err != nil {
			return Filter{}, err
		}
	}
	return Filter{
		And: []Condition{
			{Property: dateProperty, Date: DateCondition{OnOrAfter: start}},
			{Property: dateProperty, Date: DateCondition{OnOrBefore: end}},
		},
	}, nil
}

func validateDate(s string) error {
	if !datePattern.MatchString(s) {
		return &InvalidDateError{Value: s}
	}
	// time.Parse rejects impossible days like Feb 30 and non-leap Feb 29.
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &InvalidDateError{Value: s}
	}
	return nil
}
