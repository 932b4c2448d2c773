// ABOUTME: Tests for the date-range filter builder.
// ABOUTME: Covers inclusive bounds, calendar validation, and the wire shape.

package query

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuild_InclusiveBounds(t *testing.T) {
	f, err := Build("Date", "2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(f.And) != 2 {
		t.Fatalf("len(And) = %d, want 2", len(f.And))
	}
	if f.And[0].Property != "Date" || f.And[0].Date.OnOrAfter != "2024-02-01" {
		t.Errorf("lower bound = %+v, want on_or_after 2024-02-01", f.And[0])
	}
	if f.And[1].Property != "Date" || f.And[1].Date.OnOrBefore != "2024-02-29" {
		t.Errorf("upper bound = %+v, want on_or_before 2024-02-29", f.And[1])
	}
}

func TestBuild_RejectsNonLeapFeb29(t *testing.T) {
	_, err := Build("Date", "2023-02-01", "2023-02-29")
	var dateErr *InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("Build() error = %v, want *InvalidDateError", err)
	}
	if dateErr.Value != "2023-02-29" {
		t.Errorf("Value = %q, want %q", dateErr.Value, "2023-02-29")
	}
}

func TestBuild_RejectsBadFormats(t *testing.T) {
	bad := []string{"2024-2-01", "2024/02/01", "02-01-2024", "2024-02-30", "today", ""}
	for _, b := range bad {
		if _, err := Build("Date", b, "2024-03-01"); err == nil {
			t.Errorf("Build(start=%q) error = nil, want invalid date", b)
		}
		if _, err := Build("Date", "2024-03-01", b); err == nil {
			t.Errorf("Build(end=%q) error = nil, want invalid date", b)
		}
	}
}

func TestFilter_WireShape(t *testing.T) {
	f, err := Build("일자", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"and":[{"property":"일자","date":{"on_or_after":"2024-01-01"}},{"property":"일자","date":{"on_or_before":"2024-01-31"}}]}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
