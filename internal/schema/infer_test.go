// ABOUTME: Tests for role inference over property catalogs.
// ABOUTME: Covers first-match-wins scans, keyword heuristics, and fatal paths.

package schema

import (
	"errors"
	"reflect"
	"testing"
)

func newTestInferencer() *Inferencer {
	return NewInferencer(DefaultKeywords())
}

func TestInfer_FirstMatchWins(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "When", Kind: KindDate},
		{Name: "Deadline", Kind: KindDate},
		{Name: "Alias", Kind: KindTitle},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if m.DateProperty != "When" {
		t.Errorf("DateProperty = %q, want %q", m.DateProperty, "When")
	}
	if m.TitleProperty != "Name" {
		t.Errorf("TitleProperty = %q, want %q", m.TitleProperty, "Name")
	}
}

func TestInfer_MissingDate(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Notes", Kind: KindRichText},
	}

	_, err := newTestInferencer().Infer(catalog)
	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("Infer() error = %v, want *InferenceError", err)
	}
	if infErr.Code != CodeMissingDate {
		t.Errorf("Code = %q, want %q", infErr.Code, CodeMissingDate)
	}
}

func TestInfer_MissingTitle(t *testing.T) {
	catalog := Catalog{
		{Name: "When", Kind: KindDate},
	}

	_, err := newTestInferencer().Infer(catalog)
	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("Infer() error = %v, want *InferenceError", err)
	}
	if infErr.Code != CodeMissingTitle {
		t.Errorf("Code = %q, want %q", infErr.Code, CodeMissingTitle)
	}
}

func TestInfer_ScheduleKeywordMatch(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "Notes", Kind: KindRichText},
		{Name: "일정1", Kind: KindRichText},
		{Name: "Morning Schedule", Kind: KindRichText},
		{Name: "일정 (evening)", Kind: KindRichText},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	want := []string{"일정1", "Morning Schedule", "일정 (evening)"}
	if !reflect.DeepEqual(m.ScheduleProperties, want) {
		t.Errorf("ScheduleProperties = %v, want %v", m.ScheduleProperties, want)
	}
}

func TestInfer_ScheduleFallbackWithoutKeywords(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "Alpha", Kind: KindRichText},
		{Name: "Beta", Kind: KindRichText},
		{Name: "Gamma", Kind: KindRichText},
		{Name: "Delta", Kind: KindRichText},
		{Name: "Epsilon", Kind: KindRichText},
		{Name: "Zeta", Kind: KindRichText},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	// No schedule keyword anywhere: the first five RichText properties are
	// taken in catalog order.
	want := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	if !reflect.DeepEqual(m.ScheduleProperties, want) {
		t.Errorf("ScheduleProperties = %v, want %v", m.ScheduleProperties, want)
	}
}

func TestInfer_ScheduleNoFallbackOnPartialMatch(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "Schedule", Kind: KindRichText},
		{Name: "Unrelated", Kind: KindRichText},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	// One keyword match is enough; the fallback never tops the list up.
	want := []string{"Schedule"}
	if !reflect.DeepEqual(m.ScheduleProperties, want) {
		t.Errorf("ScheduleProperties = %v, want %v", m.ScheduleProperties, want)
	}
}

func TestInfer_ScheduleCap(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
	}
	for _, n := range []string{"일정1", "일정2", "일정3", "일정4", "일정5", "일정6", "일정7"} {
		catalog = append(catalog, PropertyDescriptor{Name: n, Kind: KindRichText})
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if len(m.ScheduleProperties) != MaxScheduleProperties {
		t.Errorf("len(ScheduleProperties) = %d, want %d", len(m.ScheduleProperties), MaxScheduleProperties)
	}
}

func TestInfer_ImportanceExactBeatsContains(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "중요도 레벨", Kind: KindSelect},
		{Name: "Important", Kind: KindSelect},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if m.ImportanceProperty != "Important" {
		t.Errorf("ImportanceProperty = %q, want %q", m.ImportanceProperty, "Important")
	}
}

func TestInfer_ImportanceContainsMatch(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "Status", Kind: KindSelect},
		{Name: "중요도", Kind: KindSelect},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if m.ImportanceProperty != "중요도" {
		t.Errorf("ImportanceProperty = %q, want %q", m.ImportanceProperty, "중요도")
	}
}

func TestInfer_ImportanceFallbackFirstSelect(t *testing.T) {
	// Intended heuristic, not a bug: absent any keyword match the first
	// Select wins even when it is clearly unrelated to importance.
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "Venue", Kind: KindSelect},
		{Name: "Category", Kind: KindSelect},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if m.ImportanceProperty != "Venue" {
		t.Errorf("ImportanceProperty = %q, want %q", m.ImportanceProperty, "Venue")
	}
}

func TestInfer_ImportanceOptional(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
	}

	m, err := newTestInferencer().Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if m.ImportanceProperty != "" {
		t.Errorf("ImportanceProperty = %q, want empty", m.ImportanceProperty)
	}
	if len(m.ScheduleProperties) != 0 {
		t.Errorf("ScheduleProperties = %v, want empty", m.ScheduleProperties)
	}
}

func TestInfer_Deterministic(t *testing.T) {
	catalog := Catalog{
		{Name: "Name", Kind: KindTitle},
		{Name: "Date", Kind: KindDate},
		{Name: "일정1", Kind: KindRichText},
		{Name: "중요", Kind: KindSelect},
		{Name: "Done", Kind: KindCheckbox},
	}

	inf := newTestInferencer()
	first, err := inf.Infer(catalog)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := inf.Infer(catalog)
		if err != nil {
			t.Fatalf("Infer() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Infer() not deterministic: %+v vs %+v", first, again)
		}
	}
}
