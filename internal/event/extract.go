// ABOUTME: Transforms raw record-store pages into normalized calendar events.
// ABOUTME: Per-record failures drop the record; one bad row never blanks the calendar.

package event

import (
	"strings"

	"github.com/calwidget/calwidget/internal/notion"
	"github.com/calwidget/calwidget/internal/schema"
)

// sourceURLBase is the public page URL root the widget links back to.
const sourceURLBase = "https://notion.so/"

// Event is one normalized calendar entry. Built fresh per extraction and
// never mutated afterward.
type Event struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Title       string   `json:"title"`
	Schedules   []string `json:"schedules"`
	IsImportant bool     `json:"isImportant"`
	SourceURL   string   `json:"sourceUrl"`
}

// importantOptions are the select option names that mark an event important.
// Compared case-insensitively.
var importantOptions = []string{"important", "중요"}

// Extract converts records into events using the role mapping. It never fails
// as a whole: a record with a missing or malformed date payload is skipped
// and the rest of the batch continues. Events are not deduplicated or merged;
// several may share a date and the presentation layer groups them.
func Extract(records []notion.Record, mapping schema.RoleMapping) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		if ev, ok := extractOne(rec, mapping); ok {
			events = append(events, ev)
		}
	}
	return events
}

func extractOne(rec notion.Record, mapping schema.RoleMapping) (Event, bool) {
	dateVal, ok := rec.Properties[mapping.DateProperty]
	if !ok || dateVal.Date == nil || dateVal.Date.Start == "" {
		return Event{}, false
	}
	// Date payloads may carry a full timestamp; the widget keys on the day.
	date := dateVal.Date.Start
	if len(date) > 10 {
		date = date[:10]
	}

	// An empty title is fine; only the date is load-bearing.
	title := firstText(rec.Properties[mapping.TitleProperty])

	// Schedules keep the mapping's order, dropping empties so the list stays
	// dense relative to the configured roles.
	var schedules []string
	for _, name := range mapping.ScheduleProperties {
		if text := firstText(rec.Properties[name]); text != "" {
			schedules = append(schedules, text)
		}
	}

	return Event{
		ID:          rec.ID,
		Date:        date,
		Title:       title,
		Schedules:   schedules,
		IsImportant: isImportant(rec, mapping.ImportanceProperty),
		SourceURL:   sourceURLBase + strings.ReplaceAll(rec.ID, "-", ""),
	}, true
}

// firstText returns the plain text of the first run of a title or rich_text
// value, or "" for any other shape.
func firstText(v notion.PropertyValue) string {
	if v.Kind != schema.KindTitle && v.Kind != schema.KindRichText {
		return ""
	}
	if len(v.Text) == 0 {
		return ""
	}
	return v.Text[0].PlainText
}

func isImportant(rec notion.Record, property string) bool {
	if property == "" {
		return false
	}
	v, ok := rec.Properties[property]
	if !ok {
		return false
	}
	switch v.Kind {
	case schema.KindSelect:
		if v.Select == nil {
			return false
		}
		for _, opt := range importantOptions {
			if strings.EqualFold(v.Select.Name, opt) {
				return true
			}
		}
		return false
	case schema.KindCheckbox:
		return v.Checkbox
	default:
		return false
	}
}
