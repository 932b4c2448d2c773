// ABOUTME: Wire models for record-store pages, property values, and databases.
// ABOUTME: Property values form a tagged union keyed by property kind.

package notion

import (
	"encoding/json"

	"github.com/calwidget/calwidget/internal/schema"
)

// TextRun is one run of formatted text in a title or rich_text value.
type TextRun struct {
	PlainText string `json:"plain_text"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start string `json:"start"`
}

// SelectValue is the payload of a select property.
type SelectValue struct {
	Name string `json:"name"`
}

// PropertyValue is a tagged union over the property kinds the widget reads.
// Exactly the field matching Kind is meaningful; the rest stay zero.
type PropertyValue struct {
	Kind     schema.PropertyKind
	Date     *DateValue
	Text     []TextRun // title and rich_text runs
	Select   *SelectValue
	Checkbox bool
}

// UnmarshalJSON decodes the record store's { "type": ..., <type>: ... } shape.
// Kinds the widget does not consume decode as KindOther with no payload.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string          `json:"type"`
		Date     *DateValue      `json:"date"`
		Title    []TextRun       `json:"title"`
		RichText []TextRun       `json:"rich_text"`
		Select   *SelectValue    `json:"select"`
		Checkbox json.RawMessage `json:"checkbox"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case "date":
		v.Kind = schema.KindDate
		v.Date = raw.Date
	case "title":
		v.Kind = schema.KindTitle
		v.Text = raw.Title
	case "rich_text":
		v.Kind = schema.KindRichText
		v.Text = raw.RichText
	case "select":
		v.Kind = schema.KindSelect
		v.Select = raw.Select
	case "checkbox":
		v.Kind = schema.KindCheckbox
		if len(raw.Checkbox) > 0 {
			if err := json.Unmarshal(raw.Checkbox, &v.Checkbox); err != nil {
				return err
			}
		}
	default:
		v.Kind = schema.KindOther
	}
	return nil
}

// Record is one raw page from a database query: a stable identifier plus a
// property-name-to-value map. Read-only to the extraction core.
type Record struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

// Database identifies one queryable collection during setup.
type Database struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// KindFromType maps a record-store property type tag to a PropertyKind.
func KindFromType(t string) schema.PropertyKind {
	switch t {
	case "date":
		return schema.KindDate
	case "title":
		return schema.KindTitle
	case "rich_text":
		return schema.KindRichText
	case "select":
		return schema.KindSelect
	case "checkbox":
		return schema.KindCheckbox
	default:
		return schema.KindOther
	}
}
