// ABOUTME: Property catalog and role mapping types for calendar widget schemas.
// ABOUTME: Defines the property kinds recognized by inference and validation.

package schema

// PropertyKind classifies an external database column by its value shape.
type PropertyKind string

const (
	KindDate     PropertyKind = "date"
	KindTitle    PropertyKind = "title"
	KindRichText PropertyKind = "rich_text"
	KindSelect   PropertyKind = "select"
	KindCheckbox PropertyKind = "checkbox"
	KindOther    PropertyKind = "other"
)

// PropertyDescriptor is an immutable snapshot of one schema entry.
type PropertyDescriptor struct {
	Name string
	Kind PropertyKind
}

// MaxScheduleProperties caps how many freeform schedule columns a widget
// shows per day.
const MaxScheduleProperties = 5

// RoleMapping assigns semantic roles to property names for one widget.
// DateProperty and TitleProperty are required; ScheduleProperties holds up to
// MaxScheduleProperties distinct names whose order fixes tooltip display
// order; ImportanceProperty may be empty, which disables the feature.
type RoleMapping struct {
	DateProperty       string   `json:"dateProperty"`
	TitleProperty      string   `json:"titleProperty"`
	ScheduleProperties []string `json:"scheduleProperties"`
	ImportanceProperty string   `json:"importanceProperty"`
}

// Catalog is an ordered property list as returned by the record store.
// Order matters: inference is first-match-wins over this order.
type Catalog []PropertyDescriptor

// Find returns the descriptor for name and whether it exists.
func (c Catalog) Find(name string) (PropertyDescriptor, bool) {
	for _, p := range c {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDescriptor{}, false
}
