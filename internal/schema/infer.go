// ABOUTME: Best-effort role inference over an external database schema.
// ABOUTME: First-match-wins scans with keyword heuristics for optional roles.

package schema

// Inferencer resolves semantic roles from a property catalog using a keyword
// table. The zero value is not usable; construct with NewInferencer.
type Inferencer struct {
	keywords Keywords
}

func NewInferencer(kw Keywords) *Inferencer {
	return &Inferencer{keywords: kw}
}

// Infer scans the catalog in its given order and resolves a RoleMapping.
//
// The first Date property becomes the date role and the first Title property
// the title role; later duplicates are ignored. Schedule candidates are the
// RichText properties whose names match a schedule keyword, in catalog order,
// capped at MaxScheduleProperties; if no name matches, the first
// MaxScheduleProperties RichText properties are taken instead. The importance
// role prefers a keyword-matching Select, falls back to the first Select, and
// stays empty when the catalog has none.
//
// Infer fails only when the catalog lacks a Date or Title property. It is a
// pure function: the same catalog (same order) always yields the same mapping.
func (inf *Inferencer) Infer(catalog Catalog) (RoleMapping, error) {
	var m RoleMapping

	for _, p := range catalog {
		switch p.Kind {
		case KindDate:
			if m.DateProperty == "" {
				m.DateProperty = p.Name
			}
		case KindTitle:
			if m.TitleProperty == "" {
				m.TitleProperty = p.Name
			}
		}
	}

	if m.DateProperty == "" {
		return RoleMapping{}, &InferenceError{Code: CodeMissingDate, Role: "date"}
	}
	if m.TitleProperty == "" {
		return RoleMapping{}, &InferenceError{Code: CodeMissingTitle, Role: "title"}
	}

	m.ScheduleProperties = inf.scheduleProperties(catalog)
	m.ImportanceProperty = inf.importanceProperty(catalog)
	return m, nil
}

func (inf *Inferencer) scheduleProperties(catalog Catalog) []string {
	var matched []string
	for _, p := range catalog {
		if p.Kind != KindRichText || len(matched) >= MaxScheduleProperties {
			continue
		}
		for _, rule := range inf.keywords.Schedule {
			if rule.Matches(p.Name) {
				matched = append(matched, p.Name)
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}

	// No keyword hits at all: take the first RichText properties wholesale.
	// A partial keyword match never triggers this fallback.
	var fallback []string
	for _, p := range catalog {
		if p.Kind == KindRichText {
			fallback = append(fallback, p.Name)
			if len(fallback) == MaxScheduleProperties {
				break
			}
		}
	}
	return fallback
}

func (inf *Inferencer) importanceProperty(catalog Catalog) string {
	// Rules are ordered by priority: an earlier rule matching anywhere in the
	// catalog beats any later rule.
	for _, rule := range inf.keywords.Importance {
		for _, p := range catalog {
			if p.Kind == KindSelect && rule.Matches(p.Name) {
				return p.Name
			}
		}
	}
	// Known heuristic carried over from the widget's original behavior: with
	// no keyword match, the first Select property is used even when it is
	// unrelated to importance.
	for _, p := range catalog {
		if p.Kind == KindSelect {
			return p.Name
		}
	}
	return ""
}
