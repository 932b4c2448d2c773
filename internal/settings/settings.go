// ABOUTME: Widget settings model, theme defaults, and input sanitizing.
// ABOUTME: Everything a widget instance needs beyond the live record store.

package settings

import (
	"errors"
	"regexp"
	"strings"

	"github.com/calwidget/calwidget/internal/schema"
)

// Theme holds the widget's display colors.
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	AccentColor    string `json:"accentColor"`
	ImportantColor string `json:"importantColor"`
}

// DefaultTheme returns the stock widget colors.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   "#4A5568",
		AccentColor:    "#ED64A6",
		ImportantColor: "#ED64A6",
	}
}

// Settings is the full configuration of one widget instance: the record-store
// credential, the collection to read, the resolved role mapping, and theming.
type Settings struct {
	Credential string
	DatabaseID string
	Mapping    schema.RoleMapping
	Theme      Theme
}

// Validate checks the fields a widget cannot function without. Schedule and
// importance roles are optional here; stale values degrade at extraction time.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Credential) == "" {
		return errors.New("credential is required")
	}
	if strings.TrimSpace(s.DatabaseID) == "" {
		return errors.New("database id is required")
	}
	if strings.TrimSpace(s.Mapping.DateProperty) == "" {
		return errors.New("date property is required")
	}
	if strings.TrimSpace(s.Mapping.TitleProperty) == "" {
		return errors.New("title property is required")
	}
	if len(s.Mapping.ScheduleProperties) > schema.MaxScheduleProperties {
		return errors.New("too many schedule properties")
	}
	seen := make(map[string]bool, len(s.Mapping.ScheduleProperties))
	for _, name := range s.Mapping.ScheduleProperties {
		if seen[name] {
			return errors.New("duplicate schedule property " + name)
		}
		seen[name] = true
	}
	return nil
}

var databaseIDPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// ValidDatabaseID reports whether id is a 32-digit hex database id, with or
// without hyphens.
func ValidDatabaseID(id string) bool {
	return databaseIDPattern.MatchString(strings.ToLower(strings.ReplaceAll(id, "-", "")))
}

const maxFieldLength = 500

// Sanitize strips markup-significant characters from user-supplied field
// values and caps their length. Credentials are never sanitized; they are
// opaque and must survive verbatim.
func Sanitize(input string) string {
	s := strings.NewReplacer("<", "", ">", "").Replace(input)
	for {
		cleaned := removeFoldedPrefix(s, "javascript:")
		if cleaned == s {
			break
		}
		s = cleaned
	}
	s = strings.TrimSpace(s)
	if len(s) > maxFieldLength {
		s = s[:maxFieldLength]
	}
	return s
}

// removeFoldedPrefix deletes every case-insensitive occurrence of sub in s.
func removeFoldedPrefix(s, sub string) string {
	lower := strings.ToLower(s)
	idx := strings.Index(lower, sub)
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(sub):]
}
