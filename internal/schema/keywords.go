// ABOUTME: Vernacular keyword tables consulted by schema inference.
// ABOUTME: Ships bilingual defaults and supports loading overrides from YAML.

package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MatchMode selects how a keyword rule compares tokens against a property name.
type MatchMode string

const (
	// MatchContains matches when the name contains the token, case-insensitively.
	MatchContains MatchMode = "contains"
	// MatchExact matches when the name equals the token, case-insensitively.
	MatchExact MatchMode = "exact"
)

// KeywordRule is one recognized-token rule for a role.
type KeywordRule struct {
	Tokens []string  `yaml:"tokens"`
	Mode   MatchMode `yaml:"mode"`
}

// Matches reports whether name satisfies the rule.
func (r KeywordRule) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, tok := range r.Tokens {
		tok = strings.ToLower(tok)
		switch r.Mode {
		case MatchExact:
			if lower == tok {
				return true
			}
		default:
			if strings.Contains(lower, tok) {
				return true
			}
		}
	}
	return false
}

// Keywords holds the per-role token tables. Rules for a role are tried in
// order; an earlier rule matching anywhere beats later rules entirely.
type Keywords struct {
	Schedule   []KeywordRule `yaml:"schedule"`
	Importance []KeywordRule `yaml:"importance"`
}

// DefaultKeywords returns the built-in bilingual token tables: "schedule"-like
// names for freeform schedule columns and "important"-like names for the
// importance flag.
func DefaultKeywords() Keywords {
	return Keywords{
		Schedule: []KeywordRule{
			{Tokens: []string{"schedule", "일정"}, Mode: MatchContains},
		},
		Importance: []KeywordRule{
			{Tokens: []string{"important", "중요"}, Mode: MatchExact},
			{Tokens: []string{"중요도", "importance"}, Mode: MatchContains},
		},
	}
}

// LoadKeywords reads a YAML keyword table from path. Roles absent from the
// file keep their defaults.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	data, err := os.ReadFile(path)
	if err != nil {
		return kw, fmt.Errorf("read keywords file: %w", err)
	}
	var override Keywords
	if err := yaml.Unmarshal(data, &override); err != nil {
		return kw, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(override.Schedule) > 0 {
		kw.Schedule = override.Schedule
	}
	if len(override.Importance) > 0 {
		kw.Importance = override.Importance
	}
	return kw, nil
}
