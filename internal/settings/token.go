// ABOUTME: Compact URL-safe token encoding of widget settings.
// ABOUTME: A flat JSON payload, base64url without padding, embeddable in a path.

package settings

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/calwidget/calwidget/internal/schema"
)

// tokenPayload is the wire shape of the settings token. Field names are part
// of the public token format; existing embed URLs depend on them.
type tokenPayload struct {
	Token          string   `json:"token"`
	DBID           string   `json:"dbId"`
	DateProp       string   `json:"dateProp"`
	TitleProp      string   `json:"titleProp"`
	ScheduleProps  []string `json:"scheduleProps,omitempty"`
	ImportantProp  string   `json:"importantProp,omitempty"`
	PrimaryColor   string   `json:"primaryColor,omitempty"`
	AccentColor    string   `json:"accentColor,omitempty"`
	ImportantColor string   `json:"importantColor,omitempty"`
}

// EncodeToken serializes settings into a URL-safe token.
func EncodeToken(s Settings) (string, error) {
	payload := tokenPayload{
		Token:          s.Credential,
		DBID:           s.DatabaseID,
		DateProp:       s.Mapping.DateProperty,
		TitleProp:      s.Mapping.TitleProperty,
		ScheduleProps:  s.Mapping.ScheduleProperties,
		ImportantProp:  s.Mapping.ImportanceProperty,
		PrimaryColor:   s.Theme.PrimaryColor,
		AccentColor:    s.Theme.AccentColor,
		ImportantColor: s.Theme.ImportantColor,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode settings token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeToken parses a settings token back into Settings. Tokens produced by
// older setups may lack scheduleProps or importantProp entirely; those decode
// to empty values and the widget degrades instead of failing.
func DecodeToken(token string) (Settings, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Tolerate padded tokens from encoders that keep the '='.
		data, err = base64.URLEncoding.DecodeString(token)
		if err != nil {
			return Settings{}, fmt.Errorf("decode settings token: %w", err)
		}
	}

	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Settings{}, fmt.Errorf("decode settings token: %w", err)
	}

	theme := payload.theme()
	return Settings{
		Credential: payload.Token,
		DatabaseID: payload.DBID,
		Mapping: schema.RoleMapping{
			DateProperty:       payload.DateProp,
			TitleProperty:      payload.TitleProp,
			ScheduleProperties: payload.ScheduleProps,
			ImportanceProperty: payload.ImportantProp,
		},
		Theme: theme,
	}, nil
}

// theme fills missing colors with the defaults.
func (p tokenPayload) theme() Theme {
	theme := DefaultTheme()
	if p.PrimaryColor != "" {
		theme.PrimaryColor = p.PrimaryColor
	}
	if p.AccentColor != "" {
		theme.AccentColor = p.AccentColor
	}
	if p.ImportantColor != "" {
		theme.ImportantColor = p.ImportantColor
	}
	return theme
}
