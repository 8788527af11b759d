// internal/domain/i18n/text.go
package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	Spanish = "es"
	English = "en"
)

// Text is either a single plain string or a per-locale mapping. Stored
// records use both shapes, so JSON decoding accepts either.
type Text struct {
	plain     string
	localized map[string]string
}

// Plain builds a Text that reads the same in every locale.
func Plain(s string) Text {
	return Text{plain: s}
}

// Localized builds a Text from locale-code -> value pairs.
func Localized(values map[string]string) Text {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[strings.ToLower(k)] = v
	}
	return Text{localized: m}
}

func (t Text) IsZero() bool {
	return t.plain == "" && len(t.localized) == 0
}

// Resolve picks preferred, then Spanish, then English, then "".
func (t Text) Resolve(preferred string) string {
	if t.localized == nil {
		return t.plain
	}
	for _, loc := range []string{strings.ToLower(preferred), Spanish, English} {
		if v, ok := t.localized[loc]; ok && v != "" {
			return v
		}
	}
	return ""
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.localized != nil {
		return json.Marshal(t.localized)
	}
	return json.Marshal(t.plain)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Plain(s)
		return nil
	case '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("localized text: %w", err)
		}
		*t = Localized(m)
		return nil
	default:
		return fmt.Errorf("localized text: expected string or object, got %s", data)
	}
}
