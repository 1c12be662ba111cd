package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
)

// Languages lists every language code a localized field must carry.
var Languages = []Lang{LangRU, LangEN}

// LocalizedText is a per-language string mapping stored as a JSON text
// column. Rows written by older versions of the app may hold malformed
// JSON; scanning such a value yields the empty default instead of an error
// so a single bad row never breaks a listing.
type LocalizedText map[Lang]string

func DefaultLocalizedText() LocalizedText {
	t := make(LocalizedText, len(Languages))
	for _, lang := range Languages {
		t[lang] = ""
	}
	return t
}

func (t *LocalizedText) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = DefaultLocalizedText()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*t = DefaultLocalizedText()
		return nil
	}

	parsed := make(LocalizedText)
	if len(raw) == 0 || json.Unmarshal(raw, &parsed) != nil {
		*t = DefaultLocalizedText()
		return nil
	}
	for _, lang := range Languages {
		if _, ok := parsed[lang]; !ok {
			parsed[lang] = ""
		}
	}
	*t = parsed
	return nil
}

func (t LocalizedText) Value() (driver.Value, error) {
	if len(t) == 0 {
		t = DefaultLocalizedText()
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Validate reports whether every required language key is present.
func (t LocalizedText) Validate(field string) error {
	for _, lang := range Languages {
		if _, ok := t[lang]; !ok {
			return fmt.Errorf("%w: field %s must contain %q and %q keys", ErrValidation, field, LangRU, LangEN)
		}
	}
	return nil
}
