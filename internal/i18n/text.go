// Package i18n holds the bilingual text value used for member-facing copy.
// The club operates in Arabic and English; both variants are generated
// together and stored as one JSONB column.
package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Text struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

func NewText(en, ar string) Text { return Text{EN: en, AR: ar} }

// Get returns the variant for the locale, falling back to English.
func (t Text) Get(locale string) string {
	if locale == "ar" && t.AR != "" {
		return t.AR
	}
	return t.EN
}

func (t Text) IsEmpty() bool { return t.EN == "" && t.AR == "" }

// Value / Scan are the explicit codec at the persistence boundary; the
// in-memory model stays strongly typed.
func (t Text) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Text) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Text{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("i18n: cannot scan %T into Text", src)
	}
}
