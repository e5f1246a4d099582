package pname

import (
	"database/sql/driver"
	"fmt"
)

// Value implements driver.Valuer. The zero name is NULL.
func (p PersonName) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.text, nil
}

// Scan implements sql.Scanner. NULL scans to the zero name. Text is
// validated under DefaultPolicy; scalar personname result columns reach
// here because the server reports them as text.
func (p *PersonName) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = PersonName{}
		return nil
	case string:
		return p.set(v)
	case []byte:
		return p.set(string(v))
	}
	return fmt.Errorf("cannot scan %T into PersonName", src)
}

// MarshalText implements encoding.TextMarshaler; JSON encodes the name as its
// canonical string.
func (p PersonName) MarshalText() ([]byte, error) {
	return []byte(p.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields the
// zero name.
func (p *PersonName) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = PersonName{}
		return nil
	}
	return p.set(string(text))
}

func (p *PersonName) set(raw string) error {
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
