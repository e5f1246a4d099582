package pname

import "strings"

// PersonName is a parsed "Family, Given" name.
//
// The canonical text is stored once; Family and Given are views into it.
// Values are immutable and comparable with ==, which agrees with Compare.
// The zero value is the absent name and maps to SQL NULL.
type PersonName struct {
	text  string // canonical form: family + ", " + given
	comma int    // byte offset of the comma in text
}

// IsZero reports whether p is the absent name.
func (p PersonName) IsZero() bool {
	return p.text == ""
}

// Family returns the family name.
func (p PersonName) Family() string {
	return p.text[:p.comma]
}

// Given returns all given names joined by single spaces.
func (p PersonName) Given() string {
	if p.IsZero() {
		return ""
	}
	return p.text[p.comma+2:]
}

// GivenNames returns the given names in declared order. The slice is a fresh
// copy; modifying it does not affect p.
func (p PersonName) GivenNames() []string {
	if p.IsZero() {
		return nil
	}
	return strings.Split(p.Given(), " ")
}

// FirstGiven returns the first given name.
func (p PersonName) FirstGiven() string {
	given := p.Given()
	if i := strings.IndexByte(given, ' '); i >= 0 {
		return given[:i]
	}
	return given
}

// Canonical returns "Family, Given1 Given2 ...", the unique text form that
// parses back to p.
func (p PersonName) Canonical() string {
	return p.text
}

// String implements fmt.Stringer with the canonical form.
func (p PersonName) String() string {
	return p.text
}

// Display returns "Given1 Family". Middle given names are dropped.
func (p PersonName) Display() string {
	if p.IsZero() {
		return ""
	}
	return p.FirstGiven() + " " + p.Family()
}

// Hash returns the PostgreSQL hash_bytes value of the canonical text. Equal
// names always hash equally.
func (p PersonName) Hash() uint32 {
	return HashString(p.text)
}
