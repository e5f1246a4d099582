package pname

import (
	"strings"
)

// Parse validates raw under DefaultPolicy and splits it into a PersonName.
func Parse(raw string) (PersonName, error) {
	return ParseWith(defaultValidator, raw)
}

// ParseWith validates raw with v before splitting it. Invalid input never
// yields a partial value.
func ParseWith(v Validator, raw string) (PersonName, error) {
	if err := v.Check(raw); err != nil {
		return PersonName{}, err
	}
	return split(raw), nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(raw string) PersonName {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// New builds a PersonName from its parts and validates the result under
// DefaultPolicy.
func New(family string, given ...string) (PersonName, error) {
	return Parse(family + ", " + strings.Join(given, " "))
}

// split assumes raw has passed validation. Input that is already canonical
// is kept as is; otherwise the canonical text is built once.
func split(raw string) PersonName {
	comma := strings.IndexByte(raw, ',')
	if comma+1 < len(raw) && raw[comma+1] == ' ' {
		return PersonName{text: raw, comma: comma}
	}
	return PersonName{text: raw[:comma] + ", " + raw[comma+1:], comma: comma}
}

// SortStrings parses each raw string with v and returns the valid names in
// Compare order, plus one error per rejected string in input order.
func SortStrings(v Validator, raw []string) ([]PersonName, []error) {
	names := make([]PersonName, 0, len(raw))
	var errs []error
	for _, s := range raw {
		p, err := ParseWith(v, s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, p)
	}
	Sort(names)
	return names, errs
}
