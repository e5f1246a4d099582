package pname

import (
	"slices"
	"strings"
)

// Compare orders names by family name, then by the space-joined given names,
// both as plain byte strings. It returns -1, 0 or +1.
func Compare(a, b PersonName) int {
	if c := strings.Compare(a.Family(), b.Family()); c != 0 {
		return c
	}
	return strings.Compare(a.Given(), b.Given())
}

// Sort sorts names in place in Compare order.
func Sort(names []PersonName) {
	slices.SortFunc(names, Compare)
}

func (p PersonName) Compare(other PersonName) int { return Compare(p, other) }

func (p PersonName) Equal(other PersonName) bool { return Compare(p, other) == 0 }

func (p PersonName) NotEqual(other PersonName) bool { return Compare(p, other) != 0 }

func (p PersonName) Less(other PersonName) bool { return Compare(p, other) < 0 }

func (p PersonName) LessOrEqual(other PersonName) bool { return Compare(p, other) <= 0 }

func (p PersonName) Greater(other PersonName) bool { return Compare(p, other) > 0 }

func (p PersonName) GreaterOrEqual(other PersonName) bool { return Compare(p, other) >= 0 }
