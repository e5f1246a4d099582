package pname_test

import (
	"testing"

	pname "github.com/rickchristie/postgres-pname"
)

// Expected values are hashtext() results, reinterpreted as uint32. The
// lengths cover an empty key, a partial block, exactly one 12-byte block
// and multiple blocks with a tail.
func TestHashString_KnownValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0xa7ea466d},
		{"a", 0x401370b1},
		{"Smith, John", 0x14b8f142},
		{"Abcdefghijkl", 0xd42c667d},
		{"O'Brien, Mary Jane", 0xb1e388dd},
		{"Smith, John Paul Jones-Taylor", 0xc78f0039},
	}
	for _, tt := range tests {
		if got := pname.HashString(tt.in); got != tt.want {
			t.Errorf("HashString(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
		if got := pname.HashBytes([]byte(tt.in)); got != tt.want {
			t.Errorf("HashBytes(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestHash_UsesCanonicalText(t *testing.T) {
	t.Parallel()
	p := pname.MustParse("Smith,John")
	if p.Hash() != pname.HashString("Smith, John") {
		t.Fatalf("Hash() = %#x, want hash of canonical text", p.Hash())
	}
}

func TestHash_SpreadsSimilarNames(t *testing.T) {
	t.Parallel()
	seen := map[uint32]string{}
	for _, family := range []string{"Smith", "Smyth", "Smithe", "Smit", "Smiths"} {
		for _, given := range []string{"John", "Jon", "Joan", "Johns", "Jo"} {
			p := pname.MustParse(family + ", " + given)
			if prev, ok := seen[p.Hash()]; ok {
				t.Fatalf("%q and %q collide", prev, p)
			}
			seen[p.Hash()] = p.Canonical()
		}
	}
}
