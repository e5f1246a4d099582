package pname_test

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	pname "github.com/rickchristie/postgres-pname"
	"github.com/rs/zerolog"
)

// expectPanic calls f and asserts that it panics with a message containing substr.
func expectPanic(t *testing.T, substr string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, but no panic occurred", substr)
		}
		msg := ""
		switch v := r.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		default:
			t.Fatalf("expected panic string/error containing %q, got %T: %v", substr, r, r)
		}
		if !strings.Contains(msg, substr) {
			t.Fatalf("expected panic containing %q, got %q", substr, msg)
		}
	}()
	f()
}

// expectNoPanic calls f and asserts that it does NOT panic.
func expectNoPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	f()
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func newTestProcessor(config pname.Config) *pname.Processor {
	return pname.NewProcessor(config, testLogger())
}

func TestNewProcessor_InvalidPolicy(t *testing.T) {
	t.Parallel()
	expectPanic(t, "unknown validation policy", func() {
		newTestProcessor(pname.Config{Policy: "lenient"})
	})
}

func TestNewProcessor_NegativeLimits(t *testing.T) {
	t.Parallel()
	expectPanic(t, "max_name_length must be >= 0", func() {
		newTestProcessor(pname.Config{MaxNameLength: -1})
	})
	expectPanic(t, "max_sort_names must be >= 0", func() {
		newTestProcessor(pname.Config{MaxSortNames: -1})
	})
}

func TestNewProcessor_InvalidHintRegex(t *testing.T) {
	t.Parallel()
	expectPanic(t, "regex", func() {
		newTestProcessor(pname.Config{Hints: []pname.HintRule{{Pattern: "[invalid(regex", Message: "x"}}})
	})
}

func TestNewProcessor_Defaults(t *testing.T) {
	t.Parallel()
	expectNoPanic(t, func() {
		p := newTestProcessor(pname.Config{})
		if p.Validator().Policy() != pname.DefaultPolicy {
			t.Fatalf("expected default policy, got %s", p.Validator().Policy())
		}
	})
}

func TestProcessor_Validate(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{})

	out := p.Validate(pname.ValidateInput{Name: "Smith,John"})
	if !out.Valid || out.Canonical != "Smith, John" || out.Error != "" {
		t.Fatalf("unexpected output: %+v", out)
	}

	out = p.Validate(pname.ValidateInput{Name: "smith, john"})
	if out.Valid || out.Canonical != "" {
		t.Fatalf("expected invalid, got %+v", out)
	}
	if out.Part != "family" || out.Reason != string(pname.ReasonLowercase) {
		t.Fatalf("unexpected part/reason: %+v", out)
	}
	if !strings.Contains(out.Error, "hint: Capitalize names") {
		t.Fatalf("expected capitalization hint, got %q", out.Error)
	}
}

func TestProcessor_ValidateHonorsPolicy(t *testing.T) {
	t.Parallel()
	strict := newTestProcessor(pname.Config{})
	lax := newTestProcessor(pname.Config{Policy: "structural"})
	if strict.Validate(pname.ValidateInput{Name: "Smith, J"}).Valid {
		t.Fatal("pattern policy accepted a one-letter word")
	}
	if !lax.Validate(pname.ValidateInput{Name: "Smith, J"}).Valid {
		t.Fatal("structural policy rejected a one-letter word")
	}
}

func TestProcessor_MaxNameLength(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{MaxNameLength: 12})
	if !p.Validate(pname.ValidateInput{Name: "Smith, John"}).Valid {
		t.Fatal("expected 11-byte name to be accepted")
	}
	out := p.Validate(pname.ValidateInput{Name: "Smith, Johnny"})
	if out.Valid || out.Reason != string(pname.ReasonTooLong) {
		t.Fatalf("expected too long, got %+v", out)
	}
}

func TestProcessor_Parse(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{})
	out := p.Parse(pname.ParseInput{Name: "O'Brien,Mary Jane"})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if out.Family != "O'Brien" || out.Given != "Mary Jane" || !slices.Equal(out.GivenNames, []string{"Mary", "Jane"}) {
		t.Fatalf("unexpected fields: %+v", out)
	}
	if out.Canonical != "O'Brien, Mary Jane" || out.Display != "Mary O'Brien" {
		t.Fatalf("unexpected forms: %+v", out)
	}
	if out.Hash != pname.HashString("O'Brien, Mary Jane") {
		t.Fatalf("unexpected hash %#x", out.Hash)
	}

	out = p.Parse(pname.ParseInput{Name: "Smith John"})
	if !strings.Contains(out.Error, "missing comma") || !strings.Contains(out.Error, `hint: Write the family name first`) {
		t.Fatalf("unexpected error: %q", out.Error)
	}
}

func TestProcessor_Compare(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{})
	if out := p.Compare(pname.CompareInput{A: "Adams, Zoe", B: "Smith, Amy"}); out.Result != -1 || out.Error != "" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out := p.Compare(pname.CompareInput{A: "Smith, Zoe", B: "Smith, Amy"}); out.Result != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out := p.Compare(pname.CompareInput{A: "Smith,Amy", B: "Smith, Amy"}); out.Result != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
	out := p.Compare(pname.CompareInput{A: "Smith, Amy", B: "Smith,, Amy"})
	if !strings.HasPrefix(out.Error, "b: ") {
		t.Fatalf("expected error for b, got %q", out.Error)
	}
}

func TestProcessor_Sort(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{})
	out := p.Sort(pname.SortInput{Names: []string{"Smith, Zoe", "smith, amy", "Adams,Zoe", "Smith, Amy Lee"}})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if want := []string{"Adams, Zoe", "Smith, Amy Lee", "Smith, Zoe"}; !slices.Equal(out.Names, want) {
		t.Fatalf("Names = %q, want %q", out.Names, want)
	}
	if want := []string{"Zoe Adams", "Amy Smith", "Zoe Smith"}; !slices.Equal(out.Display, want) {
		t.Fatalf("Display = %q, want %q", out.Display, want)
	}
	if len(out.Invalid) != 1 || out.Invalid[0].Index != 1 || out.Invalid[0].Name != "smith, amy" {
		t.Fatalf("unexpected invalid list: %+v", out.Invalid)
	}
}

func TestProcessor_SortEmpty(t *testing.T) {
	t.Parallel()
	out := newTestProcessor(pname.Config{}).Sort(pname.SortInput{})
	if out.Error != "" || out.Names == nil || len(out.Names) != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestProcessor_MaxSortNames(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{MaxSortNames: 2})
	out := p.Sort(pname.SortInput{Names: []string{"Ng, Li", "Ng, Wei", "Ng, Yan"}})
	if out.Error != "too many names: 3 exceeds maximum of 2" {
		t.Fatalf("unexpected error: %q", out.Error)
	}
}

func TestProcessor_Hints(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{
		DisableDefaultHints: true,
		Hints: []pname.HintRule{
			{Pattern: `given name`, Message: "Check the part after the comma."},
		},
	})
	out := p.Validate(pname.ValidateInput{Name: "Smith, john"})
	want := `invalid input syntax for type personname: "Smith, john": given name does not start with an uppercase letter` +
		"\nhint: Check the part after the comma."
	if out.Error != want {
		t.Fatalf("got %q\nwant %q", out.Error, want)
	}
	out = p.Validate(pname.ValidateInput{Name: "Smith John"})
	if strings.Contains(out.Error, "hint:") {
		t.Fatalf("default hints should be disabled, got %q", out.Error)
	}
}

func TestProcessor_HintsIgnoreQuotedInput(t *testing.T) {
	t.Parallel()
	p := newTestProcessor(pname.Config{})
	out := p.Validate(pname.ValidateInput{Name: "Smith, is empty"})
	want := `invalid input syntax for type personname: "Smith, is empty": given name does not start with an uppercase letter` +
		"\nhint: Capitalize names: \"O'Brien, Mary Jane\", not \"o'brien, mary jane\"."
	if out.Error != want {
		t.Fatalf("got %q\nwant %q", out.Error, want)
	}
	parseOut := p.Parse(pname.ParseInput{Name: "Missing Comma,, Zed"})
	if strings.Count(parseOut.Error, "hint:") != 1 || !strings.Contains(parseOut.Error, "hint: Use exactly one comma") {
		t.Fatalf("expected only the comma-count hint, got %q", parseOut.Error)
	}
}

func TestProcessor_ParseOutputKeepsZeroHash(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(pname.ParseOutput{Family: "Ng", Given: "Li"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"hash":0`) {
		t.Fatalf("hash should always be present, got %s", data)
	}
}

func ExampleProcessor_Sort() {
	p := pname.NewProcessor(pname.Config{}, zerolog.Nop())
	out := p.Sort(pname.SortInput{Names: []string{"Smith, Zoe", "Adams, Zoe", "Smith, Amy"}})
	fmt.Println(strings.Join(out.Display, "; "))
	// Output: Zoe Adams; Amy Smith; Zoe Smith
}
