package pname

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy selects the grammar a Validator enforces.
type Policy int

const (
	// PolicyPattern anchors the whole string to NamePattern: every word is
	// capitalized and at least two letters long.
	PolicyPattern Policy = iota
	// PolicyStructural checks each side of the comma by scanning: only the
	// first letter of each side must be uppercase, one-letter words allowed.
	PolicyStructural
	// PolicyStructuralStrict is PolicyStructural with a two-letter minimum
	// per word.
	PolicyStructuralStrict
)

// DefaultPolicy is used by the package-level helpers.
const DefaultPolicy = PolicyPattern

// NamePattern is the full-string grammar of PolicyPattern.
const NamePattern = `^[A-Z][A-Za-z'-]+( [A-Z][A-Za-z'-]+)*, ?[A-Z][A-Za-z'-]+( [A-Z][A-Za-z'-]+)*$`

// CanonicalPattern matches the canonical spelling of NamePattern names, with
// exactly one space after the comma. The domain CHECK constraint uses it, so
// stored text equals String() and hashtext agrees with Hash.
const CanonicalPattern = `^[A-Z][A-Za-z'-]+( [A-Z][A-Za-z'-]+)*, [A-Z][A-Za-z'-]+( [A-Z][A-Za-z'-]+)*$`

const componentPattern = `^[A-Z][A-Za-z'-]+( [A-Z][A-Za-z'-]+)*$`

var (
	nameRegexp      = regexp.MustCompile(NamePattern)
	componentRegexp = regexp.MustCompile(componentPattern)
)

func (p Policy) String() string {
	switch p {
	case PolicyPattern:
		return "pattern"
	case PolicyStructural:
		return "structural"
	case PolicyStructuralStrict:
		return "structural_strict"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a config name to a Policy. The empty string selects
// DefaultPolicy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultPolicy, nil
	case "pattern":
		return PolicyPattern, nil
	case "structural":
		return PolicyStructural, nil
	case "structural_strict":
		return PolicyStructuralStrict, nil
	}
	return 0, fmt.Errorf("unknown validation policy %q (want pattern, structural or structural_strict)", name)
}

// Validator decides whether raw text is a legal "Family, Given" name.
//
// IsValid returns true if raw satisfies the policy in its entirety.
// IsValidComponent returns true if part is a legal family or given side.
// Check returns nil or a *FormatError explaining the first violation.
type Validator interface {
	IsValid(raw string) bool
	IsValidComponent(part string) bool
	Check(raw string) error
	Policy() Policy
}

// NewValidator constructs the Validator for policy.
func NewValidator(policy Policy) (Validator, error) {
	switch policy {
	case PolicyPattern:
		return &patternValidator{diagnose: wordRules{minWordLen: 2, capitalizeEach: true}}, nil
	case PolicyStructural:
		return &structuralValidator{policy: policy, rules: wordRules{minWordLen: 1}}, nil
	case PolicyStructuralStrict:
		return &structuralValidator{policy: policy, rules: wordRules{minWordLen: 2}}, nil
	}
	return nil, fmt.Errorf("no validator for %s", policy)
}

func mustValidator(policy Policy) Validator {
	v, err := NewValidator(policy)
	if err != nil {
		panic(err)
	}
	return v
}

var defaultValidator = mustValidator(DefaultPolicy)

// IsValidName reports whether raw is valid under DefaultPolicy.
func IsValidName(raw string) bool {
	return defaultValidator.IsValid(raw)
}

// IsValidNameComponent reports whether part is a valid family or given side
// under DefaultPolicy.
func IsValidNameComponent(part string) bool {
	return defaultValidator.IsValidComponent(part)
}

type patternValidator struct {
	// diagnose reproduces the pattern's rules so rejections carry a reason.
	diagnose wordRules
}

func (v *patternValidator) IsValid(raw string) bool {
	return nameRegexp.MatchString(raw)
}

func (v *patternValidator) IsValidComponent(part string) bool {
	return componentRegexp.MatchString(part)
}

func (v *patternValidator) Check(raw string) error {
	if nameRegexp.MatchString(raw) {
		return nil
	}
	part, reason := v.diagnose.check(raw)
	if reason == "" {
		reason = ReasonPattern
	}
	return &FormatError{Input: raw, Policy: PolicyPattern, Part: part, Reason: reason}
}

func (v *patternValidator) Policy() Policy {
	return PolicyPattern
}

type structuralValidator struct {
	policy Policy
	rules  wordRules
}

func (v *structuralValidator) IsValid(raw string) bool {
	_, reason := v.rules.check(raw)
	return reason == ""
}

func (v *structuralValidator) IsValidComponent(part string) bool {
	return v.rules.scanPart(part) == ""
}

func (v *structuralValidator) Check(raw string) error {
	part, reason := v.rules.check(raw)
	if reason == "" {
		return nil
	}
	return &FormatError{Input: raw, Policy: v.policy, Part: part, Reason: reason}
}

func (v *structuralValidator) Policy() Policy {
	return v.policy
}

// wordRules scans one side of the comma at a time.
type wordRules struct {
	minWordLen     int
	capitalizeEach bool // every word, not only the first, must be capitalized
}

// check returns an empty Reason when raw is valid.
func (r wordRules) check(raw string) (Part, Reason) {
	if raw == "" {
		return "", ReasonEmpty
	}
	comma := strings.IndexByte(raw, ',')
	if comma < 0 {
		return "", ReasonMissingComma
	}
	rest := raw[comma+1:]
	if strings.IndexByte(rest, ',') >= 0 {
		return "", ReasonMultipleCommas
	}
	if reason := r.scanPart(raw[:comma]); reason != "" {
		return PartFamily, reason
	}
	if reason := r.scanPart(strings.TrimPrefix(rest, " ")); reason != "" {
		return PartGiven, reason
	}
	return "", ""
}

func (r wordRules) scanPart(part string) Reason {
	if part == "" {
		return ReasonEmptyPart
	}
	if part[0] == ' ' {
		return ReasonLeadingSpace
	}
	if !isUpper(part[0]) {
		return ReasonLowercase
	}
	wordLen := 0
	for i := 0; i < len(part); i++ {
		c := part[i]
		switch {
		case c == ' ':
			if i == len(part)-1 {
				return ReasonTrailingSpace
			}
			if part[i+1] == ' ' {
				return ReasonDoubleSpace
			}
			if wordLen < r.minWordLen {
				return ReasonShortWord
			}
			if r.capitalizeEach && !isUpper(part[i+1]) {
				return ReasonWordLowercase
			}
			wordLen = 0
		case isLetter(c) || c == '\'' || c == '-':
			wordLen++
		default:
			return ReasonInvalidCharacter
		}
	}
	if wordLen < r.minWordLen {
		return ReasonShortWord
	}
	return ""
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

func isLetter(c byte) bool {
	return isUpper(c) || ('a' <= c && c <= 'z')
}
