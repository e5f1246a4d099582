package pname

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rickchristie/postgres-pname/internal/hint"
)

// Processor is the configured engine behind the MCP tools and the CLI.
// After NewProcessor it holds only read-only state, so all exported methods are safe
// for concurrent use from multiple goroutines.
type Processor struct {
	config    Config
	validator Validator
	hints     *hint.Matcher
	logger    zerolog.Logger
}

// defaultHints apply unless Config.DisableDefaultHints is set. Patterns match
// FormatError.Problem, never the rejected input.
var defaultHints = []HintRule{
	{Pattern: `missing comma`, Message: `Write the family name first, then a comma, then the given names: "Smith, John".`},
	{Pattern: `more than one comma`, Message: "Use exactly one comma, between the family name and the given names."},
	{Pattern: `uppercase letter`, Message: `Capitalize names: "O'Brien, Mary Jane", not "o'brien, mary jane".`},
	{Pattern: `consecutive spaces|starts with a space|ends with a space`, Message: "Separate words with single spaces; at most one space may follow the comma."},
	{Pattern: `character other than`, Message: "Only the letters A-Z and a-z, hyphens and apostrophes are allowed."},
	{Pattern: `shorter than two letters`, Message: "Spell out initials: every word needs at least two letters."},
	{Pattern: `is empty|empty input`, Message: "Both a family name and at least one given name are required."},
}

// NewProcessor creates a new Processor.
// Panics on invalid config: an unknown policy, negative limits or a hint
// pattern that does not compile.
func NewProcessor(config Config, logger zerolog.Logger) *Processor {
	policy, err := ParsePolicy(config.Policy)
	if err != nil {
		panic("pname: " + err.Error())
	}
	if config.MaxNameLength < 0 {
		panic("pname: max_name_length must be >= 0")
	}
	if config.MaxSortNames < 0 {
		panic("pname: max_sort_names must be >= 0")
	}
	if config.MaxNameLength == 0 {
		config.MaxNameLength = defaultMaxNameLength
	}
	if config.MaxSortNames == 0 {
		config.MaxSortNames = defaultMaxSortNames
	}

	var rules []hint.Rule
	if !config.DisableDefaultHints {
		rules = mapHintRules(defaultHints)
	}
	rules = append(rules, mapHintRules(config.Hints)...)
	matcher, err := hint.NewMatcher(rules)
	if err != nil {
		panic("pname: " + err.Error())
	}

	return &Processor{
		config:    config,
		validator: mustValidator(policy),
		hints:     matcher,
		logger:    logger,
	}
}

func mapHintRules(rules []HintRule) []hint.Rule {
	out := make([]hint.Rule, len(rules))
	for i, r := range rules {
		out[i] = hint.Rule{Pattern: r.Pattern, Message: r.Message}
	}
	return out
}

// Validator returns the validator for the configured policy.
func (p *Processor) Validator() Validator {
	return p.validator
}

// ParseName validates and parses raw, enforcing the length limit.
func (p *Processor) ParseName(raw string) (PersonName, error) {
	if len(raw) > p.config.MaxNameLength {
		return PersonName{}, &FormatError{Input: raw, Policy: p.validator.Policy(), Reason: ReasonTooLong}
	}
	return ParseWith(p.validator, raw)
}

// Validate reports whether input.Name is valid and returns its canonical form.
func (p *Processor) Validate(input ValidateInput) *ValidateOutput {
	name, err := p.ParseName(input.Name)
	if err != nil {
		output := &ValidateOutput{Error: p.handleError(err)}
		var fe *FormatError
		if errors.As(err, &fe) {
			output.Part = string(fe.Part)
			output.Reason = string(fe.Reason)
		}
		return output
	}
	return &ValidateOutput{Valid: true, Canonical: name.Canonical()}
}

// Parse splits input.Name into its fields and derived forms.
func (p *Processor) Parse(input ParseInput) *ParseOutput {
	name, err := p.ParseName(input.Name)
	if err != nil {
		return &ParseOutput{Error: p.handleError(err)}
	}
	return &ParseOutput{
		Family:     name.Family(),
		Given:      name.Given(),
		GivenNames: name.GivenNames(),
		Canonical:  name.Canonical(),
		Display:    name.Display(),
		Hash:       name.Hash(),
	}
}

// Compare orders input.A against input.B.
func (p *Processor) Compare(input CompareInput) *CompareOutput {
	a, err := p.ParseName(input.A)
	if err != nil {
		return &CompareOutput{Error: p.handleError(fmt.Errorf("a: %w", err))}
	}
	b, err := p.ParseName(input.B)
	if err != nil {
		return &CompareOutput{Error: p.handleError(fmt.Errorf("b: %w", err))}
	}
	return &CompareOutput{Result: Compare(a, b)}
}

// Sort parses every entry of input.Names and returns the valid ones sorted.
// Invalid entries are reported individually and do not fail the call.
func (p *Processor) Sort(input SortInput) *SortOutput {
	if len(input.Names) > p.config.MaxSortNames {
		return &SortOutput{
			Names:   []string{},
			Display: []string{},
			Error:   fmt.Sprintf("too many names: %d exceeds maximum of %d", len(input.Names), p.config.MaxSortNames),
		}
	}

	names := make([]PersonName, 0, len(input.Names))
	var invalid []InvalidName
	for i, raw := range input.Names {
		name, err := p.ParseName(raw)
		if err != nil {
			invalid = append(invalid, InvalidName{Index: i, Name: raw, Error: p.handleError(err)})
			continue
		}
		names = append(names, name)
	}
	Sort(names)

	output := &SortOutput{
		Names:   make([]string, len(names)),
		Display: make([]string, len(names)),
		Invalid: invalid,
	}
	for i, name := range names {
		output.Names[i] = name.Canonical()
		output.Display[i] = name.Display()
	}

	p.logger.Debug().
		Int("valid", len(names)).
		Int("invalid", len(invalid)).
		Msg("names sorted")
	return output
}

// handleError logs a rejection and returns its message with hints appended.
// Hint rules match the problem description only; the rejected text is
// neither matched nor logged.
func (p *Processor) handleError(err error) string {
	event := p.logger.Debug().Str("policy", p.validator.Policy().String())
	subject := err.Error()
	var fe *FormatError
	if errors.As(err, &fe) {
		subject = fe.Problem()
		event = event.Str("part", string(fe.Part)).Str("reason", string(fe.Reason)).Int("input_bytes", len(fe.Input))
	}
	event.Msg("name rejected")
	return p.hints.AnnotateSubject(err.Error(), subject)
}
