package hint

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Rule pairs an error message pattern with the guidance shown when it matches.
type Rule struct {
	Pattern string
	Message string
}

type compiledRule struct {
	pattern *regexp.Regexp
	message string
}

// Matcher attaches guidance to rejection messages.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles rules in order. Returns an error on invalid regex patterns.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("hint: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{pattern: re, message: r.Message})
	}
	return &Matcher{rules: compiled}, nil
}

// Hints returns the message of every rule matching errMsg, top to bottom,
// without duplicates.
func (m *Matcher) Hints(errMsg string) []string {
	var hints []string
	for _, rule := range m.rules {
		if !rule.pattern.MatchString(errMsg) {
			continue
		}
		if !slices.Contains(hints, rule.message) {
			hints = append(hints, rule.message)
		}
	}
	return hints
}

// Annotate appends hints matching errMsg to errMsg, one per line. errMsg is
// returned unchanged when nothing matches.
func (m *Matcher) Annotate(errMsg string) string {
	return m.AnnotateSubject(errMsg, errMsg)
}

// AnnotateSubject appends to errMsg the hints whose patterns match subject.
// Rules never see errMsg itself.
func (m *Matcher) AnnotateSubject(errMsg, subject string) string {
	hints := m.Hints(subject)
	if len(hints) == 0 {
		return errMsg
	}
	var sb strings.Builder
	sb.WriteString(errMsg)
	for _, h := range hints {
		sb.WriteString("\nhint: ")
		sb.WriteString(h)
	}
	return sb.String()
}

