package pname

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is the only error kind the core produces. Every
// *FormatError unwraps to it.
var ErrInvalidFormat = errors.New("invalid input syntax for type personname")

// Part identifies which side of the comma a validation failure refers to.
type Part string

const (
	PartFamily Part = "family"
	PartGiven  Part = "given"
)

// Reason describes why a string was rejected.
type Reason string

const (
	ReasonEmpty            Reason = "empty input"
	ReasonMissingComma     Reason = "missing comma between the name parts"
	ReasonMultipleCommas   Reason = "more than one comma"
	ReasonEmptyPart        Reason = "is empty"
	ReasonLeadingSpace     Reason = "starts with a space"
	ReasonLowercase        Reason = "does not start with an uppercase letter"
	ReasonWordLowercase    Reason = "has a word that does not start with an uppercase letter"
	ReasonInvalidCharacter Reason = "contains a character other than a letter, hyphen, apostrophe or space"
	ReasonDoubleSpace      Reason = "contains consecutive spaces"
	ReasonTrailingSpace    Reason = "ends with a space"
	ReasonShortWord        Reason = "contains a word shorter than two letters"
	ReasonPattern          Reason = "does not match the name pattern"
	ReasonTooLong          Reason = "exceeds the maximum name length"
)

// FormatError reports a string that failed validation. The input is carried
// verbatim for diagnostics.
type FormatError struct {
	Input  string
	Policy Policy
	Part   Part // empty when the failure is not specific to one side
	Reason Reason
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrInvalidFormat, e.Input, e.Problem())
}

// Problem describes the violation without the rejected input, e.g.
// "given name does not start with an uppercase letter".
func (e *FormatError) Problem() string {
	if e.Part != "" {
		return string(e.Part) + " name " + string(e.Reason)
	}
	return string(e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}
