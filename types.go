package pname

// ValidateInput is the input for the validate_name tool.
type ValidateInput struct {
	Name string `json:"name"`
}

// ValidateOutput is the output of the validate_name tool. Reason and Part are
// set when the name is rejected for its format.
type ValidateOutput struct {
	Valid     bool   `json:"valid"`
	Canonical string `json:"canonical,omitempty"`
	Part      string `json:"part,omitempty"` // "family", "given"
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ParseInput is the input for the parse_name tool.
type ParseInput struct {
	Name string `json:"name"`
}

// ParseOutput is the output of the parse_name tool. All errors are placed in
// Error, with matching hint messages appended.
type ParseOutput struct {
	Family     string   `json:"family,omitempty"`
	Given      string   `json:"given,omitempty"`
	GivenNames []string `json:"given_names,omitempty"`
	Canonical  string   `json:"canonical,omitempty"`
	Display    string   `json:"display,omitempty"`
	Hash       uint32   `json:"hash"`
	Error      string   `json:"error,omitempty"`
}

// CompareInput is the input for the compare_names tool.
type CompareInput struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CompareOutput is the output of the compare_names tool. Result is -1, 0 or 1.
type CompareOutput struct {
	Result int    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// SortInput is the input for the sort_names tool.
type SortInput struct {
	Names []string `json:"names"`
}

// InvalidName reports one rejected entry of a SortInput.
type InvalidName struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// SortOutput is the output of the sort_names tool. Names holds the valid
// entries in canonical form and sorted order; Display is parallel to Names.
type SortOutput struct {
	Names   []string      `json:"names"`
	Display []string      `json:"display"`
	Invalid []InvalidName `json:"invalid,omitempty"`
	Error   string        `json:"error,omitempty"`
}
