package attributes

import "strings"

// MissingPolicy controls how a reference to an undefined attribute is rendered.
type MissingPolicy uint8

const (
	// MissingSkip leaves the reference in the output untouched.
	MissingSkip MissingPolicy = iota
	// MissingDrop removes the reference.
	MissingDrop
	// MissingDropLine removes the whole line holding the reference.
	MissingDropLine
	// MissingWarn behaves like MissingSkip and reports a diagnostic.
	MissingWarn
)

// ParseMissingPolicy reads the attribute-missing value. Unknown values fall
// back to MissingSkip.
func ParseMissingPolicy(value string) MissingPolicy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "drop":
		return MissingDrop
	case "drop-line":
		return MissingDropLine
	case "warn":
		return MissingWarn
	default:
		return MissingSkip
	}
}

func (p MissingPolicy) String() string {
	switch p {
	case MissingDrop:
		return "drop"
	case MissingDropLine:
		return "drop-line"
	case MissingWarn:
		return "warn"
	default:
		return "skip"
	}
}

// UndefinedPolicy controls how {set:name!} renders the line it appears on.
type UndefinedPolicy uint8

const (
	UndefinedDropLine UndefinedPolicy = iota
	UndefinedDrop
)

// ParseUndefinedPolicy reads the attribute-undefined value.
func ParseUndefinedPolicy(value string) UndefinedPolicy {
	if strings.EqualFold(strings.TrimSpace(value), "drop") {
		return UndefinedDrop
	}
	return UndefinedDropLine
}

func (p UndefinedPolicy) String() string {
	if p == UndefinedDrop {
		return "drop"
	}
	return "drop-line"
}

// Policies returns the reference policies currently configured in the table.
func (t *Table) Policies() (MissingPolicy, UndefinedPolicy) {
	return ParseMissingPolicy(t.Value("attribute-missing", "")), ParseUndefinedPolicy(t.Value("attribute-undefined", ""))
}
