// Package token defines the core units shared by the MuON lexer, resolver
// and mapper: key/value separators, resolved definitions, and the kinds of
// lexical and structural errors a document can carry.
package token

import "unicode/utf8"

// Separator is the token between a key and its value.
type Separator int

const (
	// SepNormal is the ": " separator.
	SepNormal Separator = iota
	// SepTextAppend is the ":>" separator, appending a line to a text value.
	SepTextAppend
	// SepTextValue is the ":=" separator, holding one verbatim text line.
	SepTextValue
)

// String returns the separator as written in a document.
func (s Separator) String() string {
	switch s {
	case SepTextAppend:
		return ":>"
	case SepTextValue:
		return ":="
	default:
		return ": "
	}
}

// Def is one resolved key/separator/value definition.
//
// Key holds the unquoted key text. Width is the rendered character width of
// the line's key as written, indentation and quoting included; a blank-key
// continuation row must match it exactly.
type Def struct {
	Depth int
	Key   string
	Sep   Separator
	Value string
	Width int
}

// SplitList splits the definition at the first space of its value, returning
// a definition holding the first list element and, if anything remains, a
// definition holding the rest. Used for lazy space-splitting of list values.
func (d Def) SplitList() (Def, *Def) {
	for i := 0; i < len(d.Value); i++ {
		if d.Value[i] == ' ' {
			head, tail := d, d
			head.Value = d.Value[:i]
			tail.Value = d.Value[i+1:]
			return head, &tail
		}
	}
	return d, nil
}

// ErrKind identifies a lexical or structural parse error.
type ErrKind int

const (
	ErrNone ErrKind = iota
	// ErrMissingKey is a line starting with ':'.
	ErrMissingKey
	// ErrMissingSeparator is a line with no key/value separator.
	ErrMissingSeparator
	// ErrInvalidSeparator is a malformed separator or quoted key.
	ErrInvalidSeparator
	// ErrMissingLinefeed is a final line with no trailing linefeed.
	ErrMissingLinefeed
	// ErrInvalidIndent is indentation off the document's indent unit.
	ErrInvalidIndent
	// ErrUnexpectedSchemaSeparator is a ":::" outside a schema prelude.
	ErrUnexpectedSchemaSeparator
)

func (k ErrKind) String() string {
	switch k {
	case ErrMissingKey:
		return "missing key"
	case ErrMissingSeparator:
		return "missing separator"
	case ErrInvalidSeparator:
		return "invalid separator"
	case ErrMissingLinefeed:
		return "missing linefeed"
	case ErrInvalidIndent:
		return "invalid indent"
	case ErrUnexpectedSchemaSeparator:
		return "unexpected schema separator"
	}
	return "no error"
}

// Width returns the rendered character width of a raw key, indentation
// included.
func Width(rawKey string) int {
	return utf8.RuneCountInString(rawKey)
}
