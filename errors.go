package muon

import (
	"errors"
	"fmt"

	"github.com/muon-data/go-muon/internal/token"
)

// Sentinel errors reported while parsing. Test with errors.Is; decode
// failures wrap them in a *ParseError carrying the offending line.
var (
	// ErrMissingKey reports a line starting with a colon.
	ErrMissingKey = errors.New("muon: missing key")
	// ErrMissingSeparator reports a line with no key/value separator.
	ErrMissingSeparator = errors.New("muon: missing separator")
	// ErrInvalidSeparator reports a malformed key/value separator.
	ErrInvalidSeparator = errors.New("muon: invalid separator")
	// ErrMissingLinefeed reports input whose final line is unterminated.
	ErrMissingLinefeed = errors.New("muon: missing linefeed")
	// ErrInvalidIndent reports inconsistent indentation.
	ErrInvalidIndent = errors.New("muon: invalid indent")
	// ErrUnexpectedSchemaSeparator reports a ":::" outside a schema prelude.
	ErrUnexpectedSchemaSeparator = errors.New("muon: unexpected schema separator")
	// ErrUnexpectedKey reports a key not declared by the target type.
	ErrUnexpectedKey = errors.New("muon: unexpected key")
	// ErrMissingField reports an absent required field.
	ErrMissingField = errors.New("muon: missing field")
	// ErrInvalidSubstitute reports an inline value where none is allowed.
	ErrInvalidSubstitute = errors.New("muon: invalid substitute")
	// ErrUnexpectedEnd reports input ending before a value completed.
	ErrUnexpectedEnd = errors.New("muon: unexpected end of input")

	// ErrExpectedBool reports a boolean literal other than true or false.
	ErrExpectedBool = errors.New("muon: expected bool")
	// ErrExpectedChar reports a char value not exactly one character.
	ErrExpectedChar = errors.New("muon: expected char")
	// ErrExpectedInt reports an unparseable or out-of-range integer.
	ErrExpectedInt = errors.New("muon: expected int")
	// ErrExpectedNumber reports an unparseable number.
	ErrExpectedNumber = errors.New("muon: expected number")
	// ErrExpectedDate reports an unparseable date.
	ErrExpectedDate = errors.New("muon: expected date")
	// ErrExpectedTime reports an unparseable time.
	ErrExpectedTime = errors.New("muon: expected time")
	// ErrExpectedDateTime reports an unparseable datetime.
	ErrExpectedDateTime = errors.New("muon: expected datetime")
	// ErrExpectedTimeOffset reports an unparseable time offset.
	ErrExpectedTimeOffset = errors.New("muon: expected time offset")

	// ErrInvalidType reports an unusable schema type annotation.
	ErrInvalidType = errors.New("muon: invalid schema type")
	// ErrInvalidDefault reports a schema default that does not parse as
	// the declared type.
	ErrInvalidDefault = errors.New("muon: invalid schema default")
)

// ParseError wraps a sentinel error with the line that produced it.
type ParseError struct {
	Err  error
	Line string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s in line %q", e.Err, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseErr wraps err with the offending line.
func parseErr(err error, line string) error {
	return &ParseError{Err: err, Line: line}
}

// kindErr maps an internal error kind to its public sentinel.
func kindErr(kind token.ErrKind) error {
	switch kind {
	case token.ErrMissingKey:
		return ErrMissingKey
	case token.ErrMissingSeparator:
		return ErrMissingSeparator
	case token.ErrInvalidSeparator:
		return ErrInvalidSeparator
	case token.ErrMissingLinefeed:
		return ErrMissingLinefeed
	case token.ErrInvalidIndent:
		return ErrInvalidIndent
	case token.ErrUnexpectedSchemaSeparator:
		return ErrUnexpectedSchemaSeparator
	default:
		return fmt.Errorf("muon: %s", kind)
	}
}

// An UnsupportedTypeError is returned when encoding or decoding meets a Go
// type the format cannot represent.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return "muon: unsupported type: " + e.Type
}
