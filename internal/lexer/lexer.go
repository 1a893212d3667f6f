// Package lexer classifies raw MuON lines. Tokenization is purely local:
// each line is scanned on its own, with no state carried between lines.
package lexer

import (
	"strings"

	"github.com/muon-data/go-muon/internal/token"
)

// Kind is the classification of one raw line.
type Kind int

const (
	// Blank is an empty line.
	Blank Kind = iota
	// Comment is a line whose first non-space character is '#'.
	Comment
	// SchemaSeparator is a line that is exactly ":::".
	SchemaSeparator
	// Definition is a key/separator/value line.
	Definition
	// Invalid is a malformed line.
	Invalid
)

// Line is one classified line of input.
//
// For Definition lines, Key holds the raw key exactly as written, leading
// indentation and quoting included; the resolver strips both.
type Line struct {
	Kind  Kind
	Text  string
	Key   string
	Sep   token.Separator
	Value string
	Err   token.ErrKind
}

// Character-scanning states.
const (
	stStart = iota
	stKey
	stQuoteOdd
	stQuoteEven
	stColon
)

// Scan classifies a single line, which must not contain a linefeed.
func Scan(line string) Line {
	if line == "" {
		return Line{Kind: Blank, Text: line}
	}
	if line == ":::" {
		return Line{Kind: SchemaSeparator, Text: line}
	}
	st := stStart
	off := 0      // byte offset of the separator colon
	blank := true // quoted key seen no content yet
	for i, c := range line {
		switch st {
		case stStart:
			switch c {
			case ' ':
				// leading spaces: indentation or a blank continuation key
			case '#':
				return Line{Kind: Comment, Text: line}
			case ':':
				if i == 0 {
					return invalid(line, token.ErrMissingKey)
				}
				st, off = stColon, i
			case '"':
				st = stQuoteOdd
			default:
				st = stKey
			}
		case stKey:
			if c == ':' {
				st, off = stColon, i
			}
		case stQuoteOdd:
			if c == '"' {
				st = stQuoteEven
			} else {
				blank = false
			}
		case stQuoteEven:
			switch c {
			case '"':
				// doubled quote, a literal '"' inside the key
				st, blank = stQuoteOdd, false
			case ':':
				if blank {
					return invalid(line, token.ErrInvalidSeparator)
				}
				st, off = stColon, i
			default:
				return invalid(line, token.ErrInvalidSeparator)
			}
		case stColon:
			return definition(line, off, c)
		}
	}
	// The line ended without settling the separator. Feeding a virtual
	// trailing space lets a bare "key:" line resolve to an empty value.
	if st == stColon {
		return definition(line, off, ' ')
	}
	if st == stQuoteEven {
		// a closed quoted key must be followed by the separator
		return invalid(line, token.ErrInvalidSeparator)
	}
	return invalid(line, token.ErrMissingSeparator)
}

// definition builds a Definition line from the colon offset and the
// character following the colon, which selects the separator.
func definition(line string, off int, c rune) Line {
	var sep token.Separator
	switch c {
	case ' ':
		sep = token.SepNormal
	case '>':
		sep = token.SepTextAppend
	case '=':
		sep = token.SepTextValue
	default:
		return invalid(line, token.ErrInvalidSeparator)
	}
	value := ""
	if off+2 < len(line) {
		value = line[off+2:]
	}
	return Line{
		Kind:  Definition,
		Text:  line,
		Key:   line[:off],
		Sep:   sep,
		Value: value,
	}
}

func invalid(line string, kind token.ErrKind) Line {
	return Line{Kind: Invalid, Text: line, Err: kind}
}

// LineIter iterates over the lines of a document. Every line must be
// linefeed-terminated, the final one included; a trailing fragment yields a
// MissingLinefeed line and ends iteration.
type LineIter struct {
	input string
}

// NewLineIter returns an iterator over the lines of input.
func NewLineIter(input string) *LineIter {
	return &LineIter{input: input}
}

// Next returns the next classified line, or false when input is exhausted.
func (it *LineIter) Next() (Line, bool) {
	if it.input == "" {
		return Line{}, false
	}
	if i := strings.IndexByte(it.input, '\n'); i >= 0 {
		line := it.input[:i]
		it.input = it.input[i+1:]
		return Scan(line), true
	}
	line := it.input
	it.input = ""
	return Line{Kind: Invalid, Text: line, Err: token.ErrMissingLinefeed}, true
}
