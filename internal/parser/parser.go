// Package parser resolves classified lines into definitions: indentation is
// converted to nesting depth, blank continuation keys are bound to the
// definition they extend, and a schema prelude is split off from the data.
package parser

import (
	"strings"

	"github.com/muon-data/go-muon/internal/lexer"
	"github.com/muon-data/go-muon/internal/token"
)

// Schema prelude states.
const (
	schemaNone = iota
	schemaOpen
	schemaClosed
)

// DefIter iterates over the definitions of a document. It follows the
// bufio.Scanner convention: Next reports whether a definition is available,
// and Err distinguishes end of input from a parse failure.
type DefIter struct {
	lines   *lexer.LineIter
	unit    int // spaces per indent level, 0 until learned
	prev    token.Def
	hasPrev bool
	def     token.Def
	err     token.ErrKind
	errLine string
	schema  []token.Def
	state   int
	started bool // a data definition has been produced
}

// NewDefIter returns a definition iterator over input.
func NewDefIter(input string) *DefIter {
	return &DefIter{lines: lexer.NewLineIter(input)}
}

// Next advances to the next data definition. It returns false at end of
// input or on error; check Err to tell the two apart.
func (it *DefIter) Next() bool {
	if it.err != token.ErrNone {
		return false
	}
	for {
		ln, ok := it.lines.Next()
		if !ok {
			return false
		}
		switch ln.Kind {
		case lexer.Blank, lexer.Comment:
			// skipped
		case lexer.Invalid:
			return it.fail(ln.Err, ln.Text)
		case lexer.SchemaSeparator:
			switch {
			case it.state == schemaNone && !it.started:
				it.state = schemaOpen
			case it.state == schemaOpen:
				it.state = schemaClosed
			default:
				return it.fail(token.ErrUnexpectedSchemaSeparator, ln.Text)
			}
		case lexer.Definition:
			def, kind := it.resolve(ln)
			if kind != token.ErrNone {
				return it.fail(kind, ln.Text)
			}
			it.prev, it.hasPrev = def, true
			if it.state == schemaOpen {
				it.schema = append(it.schema, def)
				continue
			}
			it.started = true
			it.def = def
			return true
		}
	}
}

// Def returns the definition found by the last call to Next.
func (it *DefIter) Def() token.Def { return it.def }

// Err returns the error that stopped iteration, or ErrNone at end of input.
func (it *DefIter) Err() token.ErrKind { return it.err }

// Line returns the raw text of the line that stopped iteration.
func (it *DefIter) Line() string { return it.errLine }

// Schema returns the definitions of the schema prelude, if one was present.
func (it *DefIter) Schema() []token.Def { return it.schema }

func (it *DefIter) fail(kind token.ErrKind, line string) bool {
	it.err = kind
	it.errLine = line
	return false
}

// resolve turns a definition line into a token.Def, learning the indent
// unit from the first indented key.
func (it *DefIter) resolve(ln lexer.Line) (token.Def, token.ErrKind) {
	rawKey := ln.Key
	if strings.Trim(rawKey, " ") == "" {
		// A blank key continues the previous definition. Its width must
		// match the rendered width of the key it continues.
		if !it.hasPrev || len(rawKey) != it.prev.Width {
			return token.Def{}, token.ErrInvalidIndent
		}
		def := it.prev
		def.Sep = ln.Sep
		def.Value = ln.Value
		return def, token.ErrNone
	}
	spaces := 0
	for spaces < len(rawKey) && rawKey[spaces] == ' ' {
		spaces++
	}
	depth := 0
	if spaces > 0 {
		if it.unit == 0 {
			if spaces < 2 || spaces > 4 {
				return token.Def{}, token.ErrInvalidIndent
			}
			it.unit = spaces
		}
		if spaces%it.unit != 0 {
			return token.Def{}, token.ErrInvalidIndent
		}
		depth = spaces / it.unit
	}
	return token.Def{
		Depth: depth,
		Key:   unquote(rawKey[spaces:]),
		Sep:   ln.Sep,
		Value: ln.Value,
		Width: token.Width(rawKey),
	}, token.ErrNone
}

// unquote strips surrounding quotes from a key and collapses doubled quotes.
// The lexer guarantees a key starting with a quote also ends with one.
func unquote(key string) string {
	if !strings.HasPrefix(key, `"`) {
		return key
	}
	return strings.ReplaceAll(key[1:len(key)-1], `""`, `"`)
}
