package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muon-data/go-muon/internal/token"
)

func TestScanDefinitions(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		sep   token.Separator
		value string
	}{
		{"key: value", "key", token.SepNormal, "value"},
		{"key:=value", "key", token.SepTextValue, "value"},
		{"key:>value", "key", token.SepTextAppend, "value"},
		{"key:", "key", token.SepNormal, ""},
		{"key: ", "key", token.SepNormal, ""},
		{"key:>", "key", token.SepTextAppend, ""},
		{"key:=", "key", token.SepTextValue, ""},
		{"  indented: value", "  indented", token.SepNormal, "value"},
		{"   : continuation", "   ", token.SepNormal, "continuation"},
		{`"quoted: key": value`, `"quoted: key"`, token.SepNormal, "value"},
		{`"""key""": value`, `"""key"""`, token.SepNormal, "value"},
		{"key: value: with colon", "key", token.SepNormal, "value: with colon"},
		{"key: # not a comment", "key", token.SepNormal, "# not a comment"},
		{"key:  spaced", "key", token.SepNormal, " spaced"},
	}
	for _, tt := range tests {
		ln := Scan(tt.line)
		require.Equal(t, Definition, ln.Kind, "line %q", tt.line)
		assert.Equal(t, tt.key, ln.Key, "line %q", tt.line)
		assert.Equal(t, tt.sep, ln.Sep, "line %q", tt.line)
		assert.Equal(t, tt.value, ln.Value, "line %q", tt.line)
	}
}

func TestScanKinds(t *testing.T) {
	assert.Equal(t, Blank, Scan("").Kind)
	assert.Equal(t, SchemaSeparator, Scan(":::").Kind)
	assert.Equal(t, Comment, Scan("# a comment").Kind)
	assert.Equal(t, Comment, Scan("   # indented comment").Kind)
	assert.Equal(t, Comment, Scan("#").Kind)
	// four or more colons is an ordinary key
	ln := Scan("::::")
	assert.Equal(t, Invalid, ln.Kind)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		line string
		err  token.ErrKind
	}{
		{": value", token.ErrMissingKey},
		{":value", token.ErrMissingKey},
		{"no separator", token.ErrMissingSeparator},
		{"   ", token.ErrMissingSeparator},
		{`"unterminated: value`, token.ErrMissingSeparator},
		{"key:value", token.ErrInvalidSeparator},
		{"key:\tvalue", token.ErrInvalidSeparator},
		{`"key"x: value`, token.ErrInvalidSeparator},
		{`"key"`, token.ErrInvalidSeparator},
		{`"": value`, token.ErrInvalidSeparator},
	}
	for _, tt := range tests {
		ln := Scan(tt.line)
		require.Equal(t, Invalid, ln.Kind, "line %q", tt.line)
		assert.Equal(t, tt.err, ln.Err, "line %q", tt.line)
	}
}

func TestLineIter(t *testing.T) {
	it := NewLineIter("a: 1\nb: 2\n")
	ln, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "a", ln.Key)
	ln, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, "b", ln.Key)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestLineIterMissingLinefeed(t *testing.T) {
	it := NewLineIter("a: 1\nb: 2")
	ln, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, Definition, ln.Kind)
	ln, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, Invalid, ln.Kind)
	assert.Equal(t, token.ErrMissingLinefeed, ln.Err)
	assert.Equal(t, "b: 2", ln.Text)
}
