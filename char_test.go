package muon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	muon "github.com/muon-data/go-muon"
)

func TestCharRoundTrip(t *testing.T) {
	type doc struct {
		C muon.Char `muon:"c"`
	}
	for _, c := range []muon.Char{'a', 'é', '🦀', ' ', '\n'} {
		out, err := muon.Marshal(doc{C: c})
		require.NoError(t, err)
		var got doc
		require.NoError(t, muon.Unmarshal(out, &got), "encoded %q", out)
		assert.Equal(t, c, got.C, "encoded %q", out)
	}
}

func TestCharEncoding(t *testing.T) {
	type doc struct {
		C muon.Char `muon:"c"`
	}
	out, err := muon.Marshal(doc{C: 'x'})
	require.NoError(t, err)
	assert.Equal(t, "c: x\n", string(out))

	// a linefeed char becomes an empty value plus an empty append row
	out, err = muon.Marshal(doc{C: '\n'})
	require.NoError(t, err)
	assert.Equal(t, "c: \n :>\n", string(out))
}

func TestCharInvalid(t *testing.T) {
	type doc struct {
		C muon.Char `muon:"c"`
	}
	var d doc
	for _, in := range []string{"c: ab\n", "c:\n"} {
		err := muon.Unmarshal([]byte(in), &d)
		assert.ErrorIs(t, err, muon.ErrExpectedChar, "input %q", in)
	}
}
