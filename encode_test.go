package muon_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	muon "github.com/muon-data/go-muon"
)

func TestMarshalScalars(t *testing.T) {
	type doc struct {
		B    bool   `muon:"b"`
		Uint uint32 `muon:"uint"`
		Int  int32  `muon:"int"`
	}
	out, err := muon.Marshal(doc{B: false, Uint: 7, Int: -5})
	require.NoError(t, err)
	assert.Equal(t, "b: false\nuint: 7\nint: -5\n", string(out))
}

func TestMarshalFloats(t *testing.T) {
	type doc struct {
		A float64 `muon:"a"`
		B float64 `muon:"b"`
		C float32 `muon:"c"`
	}
	out, err := muon.Marshal(doc{A: 1e15, B: 3.25, C: float32(3.25)})
	require.NoError(t, err)
	assert.Equal(t, "a: 1e+15\nb: 3.25\nc: 3.25\n", string(out))
}

func TestMarshalStrings(t *testing.T) {
	type doc struct {
		S string `muon:"s"`
		T string `muon:"t"`
	}
	out, err := muon.Marshal(doc{S: "plain value", T: "x"})
	require.NoError(t, err)
	assert.Equal(t, "s: plain value\nt: x\n", string(out))
}

func TestMarshalMultilineText(t *testing.T) {
	type doc struct {
		S string `muon:"s"`
	}
	out, err := muon.Marshal(doc{S: "a\nb"})
	require.NoError(t, err)
	assert.Equal(t, "s: a\n :>b\n", string(out))

	type wide struct {
		Text string `muon:"text"`
	}
	out, err = muon.Marshal(wide{Text: "first\nsecond\nthird"})
	require.NoError(t, err)
	assert.Equal(t, "text: first\n    :>second\n    :>third\n", string(out))
}

func TestMarshalList(t *testing.T) {
	type doc struct {
		Values []string `muon:"values"`
		Ints   []int    `muon:"ints"`
	}
	out, err := muon.Marshal(doc{Values: []string{"Hello", "World"}, Ints: []int{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "values: Hello World\nints: 1 2 3\n", string(out))
}

func TestMarshalTextList(t *testing.T) {
	type doc struct {
		List []string `muon:"list"`
	}
	out, err := muon.Marshal(doc{List: []string{"first item", "second", "third", "fourth item"}})
	require.NoError(t, err)
	assert.Equal(t, "list:=first item\n    : second third\n    :=fourth item\n", string(out))
}

func TestMarshalNested(t *testing.T) {
	type inner struct {
		Name string `muon:"name"`
		Age  int    `muon:"age"`
	}
	type doc struct {
		Person inner `muon:"person"`
	}
	out, err := muon.Marshal(doc{Person: inner{Name: "Genghis Khan", Age: 63}})
	require.NoError(t, err)
	assert.Equal(t, "person:\n  name: Genghis Khan\n  age: 63\n", string(out))
}

func TestMarshalEmptyRecord(t *testing.T) {
	type meta struct {
		Note *string `muon:"note"`
	}
	type doc struct {
		Meta meta `muon:"meta"`
	}
	out, err := muon.Marshal(doc{})
	require.NoError(t, err)
	assert.Equal(t, "meta:\n", string(out))
}

func TestMarshalListOfRecords(t *testing.T) {
	type phone struct {
		Name   string `muon:"name"`
		Number string `muon:"number"`
	}
	type doc struct {
		Phones []phone `muon:"phones"`
	}
	out, err := muon.Marshal(doc{Phones: []phone{
		{Name: "home", Number: "123"},
		{Name: "work", Number: "456"},
	}})
	require.NoError(t, err)
	want := "phones:\n  name: home\n  number: 123\nphones:\n  name: work\n  number: 456\n"
	assert.Equal(t, want, string(out))
}

func TestMarshalMapSorted(t *testing.T) {
	out, err := muon.Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb: 2\nc: 3\n", string(out))
}

func TestMarshalQuotedKeys(t *testing.T) {
	out, err := muon.Marshal(map[string]string{
		"key: with colon": "a",
		" leading space":  "b",
		"#hash":           "c",
	})
	require.NoError(t, err)
	want := "\" leading space\": b\n\"#hash\": c\n\"key: with colon\": a\n"
	assert.Equal(t, want, string(out))
}

func TestMarshalQuotedKeyEscapes(t *testing.T) {
	// a quote inside a key only needs escaping when the key is quoted
	out, err := muon.Marshal(map[string]string{`say "hi"`: "x", `"hi" there`: "y"})
	require.NoError(t, err)
	assert.Equal(t, "\"\"\"hi\"\" there\": y\nsay \"hi\": x\n", string(out))
}

func TestMarshalLinefeedKey(t *testing.T) {
	// no quoting can put a linefeed back on one line
	_, err := muon.Marshal(map[string]string{"a\nb": "x"})
	assert.Error(t, err)

	type doc struct {
		V string `muon:"a\nb"`
	}
	_, err = muon.Marshal(doc{V: "x"})
	assert.Error(t, err)
}

func TestMarshalOmitEmpty(t *testing.T) {
	type doc struct {
		Name  string `muon:"name"`
		Count int    `muon:"count,omitempty"`
		Note  string `muon:"note,omitempty"`
	}
	out, err := muon.Marshal(doc{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "name: x\n", string(out))

	out, err = muon.Marshal(doc{Name: "x", Count: 2, Note: "y"})
	require.NoError(t, err)
	assert.Equal(t, "name: x\ncount: 2\nnote: y\n", string(out))
}

func TestMarshalNilOptional(t *testing.T) {
	type doc struct {
		Name string  `muon:"name"`
		Note *string `muon:"note"`
	}
	out, err := muon.Marshal(doc{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "name: x\n", string(out))

	note := "hi"
	out, err = muon.Marshal(doc{Name: "x", Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "name: x\nnote: hi\n", string(out))
}

func TestMarshalDatetimes(t *testing.T) {
	type doc struct {
		Born muon.Date `muon:"born"`
		At   muon.Time `muon:"at"`
	}
	born, err := muon.NewDate(2019, 8, 7)
	require.NoError(t, err)
	at, err := muon.NewTime(16, 35, 21, 363_000_000)
	require.NoError(t, err)
	out, err := muon.Marshal(doc{Born: born, At: at})
	require.NoError(t, err)
	assert.Equal(t, "born: 2019-08-07\nat: 16:35:21.363\n", string(out))
}

func TestMarshalIndentOption(t *testing.T) {
	type inner struct {
		A int `muon:"a"`
	}
	type doc struct {
		R inner `muon:"r"`
	}
	out, err := muon.Marshal(doc{R: inner{A: 1}}, muon.Indent(4))
	require.NoError(t, err)
	assert.Equal(t, "r:\n    a: 1\n", string(out))

	_, err = muon.Marshal(doc{}, muon.Indent(7))
	assert.Error(t, err)
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := muon.Marshal("just a string")
	assert.Error(t, err)

	_, err = muon.Marshal(map[int]string{1: "x"})
	assert.Error(t, err)

	type doc struct {
		M [][]int `muon:"m"`
	}
	_, err = muon.Marshal(doc{M: [][]int{{1}}})
	assert.Error(t, err)
}

func TestMarshalEncoder(t *testing.T) {
	type doc struct {
		A int `muon:"a"`
	}
	var buf bytes.Buffer
	enc := muon.NewEncoder(&buf)
	require.NoError(t, enc.Encode(doc{A: 9}))
	assert.Equal(t, "a: 9\n", buf.String())
}
