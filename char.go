package muon

import "unicode/utf8"

// Char is a single Unicode scalar value. A linefeed character is written
// as an empty value followed by an empty append row.
type Char rune

func (c Char) String() string { return string(rune(c)) }

// MarshalText implements encoding.TextMarshaler.
func (c Char) MarshalText() ([]byte, error) {
	if !utf8.ValidRune(rune(c)) {
		return nil, ErrExpectedChar
	}
	return []byte(string(rune(c))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Char) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	if size == 0 || size != len(text) || (r == utf8.RuneError && size == 1) {
		return ErrExpectedChar
	}
	*c = Char(r)
	return nil
}
