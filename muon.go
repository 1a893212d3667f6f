package muon

import "bytes"

// Marshal returns the MuON encoding of v.
//
// The top-level value must be a struct or a map with string keys, since a
// MuON document is a record. Struct fields map to definitions in
// declaration order; map entries are written in sorted key order. Field
// names can be overridden with a "muon:" struct tag, and the "omitempty"
// tag option skips fields holding their type's zero value. Types
// implementing encoding.TextMarshaler, including Date, Time, DateTime and
// TimeOffset, are written as text.
//
// Nil pointers, empty slices and nil maps are absent: they produce no
// output at all.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the MuON-encoded data and stores the result in the
// value pointed to by v.
//
// The target must be a non-nil pointer to a struct, a map with string
// keys, or a Value. Struct fields are matched by exact name, or by the
// name given in a "muon:" struct tag. A pointer field is optional: it is
// left nil when its key is absent. Slice fields collect list values and
// are empty when absent. Any other field with no definition is an error
// wrapping ErrMissingField, and a key the target does not declare is an
// error wrapping ErrUnexpectedKey. Types implementing
// encoding.TextUnmarshaler are decoded from text.
//
// Decoding into a *Value requires the document to carry a schema prelude.
//
// All parse failures are fatal and return a *ParseError wrapping one of
// the sentinel errors of this package.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return unmarshal(data, v, opts)
}
