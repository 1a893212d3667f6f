/*
Package muon encodes and decodes MuON, a line-oriented data format built
on key/value definitions, significant indentation and a small set of
scalar types. The API closely mirrors the standard encoding/json package.

Decoding into a struct:

	var data = []byte("name: MuON\nversion: 1\n")

	type Config struct {
		Name    string `muon:"name"`
		Version int    `muon:"version"`
	}

	var cfg Config
	if err := muon.Unmarshal(data, &cfg); err != nil {
		// handle error
	}

Encoding is the inverse:

	out, err := muon.Marshal(cfg)

Nested structs become indented blocks, slices become space-joined or
per-line list values, and pointer fields mark values as optional. For
streams, NewEncoder and NewDecoder wrap an io.Writer or io.Reader.

Documents carrying a schema prelude can also be decoded without a
concrete Go type, into a Value.
*/
package muon
