package muon

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muon-data/go-muon/internal/number"
	"github.com/muon-data/go-muon/internal/token"
)

// Encoder writes MuON documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the MuON encoding of v to the stream. See the
// documentation for Marshal for details about the conversion of Go values
// into MuON.
func (e *Encoder) Encode(v any) error {
	o := defaultOptions()
	for _, opt := range e.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("muon: Encode(nil pointer)")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return &UnsupportedTypeError{Type: fmt.Sprintf("%T", v)}
	}
	es := &encodeState{nIndent: o.indent, sep: token.SepNormal}
	if err := es.value(rv); err != nil {
		return err
	}
	es.writeLinefeed()
	_, err := e.w.Write(es.buf.Bytes())
	return err
}

// encBranch is one frame of the encoding stack.
type encBranch struct {
	key  string // quoted as rendered
	list bool
}

// encodeState mirrors the decoder's stack discipline in reverse. written
// counts how many key levels of the current chain have been flushed to
// the output; keys between written and the stack depth are emitted before
// the next value, and a repeated key at the same depth becomes a blank
// key of equal width.
type encodeState struct {
	buf        bytes.Buffer
	stack      []encBranch
	written    int
	afterValue bool
	sep        token.Separator
	nIndent    int
}

func (e *encodeState) top() *encBranch {
	if len(e.stack) == 0 {
		return nil
	}
	return &e.stack[len(e.stack)-1]
}

func (e *encodeState) inList() bool {
	top := e.top()
	return top != nil && top.list
}

func (e *encodeState) push() {
	e.stack = append(e.stack, encBranch{})
}

// pop closes a branch. A record that flushed nothing still emits its key
// chain, each level as a bare "key:" line, so the empty record survives a
// round trip.
func (e *encodeState) pop() {
	if e.written < len(e.stack) {
		for i := e.written; i < len(e.stack); i++ {
			if e.stack[i].key == "" {
				continue
			}
			e.writeKey(i)
			e.buf.WriteByte(':')
			e.afterValue = true
		}
		e.written = len(e.stack)
	}
	e.stack = e.stack[:len(e.stack)-1]
	// a list element may repeat the parent key, so its levels must be
	// written again
	if e.inList() && e.written > len(e.stack)-1 {
		e.written = len(e.stack) - 1
	}
}

func (e *encodeState) setKey(key string) error {
	// quoting cannot represent a linefeed inside a key
	if strings.ContainsRune(key, '\n') {
		return fmt.Errorf("muon: cannot encode key %q", key)
	}
	top := e.top()
	if top == nil {
		return nil
	}
	top.key = quoteKey(key)
	if n := len(e.stack) - 1; e.written > n {
		e.written = n
	}
	e.writeLinefeed()
	return nil
}

func (e *encodeState) writeLinefeed() {
	if e.afterValue {
		e.buf.WriteByte('\n')
		e.afterValue = false
	}
}

// writeKey emits the line prefix for stack level i: a linefeed if a value
// line is open, the indentation, and the rendered key.
func (e *encodeState) writeKey(i int) {
	e.writeLinefeed()
	for n := 0; n < i*e.nIndent; n++ {
		e.buf.WriteByte(' ')
	}
	e.buf.WriteString(e.stack[i].key)
}

// writeBlankKey emits spaces matching the rendered width of the current
// key, keeping continuation rows column-aligned.
func (e *encodeState) writeBlankKey() {
	e.writeLinefeed()
	n := (len(e.stack) - 1) * e.nIndent
	if top := e.top(); top != nil {
		n += utf8.RuneCountInString(top.key)
	}
	for i := 0; i < n; i++ {
		e.buf.WriteByte(' ')
	}
}

// writeKeys flushes the pending key chain, or a blank key when the chain
// is already flushed, then the active separator.
func (e *encodeState) writeKeys() {
	n := len(e.stack)
	if e.written == n {
		e.writeBlankKey()
	} else {
		for i := e.written; i < n; i++ {
			e.writeKey(i)
			if i+1 < n {
				e.buf.WriteString(":\n")
			}
		}
		e.written = n
	}
	e.buf.WriteString(e.sep.String())
}

// writeItem emits one value token. Items on an open value line with the
// normal separator are space-joined.
func (e *encodeState) writeItem(item string) {
	if e.afterValue && e.sep == token.SepNormal {
		e.buf.WriteByte(' ')
	} else {
		e.writeKeys()
	}
	e.buf.WriteString(item)
	e.afterValue = true
}

// writeText emits a text value. A list element that is empty or contains a
// space or linefeed switches to the verbatim separator so its boundaries
// survive a round trip; embedded linefeeds become append rows.
func (e *encodeState) writeText(v string) {
	if e.inList() && (v == "" || strings.ContainsAny(v, " \n")) {
		e.sep = token.SepTextValue
	}
	parts := strings.Split(v, "\n")
	for i, part := range parts {
		e.writeItem(part)
		if i+1 < len(parts) {
			e.writeLinefeed()
			e.sep = token.SepTextAppend
		} else if e.sep != token.SepNormal {
			e.writeLinefeed()
		}
	}
	e.sep = token.SepNormal
}

func (e *encodeState) value(rv reflect.Value) error {
	if m, ok := marshalerOf(rv); ok {
		text, err := m.MarshalText()
		if err != nil {
			return err
		}
		e.writeText(string(text))
		return nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return fmt.Errorf("muon: cannot encode nil value")
		}
		return e.value(rv.Elem())
	case reflect.Bool:
		e.writeItem(strconv.FormatBool(rv.Bool()))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.writeItem(strconv.FormatInt(rv.Int(), 10))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.writeItem(strconv.FormatUint(rv.Uint(), 10))
		return nil
	case reflect.Float32, reflect.Float64:
		e.writeItem(number.FormatFloat(rv.Float(), rv.Type().Bits()))
		return nil
	case reflect.String:
		e.writeText(rv.String())
		return nil
	case reflect.Struct:
		return e.structValue(rv)
	case reflect.Map:
		return e.mapValue(rv)
	case reflect.Slice:
		return e.sliceValue(rv)
	default:
		return &UnsupportedTypeError{Type: rv.Type().String()}
	}
}

func (e *encodeState) structValue(rv reflect.Value) error {
	e.push()
	for _, f := range typeFields(rv.Type()) {
		fv, ok := fieldValue(rv, f.index)
		if !ok {
			continue // nil embedded pointer
		}
		if skipField(fv, f.omitEmpty) {
			continue
		}
		if err := e.setKey(f.name); err != nil {
			return err
		}
		if err := e.value(fv); err != nil {
			return err
		}
	}
	e.pop()
	return nil
}

func (e *encodeState) mapValue(rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return &UnsupportedTypeError{Type: rv.Type().String()}
	}
	e.push()
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	kt := rv.Type().Key()
	for _, k := range keys {
		mv := rv.MapIndex(reflect.ValueOf(k).Convert(kt))
		if skipField(mv, false) {
			continue
		}
		if err := e.setKey(k); err != nil {
			return err
		}
		if err := e.value(mv); err != nil {
			return err
		}
	}
	e.pop()
	return nil
}

func (e *encodeState) sliceValue(rv reflect.Value) error {
	top := e.top()
	if top == nil || rv.Type().Elem().Kind() == reflect.Slice {
		return &UnsupportedTypeError{Type: rv.Type().String()}
	}
	top.list = true
	defer func() { top.list = false }()
	for i := 0; i < rv.Len(); i++ {
		if err := e.value(rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// skipField reports whether a field is absent: a nil pointer or
// interface, an empty list, a nil dictionary, or any empty value when the
// omitempty tag option is set.
func skipField(rv reflect.Value, omitEmpty bool) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
	case reflect.Slice:
		if rv.Len() == 0 {
			return true
		}
	case reflect.Map:
		if rv.IsNil() {
			return true
		}
	}
	if omitEmpty {
		return isEmptyValue(rv)
	}
	return false
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// fieldValue walks an index path without allocating, reporting false when
// a nil embedded pointer is crossed.
func fieldValue(rv reflect.Value, index []int) (reflect.Value, bool) {
	for _, i := range index {
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(i)
	}
	return rv, true
}

func marshalerOf(rv reflect.Value) (encoding.TextMarshaler, bool) {
	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		return nil, false
	}
	if m, ok := rv.Interface().(encoding.TextMarshaler); ok {
		return m, true
	}
	if rv.CanAddr() {
		if m, ok := rv.Addr().Interface().(encoding.TextMarshaler); ok {
			return m, true
		}
	}
	return nil, false
}

// quoteKey renders a key, quoting any that could be misread as structure.
func quoteKey(k string) string {
	if !quotingRequired(k) {
		return k
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range k {
		b.WriteRune(c)
		if c == '"' {
			b.WriteByte('"')
		}
	}
	b.WriteByte('"')
	return b.String()
}

// colonHomoglyphs are characters a reader could mistake for the key/value
// separator.
const colonHomoglyphs = "ː˸։׃∶꞉︓﹕："

func quotingRequired(k string) bool {
	if strings.HasPrefix(k, " ") || strings.HasPrefix(k, `"`) || strings.HasPrefix(k, "#") {
		return true
	}
	if strings.ContainsRune(k, ':') || strings.ContainsAny(k, colonHomoglyphs) {
		return true
	}
	for _, c := range k {
		if c < ' ' || c == 0x7f {
			return true
		}
	}
	return false
}
