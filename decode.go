package muon

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/muon-data/go-muon/internal/number"
	"github.com/muon-data/go-muon/internal/parser"
	"github.com/muon-data/go-muon/internal/token"
)

// Decoder reads and decodes MuON documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options can be provided to configure decoding, such as
// setting a maximum nesting depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads a MuON document from its input and stores it in the value
// pointed to by v. See the documentation for Unmarshal for details about
// the conversion of MuON into a Go value.
//
// Note: this is a non-streaming implementation. It reads the entire
// reader into memory before parsing.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("muon: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	return unmarshal(data, v, d.opts)
}

func unmarshal(data []byte, v any, opts []Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return err
		}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("muon: Unmarshal target must be a non-nil pointer")
	}
	d := &decodeState{defs: parser.NewDefIter(string(data)), opts: &o}
	if val, ok := v.(*Value); ok {
		return d.decodeDynamic(val)
	}
	if !rootable(rv.Type().Elem()) {
		return &UnsupportedTypeError{Type: rv.Type().Elem().String()}
	}
	// input left over once the root record closes is not consumed and not
	// an error
	return d.value(rv.Elem())
}

// rootable reports whether a document can decode into t. A document is
// always a record, so the top-level value must be a struct or a map.
func rootable(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct || t.Kind() == reflect.Map
}

// branch is one frame of the decoding stack, opened per nested record or
// dictionary.
type branch struct {
	fields  []field // nil for a dictionary
	visited []bool
	key     string
	list    bool
	fresh   bool // no field consumed yet; substitution still possible
}

// decodeState drives the definition stream against a Go value. It holds
// one definition of lookahead so indent and key checks can run before a
// definition is consumed.
type decodeState struct {
	defs  *parser.DefIter
	def   *token.Def
	err   error
	stack []*branch
	opts  *options
}

// peek returns the pending definition without consuming it, or nil at end
// of input.
func (d *decodeState) peek() (*token.Def, error) {
	if d.def == nil && d.err == nil {
		if d.defs.Next() {
			def := d.defs.Def()
			d.def = &def
		} else if kind := d.defs.Err(); kind != token.ErrNone {
			d.err = parseErr(kindErr(kind), d.defs.Line())
		}
	}
	return d.def, d.err
}

func (d *decodeState) top() *branch {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}

func (d *decodeState) inList() bool {
	top := d.top()
	return top != nil && top.list
}

func (d *decodeState) push(fields []field) error {
	if len(d.stack) >= d.opts.maxDepth {
		return fmt.Errorf("muon: exceeded maximum depth of %d", d.opts.maxDepth)
	}
	var visited []bool
	if fields != nil {
		visited = make([]bool, len(fields))
	}
	d.stack = append(d.stack, &branch{
		fields:  fields,
		visited: visited,
		fresh:   len(d.stack) > 0,
	})
	return nil
}

func (d *decodeState) pop() {
	d.stack = d.stack[:len(d.stack)-1]
}

// checkIndent reports whether the pending definition belongs to the
// branch on top of the stack.
func (d *decodeState) checkIndent() (bool, error) {
	def, err := d.peek()
	if err != nil || def == nil {
		return false, err
	}
	return len(d.stack) == def.Depth+1, nil
}

// checkKey reports whether the pending definition repeats the key being
// read, which continues a multi-line value or grows a list.
func (d *decodeState) checkKey() (bool, error) {
	ok, err := d.checkIndent()
	if err != nil || !ok {
		return false, err
	}
	return d.def.Key == d.top().key, nil
}

// substitute resolves an inline value on the definition that opened a
// fresh branch: the value becomes the branch's first field. firstType is
// the first declared field's type, or nil for a dictionary.
func (d *decodeState) substitute(firstName string, firstType reflect.Type) error {
	top := d.top()
	if !top.fresh {
		return nil
	}
	top.fresh = false
	def, err := d.peek()
	if err != nil || def == nil {
		return err
	}
	d.def = nil
	if def.Value == "" {
		return nil
	}
	if firstType == nil {
		return parseErr(ErrInvalidSubstitute, def.Key)
	}
	switch firstType.Kind() {
	case reflect.Pointer, reflect.Slice:
		// an optional or list first field would make the inline value
		// ambiguous on re-parse
		return parseErr(ErrInvalidSubstitute, def.Key)
	}
	d.def = &token.Def{
		Depth: len(d.stack) - 1,
		Key:   firstName,
		Sep:   def.Sep,
		Value: def.Value,
		Width: def.Width,
	}
	return nil
}

// valueDef consumes the pending definition: a single space-separated
// token while a list is being read, the whole definition otherwise.
func (d *decodeState) valueDef() (*token.Def, error) {
	def, err := d.peek()
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, parseErr(ErrUnexpectedEnd, "")
	}
	if d.inList() && def.Sep == token.SepNormal {
		head, tail := def.SplitList()
		d.def = tail
		return &head, nil
	}
	d.def = nil
	return def, nil
}

// text consumes a text value, folding continuation rows for the same key
// into linefeed-joined lines.
func (d *decodeState) text() (string, error) {
	def, err := d.valueDef()
	if err != nil {
		return "", err
	}
	v := def.Value
	if d.inList() {
		return v, nil
	}
	for {
		ok, err := d.checkKey()
		if err != nil {
			return "", err
		}
		if !ok {
			return v, nil
		}
		switch d.def.Sep {
		case token.SepTextAppend:
			v += "\n" + d.def.Value
		case token.SepTextValue:
			v = d.def.Value
		default:
			// a repeated full key is not a continuation; leave it for
			// the owning branch to reject
			return v, nil
		}
		d.def = nil
	}
}

func (d *decodeState) value(rv reflect.Value) error {
	if rv.Kind() != reflect.Pointer && rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			text, err := d.text()
			if err != nil {
				return err
			}
			if err := u.UnmarshalText([]byte(text)); err != nil {
				return parseErr(err, text)
			}
			return nil
		}
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.value(rv.Elem())
	case reflect.Bool:
		def, err := d.valueDef()
		if err != nil {
			return err
		}
		switch def.Value {
		case "true":
			rv.SetBool(true)
		case "false":
			rv.SetBool(false)
		default:
			return parseErr(ErrExpectedBool, def.Value)
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		def, err := d.valueDef()
		if err != nil {
			return err
		}
		n, ok := number.ParseInt(def.Value, rv.Type().Bits())
		if !ok {
			return parseErr(ErrExpectedInt, def.Value)
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def, err := d.valueDef()
		if err != nil {
			return err
		}
		n, ok := number.ParseUint(def.Value, rv.Type().Bits())
		if !ok {
			return parseErr(ErrExpectedInt, def.Value)
		}
		rv.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		def, err := d.valueDef()
		if err != nil {
			return err
		}
		f, ok := number.ParseFloat(def.Value, rv.Type().Bits())
		if !ok {
			return parseErr(ErrExpectedNumber, def.Value)
		}
		rv.SetFloat(f)
		return nil
	case reflect.String:
		v, err := d.text()
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil
	case reflect.Struct:
		return d.structValue(rv)
	case reflect.Map:
		return d.mapValue(rv)
	case reflect.Slice:
		return d.sliceValue(rv)
	default:
		return &UnsupportedTypeError{Type: rv.Type().String()}
	}
}

func (d *decodeState) structValue(rv reflect.Value) error {
	fields := typeFields(rv.Type())
	if err := d.push(fields); err != nil {
		return err
	}
	var firstName string
	var firstType reflect.Type
	if len(fields) > 0 {
		firstName = fields[0].name
		firstType = rv.Type().FieldByIndex(fields[0].index).Type
	}
	if err := d.substitute(firstName, firstType); err != nil {
		return err
	}
	top := d.top()
	for {
		ok, err := d.checkIndent()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		i := fieldIndex(fields, d.def.Key)
		if i < 0 || top.visited[i] {
			return parseErr(ErrUnexpectedKey, d.def.Key)
		}
		top.visited[i] = true
		top.key = d.def.Key
		if err := d.value(fieldByIndex(rv, fields[i].index)); err != nil {
			return err
		}
	}
	for i, f := range fields {
		if top.visited[i] {
			continue
		}
		top.visited[i] = true
		if err := d.absent(fieldByIndex(rv, f.index), f.name); err != nil {
			return err
		}
	}
	d.pop()
	return nil
}

// absent resolves a declared field with no definition: optional and
// collection fields stay empty, required scalars are an error, and nested
// records recurse so their own required fields are reported.
func (d *decodeState) absent(rv reflect.Value, name string) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		rv.SetZero()
		return nil
	case reflect.Struct:
		if _, ok := rv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return parseErr(ErrMissingField, name)
		}
		fields := typeFields(rv.Type())
		for _, f := range fields {
			if err := d.absent(fieldByIndex(rv, f.index), f.name); err != nil {
				return err
			}
		}
		return nil
	default:
		return parseErr(ErrMissingField, name)
	}
}

func (d *decodeState) mapValue(rv reflect.Value) error {
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return &UnsupportedTypeError{Type: t.String()}
	}
	if err := d.push(nil); err != nil {
		return err
	}
	if err := d.substitute("", nil); err != nil {
		return err
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(t))
	}
	top := d.top()
	for {
		ok, err := d.checkIndent()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		key := d.def.Key
		top.key = key
		ev := reflect.New(t.Elem()).Elem()
		if err := d.value(ev); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
	}
	d.pop()
	return nil
}

func (d *decodeState) sliceValue(rv reflect.Value) error {
	top := d.top()
	if top == nil || rv.Type().Elem().Kind() == reflect.Slice {
		return &UnsupportedTypeError{Type: rv.Type().String()}
	}
	top.list = true
	defer func() { top.list = false }()
	et := rv.Type().Elem()
	isText := et.Kind() == reflect.String
	rv.Set(reflect.MakeSlice(rv.Type(), 0, 0))
	for {
		ok, err := d.checkKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if isText && d.def.Sep == token.SepTextAppend && rv.Len() > 0 {
			// a text append row extends the previous element
			last := rv.Index(rv.Len() - 1)
			last.SetString(last.String() + "\n" + d.def.Value)
			d.def = nil
			continue
		}
		if d.def.Sep == token.SepNormal && d.def.Value == "" && !branches(et) {
			// an empty definition contributes no elements
			d.def = nil
			continue
		}
		ev := reflect.New(et).Elem()
		if err := d.value(ev); err != nil {
			return err
		}
		rv.Set(reflect.Append(rv, ev))
	}
}

// branches reports whether values of t open their own branch, so a list
// element is introduced by a bare key line rather than a value token.
func branches(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct && t.Kind() != reflect.Map {
		return false
	}
	return !reflect.PointerTo(t).Implements(textUnmarshalerType)
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// field describes one mapped struct field.
type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map // reflect.Type -> []field

// typeFields returns the mapped fields of a struct type in declaration
// order, embedded structs flattened.
func typeFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}
	fields := appendTypeFields(nil, t, nil)
	fieldCache.Store(t, fields)
	return fields
}

func appendTypeFields(fields []field, t reflect.Type, index []int) []field {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("muon")
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)
		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && sf.IsExported() {
				sub := make([]int, 0, len(index)+1)
				sub = append(append(sub, index...), i)
				fields = appendTypeFields(fields, ft, sub)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		idx := make([]int, 0, len(index)+1)
		idx = append(append(idx, index...), i)
		fields = append(fields, field{name: name, index: idx, omitEmpty: opts["omitempty"]})
	}
	return fields
}

// parseTag splits a struct tag into its name and option flags.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	opts := make(map[string]bool)
	for _, o := range parts[1:] {
		if o != "" {
			opts[o] = true
		}
	}
	return parts[0], opts
}

func fieldIndex(fields []field, name string) int {
	for i, f := range fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

// fieldByIndex walks an index path, allocating intermediate embedded
// pointers as needed.
func fieldByIndex(rv reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(i)
	}
	return rv
}
