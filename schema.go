package muon

import (
	"fmt"
	"strings"

	"github.com/muon-data/go-muon/internal/number"
	"github.com/muon-data/go-muon/internal/token"
)

// schemaType is the base type of a schema node.
type schemaType int

const (
	typeText schemaType = iota
	typeBool
	typeInt
	typeNumber
	typeDateTime
	typeDate
	typeTime
	typeRecord
	typeDictionary
	typeAny
)

var schemaTypes = map[string]schemaType{
	"text":       typeText,
	"bool":       typeBool,
	"int":        typeInt,
	"number":     typeNumber,
	"datetime":   typeDateTime,
	"date":       typeDate,
	"time":       typeTime,
	"record":     typeRecord,
	"dictionary": typeDictionary,
	"any":        typeAny,
}

// modifier adjusts how a schema node binds its values.
type modifier int

const (
	modNone modifier = iota
	modOptional
	modList
)

// schemaNode is one declaration of a schema prelude.
type schemaNode struct {
	name     string
	mod      modifier
	typ      schemaType
	def      Value // default for an absent field, nil if none
	children []*schemaNode
}

// branching reports whether the node's values nest declarations under it.
func (n *schemaNode) branching() bool {
	switch n.typ {
	case typeRecord, typeDictionary, typeAny:
		return true
	}
	return false
}

// parseSchema builds the node tree of a schema prelude. A node may only
// nest under a record, dictionary or any node, one level at a time.
func parseSchema(defs []token.Def) ([]*schemaNode, error) {
	var roots []*schemaNode
	var open []*schemaNode // open[i] is the last node seen at depth i
	for _, def := range defs {
		node, err := schemaNodeFromDef(def)
		if err != nil {
			return nil, err
		}
		depth := def.Depth
		switch {
		case len(open) == 0:
			if depth != 0 {
				return nil, parseErr(ErrInvalidIndent, def.Key)
			}
		case depth > len(open):
			return nil, parseErr(ErrInvalidIndent, def.Key)
		case depth == len(open) && !open[depth-1].branching():
			return nil, parseErr(ErrInvalidIndent, def.Key)
		}
		open = open[:depth]
		if depth == 0 {
			roots = append(roots, node)
		} else {
			parent := open[depth-1]
			parent.children = append(parent.children, node)
		}
		open = append(open, node)
	}
	return roots, nil
}

func schemaNodeFromDef(def token.Def) (*schemaNode, error) {
	value := def.Value
	mod := modNone
	if rest, ok := strings.CutPrefix(value, "optional "); ok {
		mod, value = modOptional, rest
	} else if rest, ok := strings.CutPrefix(value, "list "); ok {
		mod, value = modList, rest
	}
	name, rest, _ := strings.Cut(value, " ")
	typ, ok := schemaTypes[name]
	if !ok {
		return nil, parseErr(ErrInvalidType, def.Key)
	}
	node := &schemaNode{name: def.Key, mod: mod, typ: typ}
	if rest != "" {
		dflt, err := schemaDefault(node, rest)
		if err != nil {
			return nil, err
		}
		node.def = dflt
	}
	return node, nil
}

// schemaDefault validates and parses a node's default literal. Only plain
// scalar nodes may carry one.
func schemaDefault(node *schemaNode, literal string) (Value, error) {
	if node.mod != modNone {
		return nil, parseErr(ErrInvalidDefault, literal)
	}
	switch node.typ {
	case typeText, typeAny:
		return literal, nil
	case typeBool:
		switch literal {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	case typeInt:
		if n, ok := number.ParseInt(literal, 64); ok {
			return n, nil
		}
		if n, ok := number.ParseUint(literal, 64); ok {
			return n, nil
		}
	case typeNumber:
		if f, ok := number.ParseFloat(literal, 64); ok {
			return f, nil
		}
	case typeDate:
		if d, err := ParseDate(literal); err == nil {
			return d, nil
		}
	case typeTime:
		if t, err := ParseTime(literal); err == nil {
			return t, nil
		}
	case typeDateTime:
		if dt, err := ParseDateTime(literal); err == nil {
			return dt, nil
		}
	}
	return nil, parseErr(ErrInvalidDefault, literal)
}

// decodeDynamic decodes a whole document into a dynamic Value, using the
// schema prelude as the shape.
func (d *decodeState) decodeDynamic(v *Value) error {
	// pulling the first data definition drains the prelude
	if _, err := d.peek(); err != nil {
		return err
	}
	sdefs := d.defs.Schema()
	if len(sdefs) == 0 {
		return fmt.Errorf("muon: decoding into a Value requires a schema prelude")
	}
	nodes, err := parseSchema(sdefs)
	if err != nil {
		return err
	}
	rec, err := d.dynRecord(nodes)
	if err != nil {
		return err
	}
	*v = rec
	return nil
}

func (d *decodeState) dynRecord(nodes []*schemaNode) (Record, error) {
	fields := make([]field, len(nodes))
	for i, n := range nodes {
		fields[i] = field{name: n.name}
	}
	if err := d.push(fields); err != nil {
		return nil, err
	}
	if err := d.dynSubstitute(nodes); err != nil {
		return nil, err
	}
	top := d.top()
	rec := Record{}
	for {
		ok, err := d.checkIndent()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		i := fieldIndex(fields, d.def.Key)
		if i < 0 || top.visited[i] {
			return nil, parseErr(ErrUnexpectedKey, d.def.Key)
		}
		top.visited[i] = true
		top.key = d.def.Key
		val, err := d.dynValue(nodes[i])
		if err != nil {
			return nil, err
		}
		rec = append(rec, Member{Name: nodes[i].name, Value: val})
	}
	for i, n := range nodes {
		if top.visited[i] {
			continue
		}
		top.visited[i] = true
		switch {
		case n.def != nil:
			rec = append(rec, Member{Name: n.name, Value: n.def})
		case n.mod == modList:
			rec = append(rec, Member{Name: n.name, Value: List{}})
		case n.mod == modOptional:
			// absent optionals are omitted
		default:
			return nil, parseErr(ErrMissingField, n.name)
		}
	}
	d.pop()
	return rec, nil
}

func (d *decodeState) dynSubstitute(nodes []*schemaNode) error {
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
	if len(nodes) == 0 {
		return parseErr(ErrInvalidSubstitute, def.Key)
	}
	first := nodes[0]
	if first.mod != modNone || first.branching() {
		return parseErr(ErrInvalidSubstitute, def.Key)
	}
	d.def = &token.Def{
		Depth: len(d.stack) - 1,
		Key:   first.name,
		Sep:   def.Sep,
		Value: def.Value,
		Width: def.Width,
	}
	return nil
}

func (d *decodeState) dynValue(node *schemaNode) (Value, error) {
	if node.mod == modList {
		return d.dynList(node)
	}
	return d.dynSingle(node)
}

func (d *decodeState) dynSingle(node *schemaNode) (Value, error) {
	switch node.typ {
	case typeRecord:
		return d.dynRecord(node.children)
	case typeDictionary:
		return d.dynDict(node)
	default:
		return d.dynScalar(node.typ)
	}
}

func (d *decodeState) dynList(node *schemaNode) (Value, error) {
	top := d.top()
	top.list = true
	defer func() { top.list = false }()
	list := List{}
	for {
		ok, err := d.checkKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			return list, nil
		}
		if node.typ == typeText && d.def.Sep == token.SepTextAppend && len(list) > 0 {
			if s, ok := list[len(list)-1].(string); ok {
				list[len(list)-1] = s + "\n" + d.def.Value
				d.def = nil
				continue
			}
		}
		if d.def.Sep == token.SepNormal && d.def.Value == "" && !node.branching() {
			d.def = nil
			continue
		}
		v, err := d.dynSingle(node)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

func (d *decodeState) dynDict(node *schemaNode) (Value, error) {
	if err := d.push(nil); err != nil {
		return nil, err
	}
	if err := d.substitute("", nil); err != nil {
		return nil, err
	}
	top := d.top()
	dict := Dict{}
	for {
		ok, err := d.checkIndent()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		key := d.def.Key
		top.key = key
		var val Value
		if len(node.children) > 0 {
			val, err = d.dynRecord(node.children)
		} else {
			val, err = d.text()
		}
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}
	d.pop()
	return dict, nil
}

func (d *decodeState) dynScalar(typ schemaType) (Value, error) {
	if typ == typeText || typ == typeAny {
		return d.text()
	}
	def, err := d.valueDef()
	if err != nil {
		return nil, err
	}
	v := def.Value
	switch typ {
	case typeBool:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, parseErr(ErrExpectedBool, v)
	case typeInt:
		if n, ok := number.ParseInt(v, 64); ok {
			return n, nil
		}
		if n, ok := number.ParseUint(v, 64); ok {
			return n, nil
		}
		return nil, parseErr(ErrExpectedInt, v)
	case typeNumber:
		f, ok := number.ParseFloat(v, 64)
		if !ok {
			return nil, parseErr(ErrExpectedNumber, v)
		}
		return f, nil
	case typeDate:
		date, err := ParseDate(v)
		if err != nil {
			return nil, parseErr(err, v)
		}
		return date, nil
	case typeTime:
		t, err := ParseTime(v)
		if err != nil {
			return nil, parseErr(err, v)
		}
		return t, nil
	case typeDateTime:
		dt, err := ParseDateTime(v)
		if err != nil {
			return nil, parseErr(err, v)
		}
		return dt, nil
	}
	return nil, parseErr(ErrInvalidType, v)
}
