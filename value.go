package muon

// Value is a dynamic MuON value, used when decoding a document without a
// concrete Go type. A document can only decode into a Value when it
// carries a schema prelude describing its shape.
//
// A Value holds one of:
//
//	string            for text and any
//	bool              for bool
//	int64 or uint64   for int
//	float64           for number
//	Date, Time, DateTime
//	Record            for record
//	Dict              for dictionary
//	List              for list values
type Value any

// Member is one field of a dynamic record.
type Member struct {
	Name  string
	Value Value
}

// Record is a dynamic record: an ordered list of named members.
type Record []Member

// Get returns the value of the named member.
func (r Record) Get(name string) (Value, bool) {
	for _, m := range r {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Dict is a dynamic dictionary keyed by text.
type Dict map[string]Value

// List is a list of dynamic values.
type List []Value
