package toon

// Field is a single named value of a Record.
type Field struct {
	Name  string
	Value Node
}

// Recordable is implemented by any type that can expose itself as an ordered
// list of fields. The order returned is the order the fields are encoded in.
type Recordable interface {
	ToonFields() []Field
}

// Record is an ordered mapping of field name to Node. Names are expected to be
// unique; the encoder does not check.
type Record struct {
	fields []Field
}

// NewRecord creates a record from fields, keeping their order.
func NewRecord(fields ...Field) *Record {
	r := &Record{fields: make([]Field, 0, len(fields))}
	r.fields = append(r.fields, fields...)
	return r
}

// RecordOf snapshots a Recordable into a Record.
func RecordOf(v Recordable) *Record {
	if r, ok := v.(*Record); ok {
		return r
	}
	return NewRecord(v.ToonFields()...)
}

// Add appends a field and returns the record for chaining
func (r *Record) Add(name string, value Node) *Record {
	if value == nil {
		value = Null{}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
	return r
}

func (r *Record) Kind() Kind { return KindRecord }
func (r *Record) node()      {}

// Len returns the number of fields
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Names returns the field names in order
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (Node, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ToonFields returns a copy of the fields, so a *Record is itself Recordable.
func (r *Record) ToonFields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// sameShape reports whether both records carry identical field names in
// identical order.
func sameShape(a, b *Record) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.fields {
		if a.fields[i].Name != b.fields[i].Name {
			return false
		}
	}
	return true
}

func sameNames(r *Record, names []string) bool {
	if r.Len() != len(names) {
		return false
	}
	for i, f := range r.fields {
		if f.Name != names[i] {
			return false
		}
	}
	return true
}
