// Package toon implements an encoder for TOON (Token-Oriented Object Notation).
// TOON is a line-oriented, indentation-based text format for records and lists
// of records that keeps the token count low when the text is read by a large
// language model: a list of records sharing one shape is written as a single
// header followed by one comma separated row per record.
//
//	[2]{id,name,department,salary}:
//	  1,Alice,Engineering,120000
//	  2,Bob,Marketing,95000
//
// Values are described by the closed Node type. Application types can supply
// their own ordered fields by implementing Recordable, or be converted with
// FromValue. Encoding is pure: every call is independent and safe to run
// concurrently.
package toon

import (
	"io"
)

// EncodeOptions configures TOON encoding behavior.
type EncodeOptions struct {
	Indent    int    // Number of spaces per indentation level (default: 2, minimum: 2)
	Delimiter string // Delimiter for inline lists and tabular rows (default: ",")

	// StrictTables makes EncodeRecords fail with *InconsistentShapeError
	// when a row's field names differ, instead of falling back to list layout.
	// Rows that share their field names but hold a record or a non-empty
	// sequence are not a shape mismatch: they are written in list layout
	// without an error.
	StrictTables bool

	// OnShapeMismatch, when set, is called for every list of records that
	// could not be written as a table because one row has a different shape.
	OnShapeMismatch func(*InconsistentShapeError)

	// Colors enables ANSI colouring of the output, see NewColors.
	Colors *Colors
}

func (o *EncodeOptions) withDefaults() EncodeOptions {
	var out EncodeOptions
	if o != nil {
		out = *o
	}
	if out.Indent < 2 {
		out.Indent = 2
	}
	if out.Delimiter == "" {
		out.Delimiter = ","
	}
	return out
}

// Encode converts a node to TOON format.
func Encode(n Node) (string, error) {
	return EncodeAt(n, 0, nil)
}

// EncodeWithOptions converts a node to TOON format with custom options.
func EncodeWithOptions(n Node, opts *EncodeOptions) (string, error) {
	return EncodeAt(n, 0, opts)
}

// EncodeAt converts a node to TOON format as if it were nested depth levels
// deep: every line is prefixed with depth indentation units.
func EncodeAt(n Node, depth int, opts *EncodeOptions) (string, error) {
	if depth < 0 {
		depth = 0
	}
	return newEncoder(opts).encode(n, depth)
}

// Marshal converts an arbitrary Go value to TOON format, see FromValue for the
// conversion rules.
func Marshal(v any) (string, error) {
	return MarshalWithOptions(v, nil)
}

// MarshalWithOptions converts an arbitrary Go value to TOON format with custom
// options.
func MarshalWithOptions(v any, opts *EncodeOptions) (string, error) {
	n, err := FromValue(v)
	if err != nil {
		return "", err
	}
	return EncodeWithOptions(n, opts)
}

// EncodeRecord converts a single record to TOON key-value layout.
func EncodeRecord(r Recordable, opts *EncodeOptions) (string, error) {
	if r == nil {
		return "", &UnsupportedTypeError{}
	}
	return EncodeWithOptions(RecordOf(r), opts)
}

// EncodeRecords converts a list of records, normally to the tabular layout.
//
// fields is the declared field order of the element type; when nil it is taken
// from the first row. A row whose field names differ from it is reported
// through OnShapeMismatch and the list is written in list layout instead, or,
// with StrictTables, the *InconsistentShapeError is returned. Rows of one shape
// holding nested values use list layout in either mode. An empty list is
// always written as [] since no header can be inferred from it.
func EncodeRecords[T Recordable](fields []string, rows []T, opts *EncodeOptions) (string, error) {
	e := newEncoder(opts)
	if len(rows) == 0 {
		return e.encode(Sequence{}, 0)
	}

	seq := make(Sequence, len(rows))
	for i, row := range rows {
		seq[i] = RecordOf(row)
	}

	want := fields
	if want == nil {
		want = seq[0].(*Record).Names()
	}

	for i, item := range seq {
		r := item.(*Record)
		if sameNames(r, want) {
			continue
		}
		err := &InconsistentShapeError{Index: i, Want: want, Got: r.Names()}
		if opts != nil && opts.StrictTables {
			return "", err
		}
		if e.onMismatch != nil {
			e.onMismatch(err)
		}
		return e.encodeListArray(seq, 0)
	}

	return e.encodeSequence(seq, e.layoutOf(seq), 0)
}

// Encoder writes TOON documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts *EncodeOptions
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer, opts *EncodeOptions) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the TOON encoding of v, followed by a newline.
func (enc *Encoder) Encode(v any) error {
	s, err := MarshalWithOptions(v, enc.opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(enc.w, s+"\n")
	return err
}
