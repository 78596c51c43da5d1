package toon

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

type encoder struct {
	indentSize   int
	delimiter    string
	colors       *Colors
	onMismatch   func(*InconsistentShapeError)
	indentCache  []string
	escapeBuffer strings.Builder
}

type seqLayout int

const (
	layoutInline seqLayout = iota
	layoutTabular
	layoutList
)

func newEncoder(opts *EncodeOptions) *encoder {
	o := opts.withDefaults()
	return &encoder{
		indentSize: o.Indent,
		delimiter:  o.Delimiter,
		colors:     o.Colors,
		onMismatch: o.OnShapeMismatch,
	}
}

func (e *encoder) getIndent(depth int) string {
	needed := depth + 1
	for len(e.indentCache) < needed {
		level := len(e.indentCache)
		e.indentCache = append(e.indentCache, strings.Repeat(" ", level*e.indentSize))
	}
	return e.indentCache[depth]
}

// itemPrefix is the indent of depth+1 with a list marker in place of the
// first two columns of depth+1's extra unit.
func (e *encoder) itemPrefix(depth int) string {
	return e.getIndent(depth) + e.paint(KindSequence, SepColor, "-") + " " + strings.Repeat(" ", e.indentSize-2)
}

func (e *encoder) paint(k Kind, a ColorAttr, s string) string {
	if e.colors == nil {
		return s
	}
	return e.colors.Color(k, a, s)
}

// encode renders n as a block whose lines start at depth.
func (e *encoder) encode(n Node, depth int) (string, error) {
	switch v := n.(type) {
	case *Record:
		return e.encodeRecord(v, depth)
	case Sequence:
		return e.encodeSequence(v, e.layoutOf(v), depth)
	}

	s, err := e.scalar(n)
	if err != nil {
		return "", err
	}
	return e.getIndent(depth) + s, nil
}

func (e *encoder) scalar(n Node) (string, error) {
	s, ok := e.formatScalar(n)
	if !ok {
		return "", unsupportedNode(n)
	}
	return e.paint(n.Kind(), ValueColor, s), nil
}

func unsupportedNode(n Node) error {
	return &UnsupportedTypeError{Type: reflect.TypeOf(n)}
}

func isScalar(n Node) bool {
	return n != nil && n.Kind().Scalar()
}

func (e *encoder) encodeRecord(r *Record, depth int) (string, error) {
	if r.Len() == 0 {
		return "", nil
	}

	var b strings.Builder
	indent := e.getIndent(depth)

	for i, f := range r.fields {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(indent)
		b.WriteString(e.paint(KindRecord, KeyColor, e.encodeKey(f.Name)))
		b.WriteString(e.paint(KindRecord, SepColor, ":"))

		value, block, err := e.encodeValue(f.Value, depth+1)
		if err != nil {
			return "", prependPath(err, f.Name)
		}
		if block {
			if value != "" {
				b.WriteByte('\n')
				b.WriteString(value)
			}
			continue
		}
		b.WriteByte(' ')
		b.WriteString(value)
	}

	return b.String(), nil
}

// encodeValue renders a field value. Scalars and inline sequences come back
// without indentation and block is false; anything else is a block already
// indented at depth.
func (e *encoder) encodeValue(n Node, depth int) (value string, block bool, err error) {
	switch v := n.(type) {
	case *Record:
		value, err = e.encodeRecord(v, depth)
		return value, true, err
	case Sequence:
		layout := e.layoutOf(v)
		if layout == layoutInline {
			value, err = e.encodeInline(v)
			return value, false, err
		}
		value, err = e.encodeSequence(v, layout, depth)
		return value, true, err
	}

	value, err = e.scalar(n)
	return value, false, err
}

// layoutOf decides once how a sequence is rendered: inline when it is empty
// or holds only scalars, tabular when every element is a non-empty record of
// the same shape with scalar values, and as a list otherwise.
func (e *encoder) layoutOf(seq Sequence) seqLayout {
	if len(seq) == 0 {
		return layoutInline
	}

	allScalar := true
	for _, item := range seq {
		if !isScalar(item) {
			allScalar = false
			break
		}
	}
	if allScalar {
		return layoutInline
	}

	if e.isTabular(seq) {
		return layoutTabular
	}
	return layoutList
}

func (e *encoder) isTabular(seq Sequence) bool {
	first, ok := seq[0].(*Record)
	if !ok || first.Len() == 0 {
		return false
	}

	for i, item := range seq {
		r, ok := item.(*Record)
		if !ok {
			return false
		}
		if i > 0 && !sameShape(first, r) {
			e.reportMismatch(seq, first, i)
			return false
		}
		for _, f := range r.fields {
			if !isScalar(f.Value) {
				return false
			}
		}
	}

	return true
}

// reportMismatch surfaces a list of records that would have been tabular but
// for one row's shape. Only lists made entirely of records are reported.
func (e *encoder) reportMismatch(seq Sequence, first *Record, index int) {
	if e.onMismatch == nil {
		return
	}
	for _, item := range seq[index:] {
		if _, ok := item.(*Record); !ok {
			return
		}
	}
	e.onMismatch(&InconsistentShapeError{
		Index: index,
		Want:  first.Names(),
		Got:   seq[index].(*Record).Names(),
	})
}

func (e *encoder) encodeSequence(seq Sequence, layout seqLayout, depth int) (string, error) {
	switch layout {
	case layoutInline:
		s, err := e.encodeInline(seq)
		if err != nil {
			return "", err
		}
		return e.getIndent(depth) + s, nil
	case layoutTabular:
		return e.encodeTabular(seq, depth)
	default:
		return e.encodeListArray(seq, depth)
	}
}

// encodeInline renders an empty or all scalar sequence as [a,b,c].
func (e *encoder) encodeInline(seq Sequence) (string, error) {
	var b strings.Builder
	b.WriteString(e.paint(KindSequence, SepColor, "["))
	for i, item := range seq {
		if i > 0 {
			b.WriteString(e.delimiter)
		}
		s, err := e.scalar(item)
		if err != nil {
			return "", prependPath(err, "["+strconv.Itoa(i)+"]")
		}
		b.WriteString(s)
	}
	b.WriteString(e.paint(KindSequence, SepColor, "]"))
	return b.String(), nil
}

func (e *encoder) writeCount(b *strings.Builder, n int) {
	b.WriteString(e.paint(KindSequence, SepColor, "["+strconv.Itoa(n)+"]"))
}

func (e *encoder) encodeTabular(seq Sequence, depth int) (string, error) {
	first := seq[0].(*Record)

	var b strings.Builder
	b.WriteString(e.getIndent(depth))
	e.writeCount(&b, len(seq))
	b.WriteString(e.paint(KindSequence, SepColor, "{"))
	for i, f := range first.fields {
		if i > 0 {
			b.WriteString(e.delimiter)
		}
		b.WriteString(e.paint(KindRecord, KeyColor, e.encodeKey(f.Name)))
	}
	b.WriteString(e.paint(KindSequence, SepColor, "}:"))

	indent := e.getIndent(depth + 1)
	for row, item := range seq {
		b.WriteByte('\n')
		b.WriteString(indent)
		r := item.(*Record)
		for i, f := range r.fields {
			if i > 0 {
				b.WriteString(e.delimiter)
			}
			s, err := e.scalar(f.Value)
			if err != nil {
				return "", prependPath(prependPath(err, f.Name), "["+strconv.Itoa(row)+"]")
			}
			b.WriteString(s)
		}
	}

	return b.String(), nil
}

// encodeListArray writes a [N]: header followed by one "- " item per element.
// Records and nested blocks are rendered one level deeper and their first
// line takes the list marker.
func (e *encoder) encodeListArray(seq Sequence, depth int) (string, error) {
	var b strings.Builder
	b.WriteString(e.getIndent(depth))
	e.writeCount(&b, len(seq))
	b.WriteString(e.paint(KindSequence, SepColor, ":"))

	itemDepth := depth + 1
	for i, item := range seq {
		b.WriteByte('\n')
		s, err := e.encodeItem(item, itemDepth)
		if err != nil {
			return "", prependPath(err, "["+strconv.Itoa(i)+"]")
		}
		b.WriteString(s)
	}

	return b.String(), nil
}

func (e *encoder) encodeItem(n Node, depth int) (string, error) {
	marker := e.paint(KindSequence, SepColor, "-")

	if r, ok := n.(*Record); ok && r.Len() == 0 {
		return e.getIndent(depth) + marker, nil
	}

	value, block, err := e.encodeValue(n, depth+1)
	if err != nil {
		return "", err
	}
	if !block {
		return e.getIndent(depth) + marker + " " + value, nil
	}
	if value == "" {
		return e.getIndent(depth) + marker, nil
	}
	return e.itemPrefix(depth) + strings.TrimPrefix(value, e.getIndent(depth+1)), nil
}

// prependPath records where in the tree an unsupported value was found.
func prependPath(err error, seg string) error {
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		return err
	}
	switch {
	case ute.Path == "":
		ute.Path = seg
	case strings.HasPrefix(ute.Path, "["):
		ute.Path = seg + ute.Path
	default:
		ute.Path = seg + "." + ute.Path
	}
	return err
}
