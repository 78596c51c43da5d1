package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/paularlott/toon"
)

type jsonReader struct {
	dec *j.Decoder
}

// JSON reads a single JSON document. Numbers keep their exact form through
// toon.ParseNumber and objects become records in document order. Duplicate
// keys in one object are rejected.
func JSON(r io.Reader) (toon.Node, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	jr := &jsonReader{dec: dec}

	n, err := jr.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("source: unexpected data after JSON document")
	}
	return n, nil
}

func (jr *jsonReader) token() (j.Token, error) {
	tok, err := jr.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (jr *jsonReader) value() (toon.Node, error) {
	tok, err := jr.token()
	if err != nil {
		return nil, err
	}
	return jr.node(tok)
}

func (jr *jsonReader) node(tok j.Token) (toon.Node, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return jr.object()
		case '[':
			return jr.array()
		}
		return nil, fmt.Errorf("source: unexpected %q in JSON", rune(v))
	case string:
		return toon.Text(v), nil
	case bool:
		return toon.Bool(v), nil
	case j.Number:
		return toon.ParseNumber(string(v))
	case float64:
		return toon.Float(v), nil
	case nil:
		return toon.Null{}, nil
	}
	return nil, fmt.Errorf("source: unexpected JSON token %T", tok)
}

func (jr *jsonReader) object() (toon.Node, error) {
	r := toon.NewRecord()
	for {
		tok, err := jr.token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return r, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("source: expected object key, got %v", tok)
		}
		if _, dup := r.Get(key); dup {
			return nil, fmt.Errorf("source: duplicate key %q", key)
		}

		v, err := jr.value()
		if err != nil {
			return nil, err
		}
		r.Add(key, v)
	}
}

func (jr *jsonReader) array() (toon.Node, error) {
	seq := toon.Sequence{}
	for {
		tok, err := jr.token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return seq, nil
		}

		v, err := jr.node(tok)
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)
	}
}

// ToJSON writes n back as JSON with record order preserved. With indent the
// output is pretty printed using two spaces. Dates and date-times become
// strings and non-finite floats become null.
func ToJSON(n toon.Node, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}
	if !indent {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := j.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n toon.Node) error {
	switch v := n.(type) {
	case toon.Null:
		buf.WriteString("null")
	case toon.Bool:
		buf.WriteString(strconv.FormatBool(bool(v)))
	case toon.Int:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case toon.Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	case toon.Decimal:
		buf.WriteString(v.String())
	case toon.Text:
		return writeJSONString(buf, string(v))
	case toon.Date:
		return writeJSONString(buf, v.String())
	case toon.DateTime:
		return writeJSONString(buf, v.String())
	case *toon.Record:
		buf.WriteByte('{')
		for i, f := range v.ToonFields() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case toon.Sequence:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("source: cannot write %T as JSON", n)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
