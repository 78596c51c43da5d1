package toon

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FromValue converts a Go value into a Node.
//
//   - Node values are returned as is, Recordable values become records.
//   - Structs become records in field declaration order. The field name comes
//     from the `toon` tag, then the `json` tag, then the Go name; "-" skips a
//     field and omitempty drops zero values. Embedded structs are flattened.
//   - Maps become records with keys sorted, since Go maps have no order.
//   - Slices and arrays become sequences; []byte becomes base64 text.
//   - time.Time becomes a DateTime, json.Number goes through ParseNumber and
//     encoding.TextMarshaler values (uuid.UUID, net.IP, ...) become text.
//   - nil pointers, interfaces and maps become null.
//
// Channels, functions, complex numbers and unsafe pointers are rejected with
// *UnsupportedTypeError.
func FromValue(v any) (Node, error) {
	if v == nil {
		return Null{}, nil
	}
	return fromValue(reflect.ValueOf(v))
}

func fromValue(val reflect.Value) (Node, error) {
	if !val.IsValid() {
		return Null{}, nil
	}

	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		if val.IsNil() {
			return Null{}, nil
		}
	}

	if val.CanInterface() {
		switch v := val.Interface().(type) {
		case Node:
			return v, nil
		case Recordable:
			return RecordOf(v), nil
		case time.Time:
			return DateTimeOf(v), nil
		case json.Number:
			return ParseNumber(string(v))
		case encoding.TextMarshaler:
			text, err := v.MarshalText()
			if err != nil {
				return nil, fmt.Errorf("toon: marshaling %s: %w", val.Type(), err)
			}
			return Text(text), nil
		}
		if val.Kind() == reflect.Struct && val.CanAddr() {
			if r, ok := val.Addr().Interface().(Recordable); ok {
				return RecordOf(r), nil
			}
		}
	}

	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		return fromValue(val.Elem())
	case reflect.Bool:
		return Bool(val.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		if u > math.MaxInt64 {
			return Decimal{digits: strconv.FormatUint(u, 10)}, nil
		}
		return Int(int64(u)), nil
	case reflect.Float32:
		// Widen through the shortest float32 text so 0.1 stays 0.1
		f, _ := strconv.ParseFloat(strconv.FormatFloat(val.Float(), 'g', -1, 32), 64)
		return Float(f), nil
	case reflect.Float64:
		return Float(val.Float()), nil
	case reflect.String:
		return Text(val.String()), nil
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return Text(base64.StdEncoding.EncodeToString(val.Bytes())), nil
		}
		return fromList(val)
	case reflect.Array:
		return fromList(val)
	case reflect.Map:
		return fromMap(val)
	case reflect.Struct:
		r := NewRecord()
		if err := appendStruct(r, val); err != nil {
			return nil, err
		}
		return r, nil
	}

	return nil, &UnsupportedTypeError{Type: val.Type()}
}

func fromList(val reflect.Value) (Node, error) {
	seq := make(Sequence, val.Len())
	for i := 0; i < val.Len(); i++ {
		n, err := fromValue(val.Index(i))
		if err != nil {
			return nil, prependPath(err, "["+strconv.Itoa(i)+"]")
		}
		seq[i] = n
	}
	return seq, nil
}

func fromMap(val reflect.Value) (Node, error) {
	type entry struct {
		key   string
		value reflect.Value
	}

	entries := make([]entry, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: key, value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	r := NewRecord()
	for _, ent := range entries {
		n, err := fromValue(ent.value)
		if err != nil {
			return nil, prependPath(err, ent.key)
		}
		r.Add(ent.key, n)
	}
	return r, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return "", fmt.Errorf("toon: marshaling map key %s: %w", k.Type(), err)
			}
			return string(text), nil
		}
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &UnsupportedTypeError{Type: k.Type()}
}

func appendStruct(r *Record, val reflect.Value) error {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, omitEmpty, skip := fieldName(sf)
		if skip {
			continue
		}

		fv := val.Field(i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := appendStruct(r, fv); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if omitEmpty && fv.IsZero() {
			continue
		}

		n, err := fromValue(fv)
		if err != nil {
			return prependPath(err, name)
		}
		r.Add(name, n)
	}
	return nil
}

// fieldName reads the toon tag, falling back to the json tag.
func fieldName(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag, ok := sf.Tag.Lookup("toon")
	if !ok {
		tag = sf.Tag.Get("json")
	}
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// ParseNumber converts a numeric literal into the narrowest node that keeps it
// exact: Int when it fits in 64 bits, Float when its shortest float form
// prints back identically, and Decimal otherwise.
func ParseNumber(s string) (Node, error) {
	if !decimalRegex.MatchString(s) {
		return nil, fmt.Errorf("toon: invalid number %q", s)
	}
	s = strings.TrimPrefix(s, "+")

	if integerRegex.MatchString(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		return Decimal{digits: s}, nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && formatFloat(f) == s {
		return Float(f), nil
	}
	return Decimal{digits: s}, nil
}
