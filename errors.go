package toon

import (
	"fmt"
	"reflect"
	"strings"
)

// UnsupportedTypeError is returned when a value is not one of the recognised
// scalar kinds and is not a record or a sequence. Encoding stops at the first
// such value and no partial output is returned.
type UnsupportedTypeError struct {
	Type reflect.Type // nil when the value itself was nil
	Path string       // location of the value, e.g. "orders[2].total"
}

func (e *UnsupportedTypeError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
		if k := e.Type.Kind().String(); k != name {
			name += " (" + k + ")"
		}
	}
	if e.Path != "" {
		return fmt.Sprintf("toon: unsupported type %s at %s", name, e.Path)
	}
	return fmt.Sprintf("toon: unsupported type %s", name)
}

// InconsistentShapeError reports a row whose field names differ from the shape
// a tabular list requires. The encoder itself only surfaces it as a warning
// and falls back to list layout; EncodeRecords returns it when tables are
// strict.
type InconsistentShapeError struct {
	Index int      // row index of the first mismatch
	Want  []string // expected field names in order
	Got   []string // field names of the offending row
}

func (e *InconsistentShapeError) Error() string {
	return fmt.Sprintf("toon: row %d has fields {%s}, expected {%s}",
		e.Index, strings.Join(e.Got, ","), strings.Join(e.Want, ","))
}
