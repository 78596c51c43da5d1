package toon

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindText
	KindDate
	KindDateTime
	KindRecord
	KindSequence
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindDecimal:  "decimal",
	KindText:     "text",
	KindDate:     "date",
	KindDateTime: "datetime",
	KindRecord:   "record",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Scalar reports whether values of this kind render as a single token.
func (k Kind) Scalar() bool {
	return k != KindRecord && k != KindSequence
}

// Node is a value the encoder knows how to render. The set of implementations
// is closed: Null, Bool, Int, Float, Decimal, Text, Date, DateTime, *Record and
// Sequence.
type Node interface {
	Kind() Kind
	node()
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Int is a signed integer scalar.
type Int int64

// Float is a binary floating point scalar. NaN and infinities render as null.
type Float float64

// Text is a string scalar.
type Text string

// Sequence is an ordered list of nodes.
type Sequence []Node

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Int) Kind() Kind      { return KindInt }
func (Float) Kind() Kind    { return KindFloat }
func (Decimal) Kind() Kind  { return KindDecimal }
func (Text) Kind() Kind     { return KindText }
func (Date) Kind() Kind     { return KindDate }
func (DateTime) Kind() Kind { return KindDateTime }
func (Sequence) Kind() Kind { return KindSequence }

func (Null) node()     {}
func (Bool) node()     {}
func (Int) node()      {}
func (Float) node()    {}
func (Decimal) node()  {}
func (Text) node()     {}
func (Date) node()     {}
func (DateTime) node() {}
func (Sequence) node() {}

var decimalRegex = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// Decimal is an arbitrary precision decimal number kept in its textual form so
// that scale is preserved: "1000.50" renders as 1000.50, not 1000.5.
type Decimal struct {
	digits string
}

// NewDecimal validates s as a decimal literal.
func NewDecimal(s string) (Decimal, error) {
	if !decimalRegex.MatchString(s) {
		return Decimal{}, fmt.Errorf("toon: invalid decimal %q", s)
	}
	return Decimal{digits: strings.TrimPrefix(s, "+")}, nil
}

// MustDecimal is like NewDecimal but panics on invalid input. Intended for
// literals in tests and examples.
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) String() string {
	if d.digits == "" {
		return "0"
	}
	return d.digits
}

// Date is a calendar date without time of day, rendered as YYYY-MM-DD.
type Date struct {
	t time.Time
}

// NewDate returns the date year-month-day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func (d Date) Time() time.Time { return d.t }

func (d Date) String() string { return d.t.Format(time.DateOnly) }

// DateTime is an instant rendered in RFC 3339 form with fractional seconds
// only when they are non-zero.
type DateTime struct {
	t time.Time
}

func DateTimeOf(t time.Time) DateTime { return DateTime{t: t} }

func (d DateTime) Time() time.Time { return d.t }

func (d DateTime) String() string { return d.t.Format(time.RFC3339Nano) }
