package toon

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staff struct {
	ID         int    `toon:"id"`
	Name       string `json:"name"`
	Department string `toon:"department"`
	Salary     int    `toon:"salary"`
	Note       string `json:"note,omitempty"`
	Secret     string `toon:"-"`
	internal   string
}

type team struct {
	ID      uuid.UUID `toon:"id"`
	Founded time.Time `toon:"founded"`
	Members []staff   `toon:"members"`
}

type base struct {
	ID int `toon:"id"`
}

type widget struct {
	base
	Name string `toon:"name"`
}

type optionalBase struct {
	*base
	Name string
}

type row struct{ X int }

func (r *row) ToonFields() []Field {
	return []Field{{Name: "x", Value: Int(r.X)}}
}

func TestMarshalStruct(t *testing.T) {
	out, err := Marshal(staff{ID: 1, Name: "Alice", Department: "Engineering", Salary: 120000, Secret: "s", internal: "i"})
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nname: Alice\ndepartment: Engineering\nsalary: 120000", out)

	out, err = Marshal(staff{ID: 2, Name: "Bob", Note: "on leave"})
	require.NoError(t, err)
	assert.Contains(t, out, "\nnote: on leave")
}

func TestMarshalStructSlice(t *testing.T) {
	out, err := Marshal([]staff{
		{ID: 1, Name: "Alice", Department: "Engineering", Salary: 120000},
		{ID: 2, Name: "Bob", Department: "Marketing", Salary: 95000},
	})
	require.NoError(t, err)
	assert.Equal(t, "[2]{id,name,department,salary}:\n"+
		"  1,Alice,Engineering,120000\n"+
		"  2,Bob,Marketing,95000", out)
}

func TestMarshalNested(t *testing.T) {
	tm := team{
		ID:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Founded: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		Members: []staff{{ID: 1, Name: "Alice", Department: "Engineering", Salary: 120000}},
	}

	out, err := Marshal(tm)
	require.NoError(t, err)
	assert.Equal(t, "id: 6ba7b810-9dad-11d1-80b4-00c04fd430c8\n"+
		"founded: 2020-01-15T00:00:00Z\n"+
		"members:\n"+
		"  [1]{id,name,department,salary}:\n"+
		"    1,Alice,Engineering,120000", out)
}

func TestMarshalEmbedded(t *testing.T) {
	out, err := Marshal(widget{base: base{ID: 7}, Name: "gear"})
	require.NoError(t, err)
	assert.Equal(t, "id: 7\nname: gear", out)

	out, err = Marshal(optionalBase{Name: "w"})
	require.NoError(t, err)
	assert.Equal(t, "Name: w", out)

	out, err = Marshal(optionalBase{base: &base{ID: 3}, Name: "w"})
	require.NoError(t, err)
	assert.Equal(t, "id: 3\nName: w", out)
}

func TestMarshalMaps(t *testing.T) {
	out, err := Marshal(map[string]any{"b": 1, "a": "x", "c": []string{"p", "q"}})
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 1\nc: [p,q]", out)

	out, err = Marshal(map[int]string{2: "b", 10: "a"})
	require.NoError(t, err)
	assert.Equal(t, "\"10\": a\n\"2\": b", out)

	out, err = Marshal([]map[string]int{{"a": 1, "b": 2}, {"b": 4, "a": 3}})
	require.NoError(t, err)
	assert.Equal(t, "[2]{a,b}:\n  1,2\n  3,4", out)
}

func TestMarshalRecordable(t *testing.T) {
	out, err := Marshal(point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, "y: 2\nx: 1", out)

	// Slice elements are addressable, so pointer receivers apply
	out, err = Marshal([]row{{X: 1}, {X: 2}})
	require.NoError(t, err)
	assert.Equal(t, "[2]{x}:\n  1\n  2", out)
}

func TestFromValueScalars(t *testing.T) {
	var nilStaff *staff
	var nilMap map[string]int

	tests := []struct {
		name string
		in   any
		want Node
	}{
		{"nil", nil, Null{}},
		{"nil_pointer", nilStaff, Null{}},
		{"nil_map", nilMap, Null{}},
		{"bool", true, Bool(true)},
		{"int8", int8(-3), Int(-3)},
		{"uint", uint(7), Int(7)},
		{"uint64_max", uint64(math.MaxUint64), Decimal{digits: "18446744073709551615"}},
		{"float32", float32(0.1), Float(0.1)},
		{"float64", 2.5, Float(2.5)},
		{"string", "hi", Text("hi")},
		{"bytes", []byte("hi"), Text("aGk=")},
		{"json_int", json.Number("3"), Int(3)},
		{"json_decimal", json.Number("12.50"), Decimal{digits: "12.50"}},
		{"time", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC), DateTimeOf(time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC))},
		{"node", Text("as is"), Text("as is")},
		{"nil_slice", []int(nil), Sequence{}},
		{"array", [2]int{1, 2}, Sequence{Int(1), Int(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromValueUnsupported(t *testing.T) {
	tests := []struct {
		name string
		in   any
		path string
		msg  string
	}{
		{"chan", make(chan int), "", "toon: unsupported type chan int (chan)"},
		{"map_value", map[string]any{"c": make(chan int)}, "c", "toon: unsupported type chan int (chan) at c"},
		{"struct_field", struct {
			F func() `toon:"f"`
		}{F: func() {}}, "f", "toon: unsupported type func() (func) at f"},
		{"nested_list", struct {
			Items []any `toon:"items"`
		}{Items: []any{1, complex(1, 2)}}, "items[1]", "toon: unsupported type complex128 at items[1]"},
		{"map_key", map[float64]int{1.5: 1}, "", "toon: unsupported type float64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.in)
			var ute *UnsupportedTypeError
			require.ErrorAs(t, err, &ute)
			assert.Equal(t, tt.path, ute.Path)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want Node
	}{
		{"42", Int(42)},
		{"+3", Int(3)},
		{"-0", Int(0)},
		{"0.5", Float(0.5)},
		{"-2.25", Float(-2.25)},
		{"1e5", Decimal{digits: "1e5"}},
		{"1.0", Float(1)},
		{"1.00", Decimal{digits: "1.00"}},
		{"99999999999999999999", Decimal{digits: "99999999999999999999"}},
		{"0.1000000000000000000001", Decimal{digits: "0.1000000000000000000001"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, s := range []string{"", "abc", "1,000", "0x1f"} {
		_, err := ParseNumber(s)
		assert.Error(t, err, s)
	}
}
