package toon

import (
	"strconv"
	"testing"
)

func BenchmarkEncodeTabular(b *testing.B) {
	seq := make(Sequence, 100)
	for i := range seq {
		seq[i] = employee(i, "user "+strconv.Itoa(i), "Engineering", 1000*i)
	}
	data := NewRecord().Add("name", Text("Engineering")).Add("employees", seq)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Encode(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeList(b *testing.B) {
	seq := make(Sequence, 100)
	for i := range seq {
		r := NewRecord().Add("id", Int(i))
		if i%2 == 0 {
			r.Add("tags", Sequence{Text("a"), Text("b, c")})
		}
		seq[i] = r
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Encode(seq)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal(b *testing.B) {
	data := map[string]any{
		"users": []staff{
			{ID: 1, Name: "Alice", Department: "Engineering", Salary: 120000},
			{ID: 2, Name: "Bob", Department: "Marketing", Salary: 95000},
		},
		"config": map[string]any{
			"debug":   true,
			"timeout": 30,
			"servers": []string{"server1", "server2", "server3"},
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Marshal(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}
