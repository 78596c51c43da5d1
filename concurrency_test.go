package toon

import (
	"fmt"
	"sync"
	"testing"
)

func TestConcurrentEncode(t *testing.T) {
	seq := make(Sequence, 20)
	for i := range seq {
		seq[i] = employee(i, fmt.Sprintf("user %d", i), "Engineering", 1000*i)
	}
	tree := NewRecord().Add("name", Text("Engineering")).Add("employees", seq)

	want, err := Encode(tree)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			opts := &EncodeOptions{Indent: 2 + n%3}
			got, err := EncodeWithOptions(tree, opts)
			if err != nil {
				errs <- err
				return
			}
			if n%3 == 0 && got != want {
				errs <- fmt.Errorf("goroutine %d: output differs", n)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("concurrency error: %v", e)
	}
}
