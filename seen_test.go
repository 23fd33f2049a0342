package newsagent

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestSeenURLsReserve(t *testing.T) {
	s := NewSeenURLs("https://example.com/old")

	if !s.Contains("https://example.com/old") {
		t.Fatal("pre-populated URL missing")
	}
	if s.Reserve("https://example.com/old") {
		t.Fatal("pre-populated URL must not be reservable")
	}
	if !s.Reserve("https://example.com/new") {
		t.Fatal("fresh URL must be reservable")
	}
	if s.Reserve("https://example.com/new") {
		t.Fatal("second reservation must fail")
	}
	if s.Reserve("") {
		t.Fatal("empty URL must not be reservable")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 URLs, got %d", s.Len())
	}
}

func TestSeenURLsReserveConcurrent(t *testing.T) {
	s := NewSeenURLs()
	const goroutines = 50

	var wg sync.WaitGroup
	wins := make(chan int, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if s.Reserve("https://example.com/contested") {
				wins <- id
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners int
	for range wins {
		winners++
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestSeenURLsSnapshotSorted(t *testing.T) {
	s := NewSeenURLs()
	for _, i := range []int{3, 1, 2} {
		s.Reserve(fmt.Sprintf("https://example.com/%d", i))
	}
	want := []string{
		"https://example.com/1",
		"https://example.com/2",
		"https://example.com/3",
	}
	if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
