package newsagent

import (
	"sort"
	"sync"
)

// SeenURLs is the cross-category dedup ledger: once a URL has been cited in
// any category's digest, no later category in the same execution may cite it
// again. The selector's check-then-add must be atomic if categories ever run
// in parallel, so the set is guarded by a single mutex and exposes Reserve
// instead of separate Contains/Add calls for selection.
type SeenURLs struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewSeenURLs builds the set, pre-populated from a checkpoint.
func NewSeenURLs(urls ...string) *SeenURLs {
	s := &SeenURLs{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		if u != "" {
			s.urls[u] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the URL has already been cited.
func (s *SeenURLs) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.urls[url]
	return ok
}

// Reserve atomically claims a URL for citation. It returns false if the URL
// was already claimed.
func (s *SeenURLs) Reserve(url string) bool {
	if url == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Len reports the number of claimed URLs.
func (s *SeenURLs) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// Snapshot returns the claimed URLs in sorted order for checkpointing.
func (s *SeenURLs) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.urls))
	for u := range s.urls {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
