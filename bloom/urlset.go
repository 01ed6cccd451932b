// Package bloom de-duplicates URLs with a Bloom filter.
package bloom

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLSet remembers the URLs it has been given. The Bloom filter answers
// "new" without touching the exact key set; a possible repeat is
// confirmed against the keys, so distinct URLs are never reported as seen.
// It is safe for concurrent use.
type URLSet struct {
	mu   sync.Mutex
	f    *bloom.BloomFilter
	keys map[string]struct{}
}

// NewURLSet creates a URLSet sized for n URLs at the given false positive
// rate of the pre-check.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{
		f:    bloom.NewWithEstimates(max(n, 1), fpRate),
		keys: make(map[string]struct{}, n),
	}
}

// Add records url and reports whether it was new. URLs that differ only
// by fragment are the same URL.
func (s *URLSet) Add(url string) bool {
	key, _, _ := strings.Cut(url, "#")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f.TestOrAddString(key) {
		if _, ok := s.keys[key]; ok {
			return false
		}
	}
	s.keys[key] = struct{}{}
	return true
}

// Len returns the number of distinct URLs in the set.
func (s *URLSet) Len() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(len(s.keys))
}
