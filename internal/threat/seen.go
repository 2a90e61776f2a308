package threat

import (
	"sync"

	"github.com/willf/bloom"
)

// SeenSet estimates how many distinct addresses have been analyzed. A false
// positive undercounts by one; it never overcounts.
type SeenSet struct {
	mu       sync.Mutex
	filter   *bloom.BloomFilter
	distinct int
}

func NewSeenSet(expected uint, falsePositiveRate float64) *SeenSet {
	return &SeenSet{filter: bloom.NewWithEstimates(expected, falsePositiveRate)}
}

// Observe records ip and reports whether it looked new.
func (s *SeenSet) Observe(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter.TestAndAdd([]byte(ip)) {
		return false
	}
	s.distinct++
	return true
}

func (s *SeenSet) Distinct() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinct
}
