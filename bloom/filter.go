// Package bloom tracks the pages an audit has already scheduled.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is the rate used when sizing a Filter for an audit.
const DefaultFalsePositiveRate = 0.001

// Filter is a concurrency-safe Bloom filter over page URLs.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate. n below 1 is treated as 1.
func NewFilter(n uint, fpRate float64) *Filter {
	if n < 1 {
		n = 1
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// TestAndAdd reports whether url was probably seen before and records it.
// A false result is certain: the URL is new.
func (f *Filter) TestAndAdd(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(url)
}
