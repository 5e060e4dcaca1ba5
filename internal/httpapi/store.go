package httpapi

import (
	"sync"

	"github.com/seanyjeong/stock-sub000/internal/requalify"
	"github.com/seanyjeong/stock-sub000/internal/scan"
)

// Store holds the most recent completed cycle and the latest verdicts for
// the read-only API. Writers swap whole values; there is no partial
// mutation of a published cycle.
type Store struct {
	mu       sync.RWMutex
	cycle    *scan.CycleResult
	verdicts map[string]requalify.Verdict
}

func NewStore() *Store {
	return &Store{verdicts: make(map[string]requalify.Verdict)}
}

// SetCycle publishes a freshly completed scan cycle, replacing the prior
// one wholesale.
func (s *Store) SetCycle(c scan.CycleResult) {
	s.mu.Lock()
	s.cycle = &c
	s.mu.Unlock()
}

// Cycle returns the latest published cycle, or nil before the first scan.
func (s *Store) Cycle() *scan.CycleResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycle
}

// SetVerdict records the latest requalification verdict for a ticker.
func (s *Store) SetVerdict(v requalify.Verdict) {
	s.mu.Lock()
	s.verdicts[v.Ticker] = v
	s.mu.Unlock()
}

// Verdict returns the latest verdict for a ticker.
func (s *Store) Verdict(ticker string) (requalify.Verdict, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verdicts[ticker]
	return v, ok
}
