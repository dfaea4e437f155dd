package app

import (
	"sync"

	httptransport "pphistory/internal/transport/http"
)

// buildStore holds the last successful build and the outcome of the latest attempt
type buildStore struct {
	mu      sync.RWMutex
	latest  httptransport.Build
	ok      bool
	lastErr error
}

// Latest implements httptransport.BuildStore
func (s *buildStore) Latest() (httptransport.Build, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.ok
}

// LastError implements httptransport.BuildStore
func (s *buildStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *buildStore) succeed(result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = httptransport.Build{
		RunID:    result.RunID,
		BuiltAt:  result.BuiltAt,
		Duration: result.Duration,
		Document: result.Document,
	}
	s.ok = true
	s.lastErr = nil
}

// fail keeps the previous document so pages stay usable while the sheet is broken
func (s *buildStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}
