package server

import (
	"sync"

	"jobkit/internal/types"
)

// OrgStore holds the organization context served and replaced by the config
// endpoint. It is seeded from configuration at startup and lives only in
// memory; replacements survive until the process exits. Handlers receive the
// store explicitly rather than reaching for shared package state.
type OrgStore struct {
	mu  sync.RWMutex
	org types.OrgContext
}

// NewOrgStore creates a store seeded with the configured defaults
func NewOrgStore(seed types.OrgContext) *OrgStore {
	return &OrgStore{org: seed}
}

// Get returns the current organization context
func (s *OrgStore) Get() types.OrgContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.org
}

// Replace swaps the whole organization context for the given value
func (s *OrgStore) Replace(org types.OrgContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.org = org
}
