package pipeline

import (
	"sync"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// Validator enforces the two acceptance rules: a record must carry at
// least one contact channel, and no two accepted records may share a
// host. It is the single synchronization point for concurrent workers.
type Validator struct {
	mu        sync.Mutex
	seenHosts map[string]struct{}
}

// NewValidator creates an empty Validator.
func NewValidator() *Validator {
	return &Validator{
		seenHosts: make(map[string]struct{}),
	}
}

// Accept checks the record and, on success, claims its host. The
// contact check and the host claim are atomic with respect to other
// callers. Returns ErrNoContact or ErrDuplicateHost on rejection.
func (v *Validator) Accept(rec *types.CompanyRecord) error {
	if !rec.HasContact() {
		return types.ErrNoContact
	}
	host := rec.Host()
	if host == "" {
		return types.ErrDuplicateHost
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seenHosts[host]; ok {
		return types.ErrDuplicateHost
	}
	v.seenHosts[host] = struct{}{}
	return nil
}

// SeenCount returns the number of claimed hosts.
func (v *Validator) SeenCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seenHosts)
}
