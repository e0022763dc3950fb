// Package registry maintains the mapping from worker IDs to their
// declared capabilities and answers candidate queries for task routing.
package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/voxroute/voxroute/pkg/models"
)

// ErrNotFound indicates no capability is registered under the given ID.
var ErrNotFound = errors.New("worker not found")

// ErrDuplicateRegistration indicates a conflicting capability is already
// registered under the same ID and replacement was not requested.
var ErrDuplicateRegistration = errors.New("worker already registered with a different capability")

// Candidate is a worker that matched a tag query, with its match score.
type Candidate struct {
	// ID is the worker identifier.
	ID string
	// Capability is the worker's declared capability.
	Capability models.Capability
	// Score is baseConfidence * (tag overlap / required tags).
	Score float64
	// MatchedTags are the required tags this worker covers.
	MatchedTags []string
}

// CapabilityRegistry provides thread-safe storage and lookup of worker
// capabilities. Writes happen at startup (and on manifest reload); reads
// happen on every task submission.
type CapabilityRegistry struct {
	// caps maps worker IDs to capabilities.
	caps map[string]models.Capability
	// mu protects caps. Read-mostly after startup.
	mu sync.RWMutex
}

// NewCapabilityRegistry creates an empty registry.
func NewCapabilityRegistry() *CapabilityRegistry {
	return &CapabilityRegistry{
		caps: make(map[string]models.Capability),
	}
}

// Register adds a capability under its ID.
//
// Registering the exact same capability twice is a no-op. Registering a
// conflicting capability for an existing ID returns
// ErrDuplicateRegistration unless replace is set, in which case the new
// capability silently supersedes the old one.
func (r *CapabilityRegistry) Register(cap models.Capability, replace bool) error {
	if err := cap.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.caps[cap.ID]; ok {
		if existing.Equal(cap) {
			return nil // idempotent re-registration
		}
		if !replace {
			return ErrDuplicateRegistration
		}
	}
	r.caps[cap.ID] = cap
	return nil
}

// Get returns the capability registered under id.
func (r *CapabilityRegistry) Get(id string) (models.Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cap, ok := r.caps[id]
	if !ok {
		return models.Capability{}, ErrNotFound
	}
	return cap, nil
}

// All returns a copy of every registered capability, ordered by ID.
func (r *CapabilityRegistry) All() []models.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps := make([]models.Capability, 0, len(r.caps))
	for _, c := range r.caps {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].ID < caps[j].ID })
	return caps
}

// Count returns the number of registered workers.
func (r *CapabilityRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caps)
}

// FindByTags returns every worker whose expertise tags overlap
// requiredTags, scored by baseConfidence * (overlap / len(requiredTags))
// and sorted by descending score. Ties are broken by worker ID so the
// ordering is deterministic.
func (r *CapabilityRegistry) FindByTags(requiredTags []string) []Candidate {
	if len(requiredTags) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []Candidate
	for id, cap := range r.caps {
		var matched []string
		for _, tag := range requiredTags {
			if cap.HasTag(tag) {
				matched = append(matched, tag)
			}
		}
		if len(matched) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:          id,
			Capability:  cap,
			Score:       cap.BaseConfidence * float64(len(matched)) / float64(len(requiredTags)),
			MatchedTags: matched,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
