// api/store/directory_store.go
package store

import (
	"sync"
	"time"

	"github.com/zt-labs/aegis/api/model"
)

// DirectoryStore holds the in-memory registries of identities, devices,
// network segments and access policies. Registration is an idempotent
// overwrite by ID; semantic validation is the caller's responsibility.
// Reads dominate, so the store is guarded by a single RWMutex.
type DirectoryStore struct {
	mu         sync.RWMutex
	identities map[string]*model.Identity
	devices    map[string]*model.Device
	segments   map[string]*model.NetworkSegment
	policies   map[string]*model.AccessPolicy
}

func NewDirectoryStore() *DirectoryStore {
	return &DirectoryStore{
		identities: make(map[string]*model.Identity),
		devices:    make(map[string]*model.Device),
		segments:   make(map[string]*model.NetworkSegment),
		policies:   make(map[string]*model.AccessPolicy),
	}
}

func (s *DirectoryStore) AddIdentity(identity *model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.ID] = identity
}

func (s *DirectoryStore) AddDevice(device *model.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[device.ID] = device
}

func (s *DirectoryStore) AddNetworkSegment(segment *model.NetworkSegment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments[segment.ID] = segment
}

func (s *DirectoryStore) AddAccessPolicy(policy *model.AccessPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.ID] = policy
}

func (s *DirectoryStore) Identity(id string) (*model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	return identity, ok
}

func (s *DirectoryStore) Device(id string) (*model.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	device, ok := s.devices[id]
	return device, ok
}

func (s *DirectoryStore) Segment(id string) (*model.NetworkSegment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	segment, ok := s.segments[id]
	return segment, ok
}

func (s *DirectoryStore) Policy(id string) (*model.AccessPolicy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	policy, ok := s.policies[id]
	return policy, ok
}

// Policies returns a snapshot slice of all registered policies.
func (s *DirectoryStore) Policies() []*model.AccessPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	policies := make([]*model.AccessPolicy, 0, len(s.policies))
	for _, p := range s.policies {
		policies = append(policies, p)
	}
	return policies
}

// Segments returns a snapshot slice of all registered network segments.
func (s *DirectoryStore) Segments() []*model.NetworkSegment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	segments := make([]*model.NetworkSegment, 0, len(s.segments))
	for _, seg := range s.segments {
		segments = append(segments, seg)
	}
	return segments
}

// UpdateIdentity applies a mutation to a registered identity under the write
// lock. Returns false when the identity is unknown.
func (s *DirectoryStore) UpdateIdentity(id string, mutate func(*model.Identity)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return false
	}
	mutate(identity)
	return true
}

// RecordPolicyMatch bumps a policy's match statistics. Held under the write
// lock so concurrent evaluations never race on the counter.
func (s *DirectoryStore) RecordPolicyMatch(policyID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if policy, ok := s.policies[policyID]; ok {
		policy.MatchCount++
		policy.LastMatched = &at
	}
}

// Counts reports the registry sizes, used by the admin status endpoint.
func (s *DirectoryStore) Counts() (identities, devices, segments, policies int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities), len(s.devices), len(s.segments), len(s.policies)
}
