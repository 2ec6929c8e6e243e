// Package invalidset is the bounded, weakly-evicting set of block hashes
// the node has independently verified as invalid, per spec.md §4.C. It
// mirrors parking_lot::RwLockUpgradableReadGuard's "read, then maybe
// upgrade to write" pattern from the Rust source's InvalidBlockSet using
// plain sync.RWMutex, since Go has no native upgradable lock: callers that
// need contains-then-insert call VerifyInvalid directly, which manages the
// lock-escalation itself to avoid the inversion a naive RLock-then-Lock
// sequence would risk.
package invalidset

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultCapacity mirrors the Rust source's fixed bound on the invalid
// block set (it is never allowed to grow unbounded, since the set is only
// an optimization to avoid re-validating known-bad blocks).
const DefaultCapacity = 1 << 16

// Set is a fixed-capacity collection of block hashes known to be invalid.
// Eviction is weak: once at capacity, an arbitrary existing member is
// dropped to make room (Go map iteration order), matching the Rust
// source's reliance on whatever order the underlying HashSet iterates.
type Set struct {
	mu       sync.RWMutex
	capacity int
	members  map[common.Hash]struct{}
}

// New constructs an empty Set bounded at capacity.
func New(capacity int) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Set{capacity: capacity, members: make(map[common.Hash]struct{})}
}

// Contains reports whether hash is currently recorded as invalid.
func (s *Set) Contains(hash common.Hash) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[hash]
	return ok
}

// Insert unconditionally records hash as invalid, evicting an arbitrary
// member first if the set is at capacity.
func (s *Set) Insert(hash common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(hash)
}

func (s *Set) insertLocked(hash common.Hash) {
	if _, ok := s.members[hash]; ok {
		return
	}
	if len(s.members) >= s.capacity {
		for victim := range s.members {
			delete(s.members, victim)
			break
		}
	}
	s.members[hash] = struct{}{}
}

// VerifyInvalid reports whether hash is already known invalid and, if not,
// records it as such — a single atomic contains-then-insert, avoiding the
// lock-inversion a naive Contains-then-Insert call pair would risk under
// concurrent writers.
func (s *Set) VerifyInvalid(hash common.Hash) (alreadyKnown bool) {
	s.mu.RLock()
	if _, ok := s.members[hash]; ok {
		s.mu.RUnlock()
		return true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[hash]; ok {
		return true
	}
	s.insertLocked(hash)
	return false
}

// Remove drops hash from the set, if present.
func (s *Set) Remove(hash common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, hash)
}

// Len reports the current member count.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}
