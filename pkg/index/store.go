// Copyright Istio Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ambientmesh/discovery/pkg/maps"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/ptr"
	"github.com/ambientmesh/discovery/pkg/slices"
	"github.com/ambientmesh/discovery/pkg/util/sets"
)

// ErrAliasCollision is matched by errors.Is for upserts rejected under
// RejectIncoming.
var ErrAliasCollision = errors.New("alias collision")

// AliasCollisionError reports an upsert that claimed a network address
// already held by a live record of the same kind.
type AliasCollisionError struct {
	Kind   model.Kind
	Alias  model.NetworkAddress
	Holder string
}

func (e *AliasCollisionError) Error() string {
	return fmt.Sprintf("%v alias %v already held by %q", e.Kind, e.Alias, e.Holder)
}

func (e *AliasCollisionError) Is(target error) bool {
	return target == ErrAliasCollision
}

// resource is the view of a record the store needs: its primary key and the
// alias keys it claims.
type resource interface {
	ResourceName() string
	Aliases() []model.NetworkAddress
}

// store holds one kind's primary map and its alias index, mutated as a
// single unit under mu. A record's version counter outlives the record
// itself so a removal acts as a tombstone against late stale writes.
//
// Invariant: a is in aliases[key] exactly when byAlias[a] == key.
type store[T resource] struct {
	kind    model.Kind
	policy  CollisionPolicy
	asAddr  func(T) model.AddressInfo
	notify  func(Event)
	metrics storeMetrics

	// writeMu serializes writers and keeps event delivery in commit order;
	// readers only contend on mu.
	writeMu sync.Mutex

	mu       sync.RWMutex
	byKey    map[string]T
	byAlias  map[model.NetworkAddress]string
	aliases  map[string]sets.Set[model.NetworkAddress]
	versions map[string]uint64

	// onCommit runs inside the critical section after the maps are
	// updated. old is nil on add, updated is nil on remove.
	onCommit func(key string, old, updated *T)
}

func newStore[T resource](kind model.Kind, policy CollisionPolicy, asAddr func(T) model.AddressInfo, notify func(Event)) *store[T] {
	return &store[T]{
		kind:     kind,
		policy:   policy,
		asAddr:   asAddr,
		notify:   notify,
		metrics:  metricsFor(kind),
		byKey:    make(map[string]T),
		byAlias:  make(map[model.NetworkAddress]string),
		aliases:  make(map[string]sets.Set[model.NetworkAddress]),
		versions: make(map[string]uint64),
	}
}

func (s *store[T]) upsert(res T, version uint64) (bool, error) {
	key := res.ResourceName()
	newAliases := sets.New(res.Aliases()...)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if have, ok := s.versions[key]; ok && version <= have {
		s.mu.Unlock()
		s.metrics.staleWrites.Increment()
		indexLog.Debugf("ignoring stale %v write for %q: version %d is not newer than %d", s.kind, key, version, have)
		return false, nil
	}

	// Collisions are resolved before any mutation so a rejected upsert
	// leaves the store untouched.
	var evictions []model.NetworkAddress
	for a := range newAliases {
		holder, ok := s.byAlias[a]
		if !ok || holder == key {
			continue
		}
		if s.policy == RejectIncoming {
			s.mu.Unlock()
			s.metrics.rejected.Increment()
			return false, &AliasCollisionError{Kind: s.kind, Alias: a, Holder: holder}
		}
		evictions = append(evictions, a)
	}
	for _, a := range evictions {
		holder := s.byAlias[a]
		s.aliases[holder].Delete(a)
		if s.aliases[holder].IsEmpty() {
			delete(s.aliases, holder)
		}
		s.metrics.evicted.Increment()
		indexLog.Infof("%v %q claimed alias %v, detached from %q", s.kind, key, a, holder)
	}

	old, existed := s.byKey[key]
	for a := range s.aliases[key] {
		if !newAliases.Contains(a) {
			delete(s.byAlias, a)
		}
	}
	for a := range newAliases {
		s.byAlias[a] = key
	}
	if len(newAliases) > 0 {
		s.aliases[key] = newAliases
	} else {
		delete(s.aliases, key)
	}
	s.byKey[key] = res
	s.versions[key] = version
	if s.onCommit != nil {
		var oldRef *T
		if existed {
			oldRef = &old
		}
		s.onCommit(key, oldRef, &res)
	}
	size := len(s.byKey)
	s.mu.Unlock()

	s.metrics.upserts.Increment()
	s.metrics.resources.RecordInt(int64(size))

	ev := Event{Event: EventAdd, New: ptr.Of(s.asAddr(res))}
	if existed {
		ev.Event = EventUpdate
		ev.Old = ptr.Of(s.asAddr(old))
	}
	s.notify(ev)
	return true, nil
}

func (s *store[T]) remove(key string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	old, ok := s.byKey[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	for a := range s.aliases[key] {
		delete(s.byAlias, a)
	}
	delete(s.aliases, key)
	delete(s.byKey, key)
	// versions[key] survives as a tombstone
	if s.onCommit != nil {
		s.onCommit(key, &old, nil)
	}
	size := len(s.byKey)
	s.mu.Unlock()

	s.metrics.resources.RecordInt(int64(size))
	s.notify(Event{Event: EventDelete, Old: ptr.Of(s.asAddr(old))})
	return true
}

func (s *store[T]) get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.byKey[key]
	return res, ok
}

func (s *store[T]) byAddr(addr model.NetworkAddress) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.byAlias[addr]
	if !ok {
		return ptr.Empty[T](), false
	}
	res, ok := s.byKey[key]
	return res, ok
}

// list returns every record ordered by primary key.
func (s *store[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Map(slices.Sort(maps.Keys(s.byKey)), func(key string) T {
		return s.byKey[key]
	})
}

func (s *store[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
