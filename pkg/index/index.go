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

// Package index implements the dual-keyed resource index at the core of the
// discovery service. Every record is reachable under exactly one primary key
// (UID for workloads, "namespace/hostname" for services) and any number of
// (network, address) alias keys. Both views, plus the reverse service
// membership map, are updated as one atomic unit per kind; readers never
// observe a primary entry without its aliases or vice versa.
package index

import (
	"github.com/ambientmesh/discovery/pkg/log"
	"github.com/ambientmesh/discovery/pkg/maps"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/util/sets"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

var indexLog = log.RegisterScope("index", "mesh discovery index")

// CollisionPolicy selects what an upsert does when one of its network
// addresses is already held by a different live record of the same kind.
type CollisionPolicy int

const (
	// RejectIncoming keeps the current holder and rejects the whole
	// incoming upsert. This is the default: a duplicate announcement must
	// not evict a record the producer has not torn down.
	RejectIncoming CollisionPolicy = iota

	// LastWriterWins installs the incoming record and detaches the
	// colliding address from its current holder. The holder record itself
	// stays in the index.
	LastWriterWins
)

// Options configures an Index.
type Options struct {
	// Collision is the alias collision policy, RejectIncoming by default.
	Collision CollisionPolicy
}

// Index is the dual-keyed store for workload and service records.
type Index struct {
	workloads *store[model.WorkloadInfo]
	services  *store[model.ServiceInfo]

	// byService maps a service key to the UIDs of the workloads declaring
	// membership, whether or not the Service record has arrived. Guarded
	// by the workload store's lock.
	byService map[string]sets.String

	hostnames *hostnameTracker
	handlers  *handlers
}

// New builds an empty Index. The zero Options value gives the default
// collision policy.
func New(opts Options) *Index {
	i := &Index{
		byService: make(map[string]sets.String),
		hostnames: newHostnameTracker(),
		handlers:  &handlers{},
	}
	i.workloads = newStore(model.WorkloadKind, opts.Collision, func(w model.WorkloadInfo) model.AddressInfo {
		return model.WorkloadToAddressInfo(w.Workload)
	}, i.handlers.dispatch)
	i.services = newStore(model.ServiceKind, opts.Collision, func(s model.ServiceInfo) model.AddressInfo {
		return model.ServiceToAddressInfo(s.Service)
	}, i.handlers.dispatch)
	i.workloads.onCommit = i.updateMembership
	return i
}

// UpsertWorkload installs or replaces the record stored for the workload's
// UID. applied is false when version is not newer than the stored version;
// a validation failure or alias collision rejects the record entirely.
func (i *Index) UpsertWorkload(w *workloadapi.Workload, version uint64) (bool, error) {
	if err := w.Validate(); err != nil {
		return false, err
	}
	applied, err := i.workloads.upsert(model.WorkloadInfo{Workload: w}, version)
	if applied {
		i.hostnames.invalidate(w.GetUid())
	}
	return applied, err
}

// RemoveWorkload deletes the record stored for uid, reporting whether it
// existed. The version counter survives so a late stale write cannot
// resurrect the record.
func (i *Index) RemoveWorkload(uid string) bool {
	existed := i.workloads.remove(uid)
	if existed {
		i.hostnames.invalidate(uid)
	}
	return existed
}

// Workload returns the record stored for uid.
func (i *Index) Workload(uid string) (model.WorkloadInfo, bool) {
	return i.workloads.get(uid)
}

// WorkloadByAddress returns the workload holding the alias key.
func (i *Index) WorkloadByAddress(addr model.NetworkAddress) (model.WorkloadInfo, bool) {
	return i.workloads.byAddr(addr)
}

// UpsertService installs or replaces the record stored for the service's
// "namespace/hostname" key, with the same semantics as UpsertWorkload.
func (i *Index) UpsertService(s *workloadapi.Service, version uint64) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	return i.services.upsert(model.ServiceInfo{Service: s}, version)
}

// RemoveService deletes the record stored for a "namespace/hostname" key.
func (i *Index) RemoveService(key string) bool {
	return i.services.remove(key)
}

// Service returns the record stored for a "namespace/hostname" key.
func (i *Index) Service(key string) (model.ServiceInfo, bool) {
	return i.services.get(key)
}

// ServiceByAddress returns the service holding the alias key.
func (i *Index) ServiceByAddress(addr model.NetworkAddress) (model.ServiceInfo, bool) {
	return i.services.byAddr(addr)
}

// ServiceMembers returns the UIDs of the workloads declaring membership in
// the service key, including members whose Service record has not arrived.
func (i *Index) ServiceMembers(key string) []string {
	i.workloads.mu.RLock()
	defer i.workloads.mu.RUnlock()
	return sets.SortedList(i.byService[key])
}

// ServiceEndpoints returns the workload records backing a service key,
// ordered by UID. No health filtering is applied here.
func (i *Index) ServiceEndpoints(key string) []model.WorkloadInfo {
	i.workloads.mu.RLock()
	defer i.workloads.mu.RUnlock()
	out := make([]model.WorkloadInfo, 0, len(i.byService[key]))
	for _, uid := range sets.SortedList(i.byService[key]) {
		if w, ok := i.workloads.byKey[uid]; ok {
			out = append(out, w)
		}
	}
	return out
}

// All returns every record wrapped in its Address envelope, workloads
// ordered by UID followed by services ordered by key.
func (i *Index) All() []model.AddressInfo {
	workloads := i.workloads.list()
	services := i.services.list()
	res := make([]model.AddressInfo, 0, len(workloads)+len(services))
	for _, w := range workloads {
		res = append(res, model.WorkloadToAddressInfo(w.Workload))
	}
	for _, s := range services {
		res = append(res, model.ServiceToAddressInfo(s.Service))
	}
	return res
}

// Snapshot holds a point-in-time listing of both kinds in stable order.
type Snapshot struct {
	Workloads []model.WorkloadInfo
	Services  []model.ServiceInfo
}

// Snapshot lists both kinds, each ordered by primary key. The kinds are
// read sequentially; each slice is internally consistent.
func (i *Index) Snapshot() Snapshot {
	return Snapshot{
		Workloads: i.workloads.list(),
		Services:  i.services.list(),
	}
}

// RegisterHandler subscribes fn to committed change events. Handlers run
// synchronously in commit order, outside the state lock; a handler may read
// the index but must not write back into it.
func (i *Index) RegisterHandler(fn Handler) {
	i.handlers.register(fn)
}

// updateMembership runs inside the workload store's critical section and
// keeps byService in lockstep with the committed record.
func (i *Index) updateMembership(uid string, old, updated *model.WorkloadInfo) {
	var oldKeys, newKeys sets.String
	if old != nil {
		oldKeys = sets.New(maps.Keys(old.Workload.GetServices())...)
	}
	if updated != nil {
		newKeys = sets.New(maps.Keys(updated.Workload.GetServices())...)
	}
	for key := range oldKeys.Difference(newKeys) {
		members := i.byService[key]
		members.Delete(uid)
		if members.IsEmpty() {
			delete(i.byService, key)
		}
	}
	for key := range newKeys.Difference(oldKeys) {
		if i.byService[key] == nil {
			i.byService[key] = sets.New[string]()
		}
		i.byService[key].Insert(uid)
	}
}
