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

package resolver

import (
	"net/netip"
	"testing"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/test/util/assert"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

func addrBytes(ip string) []byte {
	return netip.MustParseAddr(ip).AsSlice()
}

func healthyWorkload(uid, network string, ips ...string) *workloadapi.Workload {
	w := &workloadapi.Workload{
		Uid:     uid,
		Network: network,
	}
	for _, ip := range ips {
		w.Addresses = append(w.Addresses, addrBytes(ip))
	}
	return w
}

func vipService(namespace, hostname, network, vip string, ports ...*workloadapi.Port) *workloadapi.Service {
	return &workloadapi.Service{
		Namespace: namespace,
		Hostname:  hostname,
		Addresses: []*workloadapi.NetworkAddress{{Network: network, Address: addrBytes(vip)}},
		Ports:     ports,
	}
}

func mustUpsertWorkload(t *testing.T, idx *index.Index, w *workloadapi.Workload, version uint64) {
	t.Helper()
	applied, err := idx.UpsertWorkload(w, version)
	assert.NoError(t, err)
	assert.Equal(t, applied, true)
}

func mustUpsertService(t *testing.T, idx *index.Index, s *workloadapi.Service, version uint64) {
	t.Helper()
	applied, err := idx.UpsertService(s, version)
	assert.NoError(t, err)
	assert.Equal(t, applied, true)
}

func TestResolveByAddress(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index

	mustUpsertWorkload(t, ix, healthyWorkload("uid-1", "net-a", "10.0.0.1"), 1)
	mustUpsertService(t, ix, vipService("default", "svc.local", "net-a", "10.0.0.5", &workloadapi.Port{ServicePort: 80, TargetPort: 8080}), 1)

	got, ok := r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.1"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.ResourceName(), "uid-1")
	assert.Equal(t, got.Kind(), model.WorkloadKind)

	got, ok = r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.5"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.Kind(), model.ServiceKind)

	// A v4-mapped representation of the same address resolves identically.
	got, ok = r.ResolveByAddress("net-a", netip.MustParseAddr("::ffff:10.0.0.1"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.ResourceName(), "uid-1")

	_, ok = r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.9"))
	assert.Equal(t, ok, false)
	_, ok = r.ResolveByAddress("net-b", netip.MustParseAddr("10.0.0.1"))
	assert.Equal(t, ok, false)
}

func TestResolveByAddressPrecedence(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index

	// A workload and a service share the address; the workload wins.
	mustUpsertService(t, ix, vipService("default", "svc.local", "net-a", "10.0.0.5"), 1)
	mustUpsertWorkload(t, ix, healthyWorkload("uid-1", "net-a", "10.0.0.5"), 1)

	got, ok := r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.5"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.Kind(), model.WorkloadKind)
	assert.Equal(t, got.ResourceName(), "uid-1")
}

func TestResolveHealthGate(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index

	sick := healthyWorkload("uid-1", "net-a", "10.0.0.1")
	sick.Status = workloadapi.WorkloadStatus_UNHEALTHY
	mustUpsertWorkload(t, ix, sick, 1)

	// Excluded from address resolution, still visible by primary key.
	_, ok := r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.1"))
	assert.Equal(t, ok, false)
	got, ok := r.ResolveByKey("uid-1", model.WorkloadKind)
	assert.Equal(t, ok, true)
	assert.Equal(t, got.GetWorkload().GetStatus(), workloadapi.WorkloadStatus_UNHEALTHY)

	// With the workload excluded, a service on the same address is the
	// first remaining hit.
	mustUpsertService(t, ix, vipService("default", "svc.local", "net-a", "10.0.0.1"), 1)
	got, ok = r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.1"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.Kind(), model.ServiceKind)

	// Recovery reinstates the workload.
	mustUpsertWorkload(t, ix, healthyWorkload("uid-1", "net-a", "10.0.0.1"), 2)
	got, ok = r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.1"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.Kind(), model.WorkloadKind)
}

func TestResolveByKey(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index

	mustUpsertWorkload(t, ix, healthyWorkload("uid-1", "net-a", "10.0.0.1"), 1)
	mustUpsertService(t, ix, vipService("default", "svc.local", "net-a", "10.0.0.5"), 1)

	got, ok := r.ResolveByKey("uid-1", model.WorkloadKind)
	assert.Equal(t, ok, true)
	assert.Equal(t, got.ResourceName(), "uid-1")

	got, ok = r.ResolveByKey(model.ServiceKey("default", "svc.local"), model.ServiceKind)
	assert.Equal(t, ok, true)
	assert.Equal(t, got.ResourceName(), "default/svc.local")

	// Keys do not cross kinds.
	_, ok = r.ResolveByKey("uid-1", model.ServiceKind)
	assert.Equal(t, ok, false)
	_, ok = r.ResolveByKey("default/svc.local", model.WorkloadKind)
	assert.Equal(t, ok, false)
}

func TestResolveServiceMembership(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index

	mustUpsertService(t, ix, vipService("default", "a.local", "net-a", "10.1.0.1", &workloadapi.Port{ServicePort: 80, TargetPort: 8080}), 1)
	mustUpsertService(t, ix, vipService("default", "b.local", "net-a", "10.1.0.2", &workloadapi.Port{ServicePort: 443, TargetPort: 8443}), 1)

	w := healthyWorkload("uid-1", "net-a", "10.0.0.1")
	w.Services = map[string]*workloadapi.PortList{
		// Empty list inherits the service defaults.
		"default/a.local": {},
		// A non-empty list overrides them.
		"default/b.local": {Ports: []*workloadapi.Port{{ServicePort: 443, TargetPort: 9443}}},
		// No record yet; membership pending.
		"default/c.local": {},
	}
	mustUpsertWorkload(t, ix, w, 1)

	got := r.ResolveServiceMembership("uid-1")
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].Service.ResourceName(), "default/a.local")
	assert.Equal(t, got[0].Ports, []*workloadapi.Port{{ServicePort: 80, TargetPort: 8080}})
	assert.Equal(t, got[1].Service.ResourceName(), "default/b.local")
	assert.Equal(t, got[1].Ports, []*workloadapi.Port{{ServicePort: 443, TargetPort: 9443}})

	// Unknown and unhealthy workloads resolve to nothing.
	assert.Equal(t, len(r.ResolveServiceMembership("uid-missing")), 0)
	sick := healthyWorkload("uid-1", "net-a", "10.0.0.1")
	sick.Services = w.Services
	sick.Status = workloadapi.WorkloadStatus_UNHEALTHY
	mustUpsertWorkload(t, ix, sick, 2)
	assert.Equal(t, len(r.ResolveServiceMembership("uid-1")), 0)
}

func TestResolveServiceEndpoints(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index
	key := model.ServiceKey("default", "svc.local")

	mustUpsertService(t, ix, vipService("default", "svc.local", "net-a", "10.1.0.1", &workloadapi.Port{ServicePort: 80, TargetPort: 8080}), 1)

	w1 := healthyWorkload("uid-1", "net-a", "10.0.0.1")
	w1.Services = map[string]*workloadapi.PortList{key: {}}
	mustUpsertWorkload(t, ix, w1, 1)

	w2 := healthyWorkload("uid-2", "net-a", "10.0.0.2")
	w2.Services = map[string]*workloadapi.PortList{key: {Ports: []*workloadapi.Port{{ServicePort: 80, TargetPort: 9080}}}}
	mustUpsertWorkload(t, ix, w2, 1)

	w3 := healthyWorkload("uid-3", "net-a", "10.0.0.3")
	w3.Services = map[string]*workloadapi.PortList{key: {}}
	w3.Status = workloadapi.WorkloadStatus_UNHEALTHY
	mustUpsertWorkload(t, ix, w3, 1)

	got := r.ResolveServiceEndpoints(key)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].Workload.ResourceName(), "uid-1")
	assert.Equal(t, got[0].Ports, []*workloadapi.Port{{ServicePort: 80, TargetPort: 8080}})
	assert.Equal(t, got[1].Workload.ResourceName(), "uid-2")
	assert.Equal(t, got[1].Ports, []*workloadapi.Port{{ServicePort: 80, TargetPort: 9080}})

	assert.Equal(t, len(r.ResolveServiceEndpoints("default/missing.local")), 0)
}

func TestResolveGateway(t *testing.T) {
	r := New(index.New(index.Options{}))
	ix := r.index

	mustUpsertService(t, ix, vipService("istio-system", "waypoint.local", "net-a", "10.2.0.1", &workloadapi.Port{ServicePort: 15008, TargetPort: 15008}), 1)
	mustUpsertWorkload(t, ix, healthyWorkload("uid-gw", "net-a", "10.2.0.9"), 1)

	byHostname := &workloadapi.GatewayAddress{
		Destination: &workloadapi.GatewayAddress_Hostname{
			Hostname: &workloadapi.NamespacedHostname{Namespace: "istio-system", Hostname: "waypoint.local"},
		},
		Port: 15008,
	}
	got, ok := r.ResolveGateway(byHostname)
	assert.Equal(t, ok, true)
	assert.Equal(t, got.Target.ResourceName(), "istio-system/waypoint.local")
	assert.Equal(t, got.Port, uint32(15008))

	byAddress := &workloadapi.GatewayAddress{
		Destination: &workloadapi.GatewayAddress_Address{
			Address: &workloadapi.NetworkAddress{Network: "net-a", Address: addrBytes("10.2.0.9")},
		},
		Port: 15443,
	}
	got, ok = r.ResolveGateway(byAddress)
	assert.Equal(t, ok, true)
	assert.Equal(t, got.Target.ResourceName(), "uid-gw")
	assert.Equal(t, got.Port, uint32(15443))

	miss := &workloadapi.GatewayAddress{
		Destination: &workloadapi.GatewayAddress_Hostname{
			Hostname: &workloadapi.NamespacedHostname{Namespace: "istio-system", Hostname: "missing.local"},
		},
	}
	_, ok = r.ResolveGateway(miss)
	assert.Equal(t, ok, false)
	_, ok = r.ResolveGateway(nil)
	assert.Equal(t, ok, false)
}

// TestDiscoveryFlow walks a full producer/consumer exchange: a service and
// a backing workload arrive, then both resolution paths are queried.
func TestDiscoveryFlow(t *testing.T) {
	ix := index.New(index.Options{})
	r := New(ix)

	svc := &workloadapi.Service{
		Namespace: "default",
		Hostname:  "svc.local",
		Addresses: []*workloadapi.NetworkAddress{{Network: "net-a", Address: addrBytes("10.0.0.5")}},
		Ports:     []*workloadapi.Port{{ServicePort: 80, TargetPort: 8080}},
	}
	mustUpsertService(t, ix, svc, 1)

	w := &workloadapi.Workload{
		Uid:       "w1",
		Addresses: [][]byte{addrBytes("10.0.0.9")},
		Network:   "net-a",
		Services:  map[string]*workloadapi.PortList{"default/svc.local": {}},
		Status:    workloadapi.WorkloadStatus_HEALTHY,
	}
	mustUpsertWorkload(t, ix, w, 1)

	got, ok := r.ResolveByAddress("net-a", netip.MustParseAddr("10.0.0.9"))
	assert.Equal(t, ok, true)
	assert.Equal(t, got.GetWorkload(), w)

	memberships := r.ResolveServiceMembership("w1")
	assert.Equal(t, len(memberships), 1)
	assert.Equal(t, memberships[0].Service.Service, svc)
	assert.Equal(t, memberships[0].Ports, []*workloadapi.Port{{ServicePort: 80, TargetPort: 8080}})
}
