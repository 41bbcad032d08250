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

// Package resolver answers point queries against the index: by alias key,
// by primary key, the workload to service membership join, and gateway
// destinations. Workload results from address and membership queries are
// gated on HEALTHY status; primary key lookups return unhealthy records so
// operators can inspect them.
package resolver

import (
	"net/netip"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/log"
	"github.com/ambientmesh/discovery/pkg/maps"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/slices"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

var resolverLog = log.RegisterScope("resolver", "address resolution queries")

// Resolver serves read queries against an Index. A miss is a normal
// outcome, reported by the boolean result, never by an error.
type Resolver struct {
	index *index.Index
}

func New(ix *index.Index) *Resolver {
	return &Resolver{index: ix}
}

func servable(w model.WorkloadInfo) bool {
	return w.Workload.GetStatus() == workloadapi.WorkloadStatus_HEALTHY
}

// ResolveByAddress resolves the owner of a (network, IP) alias key,
// checking workloads before services. An unhealthy workload is excluded as
// if it did not hold the address.
func (r *Resolver) ResolveByAddress(network string, addr netip.Addr) (model.AddressInfo, bool) {
	target := model.NetworkAddress{Network: network, Addr: addr.Unmap()}
	if w, ok := r.index.WorkloadByAddress(target); ok {
		if servable(w) {
			recordLookup("address", true)
			return model.WorkloadToAddressInfo(w.Workload), true
		}
		resolverLog.Debugf("workload %q at %v is unhealthy, not served", w.ResourceName(), target)
	}
	if s, ok := r.index.ServiceByAddress(target); ok {
		recordLookup("address", true)
		return model.ServiceToAddressInfo(s.Service), true
	}
	recordLookup("address", false)
	return model.AddressInfo{}, false
}

// ResolveByKey resolves a record by its primary key: UID for workloads,
// "namespace/hostname" for services. No health gate is applied.
func (r *Resolver) ResolveByKey(key string, kind model.Kind) (model.AddressInfo, bool) {
	switch kind {
	case model.WorkloadKind:
		if w, ok := r.index.Workload(key); ok {
			recordLookup("key", true)
			return model.WorkloadToAddressInfo(w.Workload), true
		}
	case model.ServiceKind:
		if s, ok := r.index.Service(key); ok {
			recordLookup("key", true)
			return model.ServiceToAddressInfo(s.Service), true
		}
	}
	recordLookup("key", false)
	return model.AddressInfo{}, false
}

// Membership pairs a Service with the ports a workload serves it on.
type Membership struct {
	Service model.ServiceInfo
	Ports   []*workloadapi.Port
}

// ResolveServiceMembership lists the services the workload identified by
// uid backs, ordered by service key. The effective ports are the
// workload's own port list when non-empty, the service defaults otherwise.
// Entries whose Service record has not arrived are pending membership and
// are skipped. An unhealthy or unknown workload resolves to nothing.
func (r *Resolver) ResolveServiceMembership(uid string) []Membership {
	w, ok := r.index.Workload(uid)
	if !ok || !servable(w) {
		return nil
	}
	declared := w.Workload.GetServices()
	var out []Membership
	for _, key := range slices.Sort(maps.Keys(declared)) {
		svc, ok := r.index.Service(key)
		if !ok {
			danglingReferences.Increment()
			resolverLog.Debugf("workload %q references service %q with no record", uid, key)
			continue
		}
		out = append(out, Membership{Service: svc, Ports: effectivePorts(declared[key], svc)})
	}
	return out
}

// Endpoint pairs a workload backing a service with its effective ports.
type Endpoint struct {
	Workload model.WorkloadInfo
	Ports    []*workloadapi.Port
}

// ResolveServiceEndpoints lists the healthy workloads backing a service
// key, ordered by UID, with the effective ports each serves. A service key
// with no record resolves to nothing.
func (r *Resolver) ResolveServiceEndpoints(key string) []Endpoint {
	svc, ok := r.index.Service(key)
	if !ok {
		return nil
	}
	var out []Endpoint
	for _, w := range r.index.ServiceEndpoints(key) {
		if !servable(w) {
			continue
		}
		out = append(out, Endpoint{Workload: w, Ports: effectivePorts(w.Workload.GetServices()[key], svc)})
	}
	return out
}

// Gateway is a resolved gateway destination plus the port traffic to it
// must use.
type Gateway struct {
	Target model.AddressInfo
	Port   uint32
}

// ResolveGateway resolves a gateway destination: the hostname variant by
// service primary key, the address variant by alias lookup.
func (r *Resolver) ResolveGateway(gw *workloadapi.GatewayAddress) (Gateway, bool) {
	switch dst := gw.GetDestination().(type) {
	case *workloadapi.GatewayAddress_Hostname:
		key := model.ServiceKey(dst.Hostname.GetNamespace(), dst.Hostname.GetHostname())
		if target, ok := r.ResolveByKey(key, model.ServiceKind); ok {
			recordLookup("gateway", true)
			return Gateway{Target: target, Port: gw.GetPort()}, true
		}
	case *workloadapi.GatewayAddress_Address:
		ip, ok := model.AddrFromBytes(dst.Address.GetAddress())
		if !ok {
			break
		}
		if target, ok := r.ResolveByAddress(dst.Address.GetNetwork(), ip); ok {
			recordLookup("gateway", true)
			return Gateway{Target: target, Port: gw.GetPort()}, true
		}
	}
	recordLookup("gateway", false)
	return Gateway{}, false
}

func effectivePorts(declared *workloadapi.PortList, svc model.ServiceInfo) []*workloadapi.Port {
	if ports := declared.GetPorts(); len(ports) > 0 {
		return ports
	}
	return svc.Service.GetPorts()
}
