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

// Package model wraps the wire-level record types with the derived views
// the index and resolver work in terms of: primary keys, alias-key tuples,
// mesh default substitution, and the SPIFFE identity join.
package model

import (
	"github.com/ambientmesh/discovery/pkg/spiffe"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

// ServiceKey derives a service's primary key. There is no separate key
// field on the record; the key is always namespace + "/" + hostname.
func ServiceKey(namespace, hostname string) string {
	return namespace + "/" + hostname
}

// AddressInfo wraps the Address envelope with the derived key views.
type AddressInfo struct {
	*workloadapi.Address
}

func (i AddressInfo) Equals(other AddressInfo) bool {
	return i.Address.Equal(other.Address)
}

// ResourceName returns the primary key of the wrapped record.
func (i AddressInfo) ResourceName() string {
	switch addr := i.Type.(type) {
	case *workloadapi.Address_Workload:
		return WorkloadInfo{Workload: addr.Workload}.ResourceName()
	case *workloadapi.Address_Service:
		return ServiceInfo{Service: addr.Service}.ResourceName()
	}
	return ""
}

// Aliases returns the alias keys of the wrapped record.
func (i AddressInfo) Aliases() []NetworkAddress {
	switch addr := i.Type.(type) {
	case *workloadapi.Address_Workload:
		return WorkloadInfo{Workload: addr.Workload}.Aliases()
	case *workloadapi.Address_Service:
		return ServiceInfo{Service: addr.Service}.Aliases()
	}
	return nil
}

// Kind reports which variant the envelope carries.
func (i AddressInfo) Kind() Kind {
	switch i.Type.(type) {
	case *workloadapi.Address_Workload:
		return WorkloadKind
	case *workloadapi.Address_Service:
		return ServiceKind
	}
	return UnknownKind
}

// WorkloadToAddressInfo wraps a workload in the Address envelope.
func WorkloadToAddressInfo(w *workloadapi.Workload) AddressInfo {
	return AddressInfo{
		Address: &workloadapi.Address{
			Type: &workloadapi.Address_Workload{Workload: w},
		},
	}
}

// ServiceToAddressInfo wraps a service in the Address envelope.
func ServiceToAddressInfo(s *workloadapi.Service) AddressInfo {
	return AddressInfo{
		Address: &workloadapi.Address{
			Type: &workloadapi.Address_Service{Service: s},
		},
	}
}

// WorkloadInfo wraps a workload record with its derived key views.
type WorkloadInfo struct {
	Workload *workloadapi.Workload
}

func (i WorkloadInfo) Equals(other WorkloadInfo) bool {
	return i.Workload.Equal(other.Workload)
}

// ResourceName returns the workload's primary key, its UID.
func (i WorkloadInfo) ResourceName() string {
	return i.Workload.GetUid()
}

// Aliases returns one alias key per bind address, all on the workload's
// single network. Malformed address bytes produce no alias; validation
// rejects them before a record reaches the index.
func (i WorkloadInfo) Aliases() []NetworkAddress {
	addrs := i.Workload.GetAddresses()
	aliases := make([]NetworkAddress, 0, len(addrs))
	network := i.Workload.GetNetwork()
	for _, b := range addrs {
		addr, ok := AddrFromBytes(b)
		if !ok {
			continue
		}
		aliases = append(aliases, NetworkAddress{Network: network, Addr: addr})
	}
	return aliases
}

// Identity derives the workload's SPIFFE identity, substituting the mesh
// trust domain and the "default" service account when the record leaves
// them empty.
func (i WorkloadInfo) Identity() spiffe.Identity {
	td := i.Workload.GetTrustDomain()
	if td == "" {
		td = spiffe.GetTrustDomain()
	}
	sa := i.Workload.GetServiceAccount()
	if sa == "" {
		sa = "default"
	}
	return spiffe.Identity{
		TrustDomain:    td,
		Namespace:      i.Workload.GetNamespace(),
		ServiceAccount: sa,
	}
}

// ServiceInfo wraps a service record with its derived key views.
type ServiceInfo struct {
	Service *workloadapi.Service
}

func (i ServiceInfo) Equals(other ServiceInfo) bool {
	return i.Service.Equal(other.Service)
}

// ResourceName returns the service's derived primary key.
func (i ServiceInfo) ResourceName() string {
	return ServiceKey(i.Service.GetNamespace(), i.Service.GetHostname())
}

// Aliases returns one alias key per service VIP. Headless services have
// none.
func (i ServiceInfo) Aliases() []NetworkAddress {
	addrs := i.Service.GetAddresses()
	aliases := make([]NetworkAddress, 0, len(addrs))
	for _, na := range addrs {
		addr, ok := AddrFromBytes(na.GetAddress())
		if !ok {
			continue
		}
		aliases = append(aliases, NetworkAddress{Network: na.GetNetwork(), Addr: addr})
	}
	return aliases
}
