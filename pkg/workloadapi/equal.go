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

package workloadapi

import (
	"bytes"
	"slices"
)

// Equal methods compare all fields, including retained unknown bytes, so
// that a decoded record is equal to its source if and only if re-encoding
// would reproduce the same data. github.com/google/go-cmp picks these up
// automatically.

func (x *Address) Equal(y *Address) bool {
	if x == nil || y == nil {
		return x == y
	}
	if !bytes.Equal(x.unknown, y.unknown) {
		return false
	}
	switch xt := x.Type.(type) {
	case *Address_Workload:
		yt, ok := y.Type.(*Address_Workload)
		return ok && xt.Workload.Equal(yt.Workload)
	case *Address_Service:
		yt, ok := y.Type.(*Address_Service)
		return ok && xt.Service.Equal(yt.Service)
	case nil:
		return y.Type == nil
	default:
		return false
	}
}

func (x *Workload) Equal(y *Workload) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.Name != y.Name ||
		x.Namespace != y.Namespace ||
		x.Network != y.Network ||
		x.TunnelProtocol != y.TunnelProtocol ||
		x.TrustDomain != y.TrustDomain ||
		x.ServiceAccount != y.ServiceAccount ||
		x.Node != y.Node ||
		x.CanonicalName != y.CanonicalName ||
		x.CanonicalRevision != y.CanonicalRevision ||
		x.WorkloadType != y.WorkloadType ||
		x.WorkloadName != y.WorkloadName ||
		x.NativeTunnel != y.NativeTunnel ||
		x.Status != y.Status ||
		x.ClusterId != y.ClusterId ||
		x.Uid != y.Uid ||
		x.Hostname != y.Hostname {
		return false
	}
	if len(x.Addresses) != len(y.Addresses) {
		return false
	}
	for i := range x.Addresses {
		if !bytes.Equal(x.Addresses[i], y.Addresses[i]) {
			return false
		}
	}
	if !slices.Equal(x.AuthorizationPolicies, y.AuthorizationPolicies) {
		return false
	}
	if !x.Waypoint.Equal(y.Waypoint) || !x.NetworkGateway.Equal(y.NetworkGateway) {
		return false
	}
	if len(x.Services) != len(y.Services) {
		return false
	}
	for k, v := range x.Services {
		w, ok := y.Services[k]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return bytes.Equal(x.unknown, y.unknown)
}

func (x *Service) Equal(y *Service) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.Name != y.Name ||
		x.Namespace != y.Namespace ||
		x.Hostname != y.Hostname {
		return false
	}
	if len(x.Addresses) != len(y.Addresses) {
		return false
	}
	for i := range x.Addresses {
		if !x.Addresses[i].Equal(y.Addresses[i]) {
			return false
		}
	}
	if len(x.Ports) != len(y.Ports) {
		return false
	}
	for i := range x.Ports {
		if !x.Ports[i].Equal(y.Ports[i]) {
			return false
		}
	}
	if !slices.Equal(x.SubjectAltNames, y.SubjectAltNames) {
		return false
	}
	return bytes.Equal(x.unknown, y.unknown)
}

func (x *NetworkAddress) Equal(y *NetworkAddress) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Network == y.Network &&
		bytes.Equal(x.Address, y.Address) &&
		bytes.Equal(x.unknown, y.unknown)
}

func (x *NamespacedHostname) Equal(y *NamespacedHostname) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Namespace == y.Namespace &&
		x.Hostname == y.Hostname &&
		bytes.Equal(x.unknown, y.unknown)
}

func (x *GatewayAddress) Equal(y *GatewayAddress) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.Port != y.Port || !bytes.Equal(x.unknown, y.unknown) {
		return false
	}
	switch xd := x.Destination.(type) {
	case *GatewayAddress_Hostname:
		yd, ok := y.Destination.(*GatewayAddress_Hostname)
		return ok && xd.Hostname.Equal(yd.Hostname)
	case *GatewayAddress_Address:
		yd, ok := y.Destination.(*GatewayAddress_Address)
		return ok && xd.Address.Equal(yd.Address)
	case nil:
		return y.Destination == nil
	default:
		return false
	}
}

func (x *PortList) Equal(y *PortList) bool {
	if x == nil || y == nil {
		return x == y
	}
	if len(x.Ports) != len(y.Ports) {
		return false
	}
	for i := range x.Ports {
		if !x.Ports[i].Equal(y.Ports[i]) {
			return false
		}
	}
	return bytes.Equal(x.unknown, y.unknown)
}

func (x *Port) Equal(y *Port) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.ServicePort == y.ServicePort &&
		x.TargetPort == y.TargetPort &&
		bytes.Equal(x.unknown, y.unknown)
}

// Clone methods deep-copy a record, retained unknown bytes included. The
// index clones on ingest so stored records never alias producer memory.

func (x *Address) Clone() *Address {
	if x == nil {
		return nil
	}
	c := &Address{unknown: slices.Clone(x.unknown)}
	switch t := x.Type.(type) {
	case *Address_Workload:
		c.Type = &Address_Workload{Workload: t.Workload.Clone()}
	case *Address_Service:
		c.Type = &Address_Service{Service: t.Service.Clone()}
	}
	return c
}

func (x *Workload) Clone() *Workload {
	if x == nil {
		return nil
	}
	c := *x
	c.Addresses = nil
	for _, a := range x.Addresses {
		c.Addresses = append(c.Addresses, slices.Clone(a))
	}
	c.AuthorizationPolicies = slices.Clone(x.AuthorizationPolicies)
	c.Waypoint = x.Waypoint.Clone()
	c.NetworkGateway = x.NetworkGateway.Clone()
	if x.Services != nil {
		c.Services = make(map[string]*PortList, len(x.Services))
		for k, v := range x.Services {
			c.Services[k] = v.Clone()
		}
	}
	c.unknown = slices.Clone(x.unknown)
	return &c
}

func (x *Service) Clone() *Service {
	if x == nil {
		return nil
	}
	c := *x
	c.Addresses = nil
	for _, a := range x.Addresses {
		c.Addresses = append(c.Addresses, a.Clone())
	}
	c.Ports = nil
	for _, p := range x.Ports {
		c.Ports = append(c.Ports, p.Clone())
	}
	c.SubjectAltNames = slices.Clone(x.SubjectAltNames)
	c.unknown = slices.Clone(x.unknown)
	return &c
}

func (x *NetworkAddress) Clone() *NetworkAddress {
	if x == nil {
		return nil
	}
	return &NetworkAddress{
		Network: x.Network,
		Address: slices.Clone(x.Address),
		unknown: slices.Clone(x.unknown),
	}
}

func (x *NamespacedHostname) Clone() *NamespacedHostname {
	if x == nil {
		return nil
	}
	return &NamespacedHostname{
		Namespace: x.Namespace,
		Hostname:  x.Hostname,
		unknown:   slices.Clone(x.unknown),
	}
}

func (x *GatewayAddress) Clone() *GatewayAddress {
	if x == nil {
		return nil
	}
	c := &GatewayAddress{Port: x.Port, unknown: slices.Clone(x.unknown)}
	switch d := x.Destination.(type) {
	case *GatewayAddress_Hostname:
		c.Destination = &GatewayAddress_Hostname{Hostname: d.Hostname.Clone()}
	case *GatewayAddress_Address:
		c.Destination = &GatewayAddress_Address{Address: d.Address.Clone()}
	}
	return c
}

func (x *PortList) Clone() *PortList {
	if x == nil {
		return nil
	}
	c := &PortList{unknown: slices.Clone(x.unknown)}
	for _, p := range x.Ports {
		c.Ports = append(c.Ports, p.Clone())
	}
	return c
}

func (x *Port) Clone() *Port {
	if x == nil {
		return nil
	}
	return &Port{
		ServicePort: x.ServicePort,
		TargetPort:  x.TargetPort,
		unknown:     slices.Clone(x.unknown),
	}
}
