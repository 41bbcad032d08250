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

package local

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/util/sets"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

// Config is the file form of a discovery snapshot. Addresses are textual
// IPs and enums are their proto names, so snapshots stay hand-editable.
type Config struct {
	// Defaults override the mesh-wide defaults for records in this file.
	Defaults model.Mesh `json:"defaults,omitempty"`

	Workloads []Workload `json:"workloads,omitempty"`
	Services  []Service  `json:"services,omitempty"`
}

// Workload is the file form of a workload record.
type Workload struct {
	UID       string   `json:"uid"`
	Name      string   `json:"name,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	Hostname  string   `json:"hostname,omitempty"`
	Network   string   `json:"network,omitempty"`

	TrustDomain    string `json:"trustDomain,omitempty"`
	ServiceAccount string `json:"serviceAccount,omitempty"`

	TunnelProtocol string `json:"tunnelProtocol,omitempty"`
	NativeTunnel   bool   `json:"nativeTunnel,omitempty"`
	Status         string `json:"status,omitempty"`

	Node              string `json:"node,omitempty"`
	WorkloadType      string `json:"workloadType,omitempty"`
	WorkloadName      string `json:"workloadName,omitempty"`
	CanonicalName     string `json:"canonicalName,omitempty"`
	CanonicalRevision string `json:"canonicalRevision,omitempty"`
	ClusterID         string `json:"clusterId,omitempty"`

	AuthorizationPolicies []string `json:"authorizationPolicies,omitempty"`

	Waypoint       *Gateway `json:"waypoint,omitempty"`
	NetworkGateway *Gateway `json:"networkGateway,omitempty"`

	// Services maps "namespace/hostname" to the workload's port override.
	// An empty list inherits the service's default ports.
	Services map[string][]Port `json:"services,omitempty"`
}

// Service is the file form of a service record. Addresses are
// "network/ip" pairs; a bare "ip" lives on the default network.
type Service struct {
	Name            string   `json:"name"`
	Namespace       string   `json:"namespace"`
	Hostname        string   `json:"hostname"`
	Addresses       []string `json:"addresses,omitempty"`
	Ports           []Port   `json:"ports,omitempty"`
	SubjectAltNames []string `json:"subjectAltNames,omitempty"`
}

// Port maps a frontend service port to the backend target port. A zero
// target defaults to the service port.
type Port struct {
	ServicePort uint32 `json:"servicePort"`
	TargetPort  uint32 `json:"targetPort,omitempty"`
}

// Gateway names a waypoint or network gateway destination, either by
// "namespace/hostname" or by "network/ip". Exactly one must be set.
type Gateway struct {
	Hostname string `json:"hostname,omitempty"`
	Address  string `json:"address,omitempty"`
	Port     uint32 `json:"port,omitempty"`
}

// Parse decodes a YAML (or JSON) snapshot. Unknown fields are rejected so
// typos surface instead of silently dropping configuration.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %v", err)
	}
	return c, nil
}

// Mesh merges the file's defaults block over base.
func (c *Config) Mesh(base model.Mesh) model.Mesh {
	out := base
	if c.Defaults.Network != "" {
		out.Network = c.Defaults.Network
	}
	if c.Defaults.TrustDomain != "" {
		out.TrustDomain = c.Defaults.TrustDomain
	}
	if c.Defaults.ServiceAccount != "" {
		out.ServiceAccount = c.Defaults.ServiceAccount
	}
	return out
}

// Build converts the file into validated workload and service records with
// mesh defaults substituted. All problems are reported, not just the first;
// on any error no records are returned.
func (c *Config) Build(base model.Mesh) ([]*workloadapi.Workload, []*workloadapi.Service, error) {
	mesh := c.Mesh(base)
	var errs []error

	workloads := make([]*workloadapi.Workload, 0, len(c.Workloads))
	seenUIDs := sets.NewWithLength[string](len(c.Workloads))
	for i, w := range c.Workloads {
		out, err := w.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("workloads[%d]: %v", i, err))
			continue
		}
		if seenUIDs.InsertContains(out.Uid) {
			errs = append(errs, fmt.Errorf("workloads[%d]: duplicate uid %q", i, out.Uid))
			continue
		}
		out = mesh.ApplyWorkload(out)
		if err := out.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("workload %q: %v", out.Uid, err))
			continue
		}
		workloads = append(workloads, out)
	}

	services := make([]*workloadapi.Service, 0, len(c.Services))
	seenKeys := sets.NewWithLength[string](len(c.Services))
	for i, s := range c.Services {
		out, err := s.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("services[%d]: %v", i, err))
			continue
		}
		key := model.ServiceKey(out.Namespace, out.Hostname)
		if seenKeys.InsertContains(key) {
			errs = append(errs, fmt.Errorf("services[%d]: duplicate service %q", i, key))
			continue
		}
		out = mesh.ApplyService(out)
		if err := out.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("service %q: %v", key, err))
			continue
		}
		services = append(services, out)
	}

	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return workloads, services, nil
}

func (w *Workload) build() (*workloadapi.Workload, error) {
	tunnel, err := parseEnum("tunnelProtocol", w.TunnelProtocol, workloadapi.TunnelProtocol_value)
	if err != nil {
		return nil, err
	}
	status, err := parseEnum("status", w.Status, workloadapi.WorkloadStatus_value)
	if err != nil {
		return nil, err
	}
	wtype, err := parseEnum("workloadType", w.WorkloadType, workloadapi.WorkloadType_value)
	if err != nil {
		return nil, err
	}
	out := &workloadapi.Workload{
		Uid:                   w.UID,
		Name:                  w.Name,
		Namespace:             w.Namespace,
		Hostname:              w.Hostname,
		Network:               w.Network,
		TrustDomain:           w.TrustDomain,
		ServiceAccount:        w.ServiceAccount,
		TunnelProtocol:        workloadapi.TunnelProtocol(tunnel),
		NativeTunnel:          w.NativeTunnel,
		Status:                workloadapi.WorkloadStatus(status),
		Node:                  w.Node,
		WorkloadType:          workloadapi.WorkloadType(wtype),
		WorkloadName:          w.WorkloadName,
		CanonicalName:         w.CanonicalName,
		CanonicalRevision:     w.CanonicalRevision,
		ClusterId:             w.ClusterID,
		AuthorizationPolicies: w.AuthorizationPolicies,
	}
	for _, a := range w.Addresses {
		ip, err := netip.ParseAddr(a)
		if err != nil {
			return nil, fmt.Errorf("address %q: %v", a, err)
		}
		out.Addresses = append(out.Addresses, ip.AsSlice())
	}
	if w.Waypoint != nil {
		gw, err := w.Waypoint.build()
		if err != nil {
			return nil, fmt.Errorf("waypoint: %v", err)
		}
		out.Waypoint = gw
	}
	if w.NetworkGateway != nil {
		gw, err := w.NetworkGateway.build()
		if err != nil {
			return nil, fmt.Errorf("networkGateway: %v", err)
		}
		out.NetworkGateway = gw
	}
	if len(w.Services) > 0 {
		out.Services = make(map[string]*workloadapi.PortList, len(w.Services))
		for key, ports := range w.Services {
			if _, _, ok := strings.Cut(key, "/"); !ok {
				return nil, fmt.Errorf("service reference %q must be namespace/hostname", key)
			}
			out.Services[key] = &workloadapi.PortList{Ports: buildPorts(ports)}
		}
	}
	return out, nil
}

func (s *Service) build() (*workloadapi.Service, error) {
	out := &workloadapi.Service{
		Name:            s.Name,
		Namespace:       s.Namespace,
		Hostname:        s.Hostname,
		Ports:           buildPorts(s.Ports),
		SubjectAltNames: s.SubjectAltNames,
	}
	for _, a := range s.Addresses {
		na, err := parseNetworkAddress(a)
		if err != nil {
			return nil, fmt.Errorf("address %q: %v", a, err)
		}
		out.Addresses = append(out.Addresses, na)
	}
	return out, nil
}

func (g *Gateway) build() (*workloadapi.GatewayAddress, error) {
	out := &workloadapi.GatewayAddress{Port: g.Port}
	switch {
	case g.Hostname != "" && g.Address != "":
		return nil, errors.New("hostname and address are mutually exclusive")
	case g.Hostname != "":
		ns, host, ok := strings.Cut(g.Hostname, "/")
		if !ok {
			return nil, fmt.Errorf("hostname %q must be namespace/hostname", g.Hostname)
		}
		out.Destination = &workloadapi.GatewayAddress_Hostname{Hostname: &workloadapi.NamespacedHostname{
			Namespace: ns,
			Hostname:  host,
		}}
	case g.Address != "":
		na, err := parseNetworkAddress(g.Address)
		if err != nil {
			return nil, err
		}
		out.Destination = &workloadapi.GatewayAddress_Address{Address: na}
	default:
		return nil, errors.New("one of hostname or address is required")
	}
	return out, nil
}

func buildPorts(in []Port) []*workloadapi.Port {
	if len(in) == 0 {
		return nil
	}
	out := make([]*workloadapi.Port, 0, len(in))
	for _, p := range in {
		target := p.TargetPort
		if target == 0 {
			target = p.ServicePort
		}
		out = append(out, &workloadapi.Port{ServicePort: p.ServicePort, TargetPort: target})
	}
	return out
}

// parseNetworkAddress splits "network/ip". A bare "ip" is placed on the
// empty network, which mesh defaulting later fills in.
func parseNetworkAddress(s string) (*workloadapi.NetworkAddress, error) {
	network, raw, ok := strings.Cut(s, "/")
	if !ok {
		network, raw = "", s
	}
	ip, err := netip.ParseAddr(raw)
	if err != nil {
		return nil, err
	}
	return &workloadapi.NetworkAddress{Network: network, Address: ip.AsSlice()}, nil
}

func parseEnum(field, name string, values map[string]int32) (int32, error) {
	if name == "" {
		return 0, nil
	}
	v, ok := values[name]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", field, name)
	}
	return v, nil
}
