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
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

// Export converts records back into the file form, so a live index can be
// dumped as a snapshot that Parse and Build accept unchanged. Records are
// exported as-is; defaults already substituted into them stay inline.
func Export(workloads []*workloadapi.Workload, services []*workloadapi.Service) *Config {
	c := &Config{}
	for _, w := range workloads {
		c.Workloads = append(c.Workloads, exportWorkload(w))
	}
	for _, s := range services {
		c.Services = append(c.Services, exportService(s))
	}
	return c
}

func exportWorkload(w *workloadapi.Workload) Workload {
	out := Workload{
		UID:               w.GetUid(),
		Name:              w.GetName(),
		Namespace:         w.GetNamespace(),
		Hostname:          w.GetHostname(),
		Network:           w.GetNetwork(),
		TrustDomain:       w.GetTrustDomain(),
		ServiceAccount:    w.GetServiceAccount(),
		TunnelProtocol:    enumName(int32(w.GetTunnelProtocol()), workloadapi.TunnelProtocol_name),
		NativeTunnel:      w.GetNativeTunnel(),
		Status:            enumName(int32(w.GetStatus()), workloadapi.WorkloadStatus_name),
		Node:              w.GetNode(),
		WorkloadType:      enumName(int32(w.GetWorkloadType()), workloadapi.WorkloadType_name),
		WorkloadName:      w.GetWorkloadName(),
		CanonicalName:     w.GetCanonicalName(),
		CanonicalRevision: w.GetCanonicalRevision(),
		ClusterID:         w.GetClusterId(),

		AuthorizationPolicies: w.GetAuthorizationPolicies(),

		Waypoint:       exportGateway(w.GetWaypoint()),
		NetworkGateway: exportGateway(w.GetNetworkGateway()),
	}
	for _, b := range w.GetAddresses() {
		if ip, ok := model.AddrFromBytes(b); ok {
			out.Addresses = append(out.Addresses, ip.String())
		}
	}
	if svcs := w.GetServices(); len(svcs) > 0 {
		out.Services = make(map[string][]Port, len(svcs))
		for key, pl := range svcs {
			out.Services[key] = exportPorts(pl.GetPorts())
		}
	}
	return out
}

func exportService(s *workloadapi.Service) Service {
	out := Service{
		Name:            s.GetName(),
		Namespace:       s.GetNamespace(),
		Hostname:        s.GetHostname(),
		Ports:           exportPorts(s.GetPorts()),
		SubjectAltNames: s.GetSubjectAltNames(),
	}
	for _, na := range s.GetAddresses() {
		out.Addresses = append(out.Addresses, formatNetworkAddress(na))
	}
	return out
}

func exportGateway(gw *workloadapi.GatewayAddress) *Gateway {
	if gw == nil {
		return nil
	}
	out := &Gateway{Port: gw.GetPort()}
	switch d := gw.GetDestination().(type) {
	case *workloadapi.GatewayAddress_Hostname:
		out.Hostname = d.Hostname.GetNamespace() + "/" + d.Hostname.GetHostname()
	case *workloadapi.GatewayAddress_Address:
		out.Address = formatNetworkAddress(d.Address)
	}
	return out
}

func exportPorts(in []*workloadapi.Port) []Port {
	if len(in) == 0 {
		return nil
	}
	out := make([]Port, 0, len(in))
	for _, p := range in {
		out = append(out, Port{ServicePort: p.GetServicePort(), TargetPort: p.GetTargetPort()})
	}
	return out
}

func formatNetworkAddress(na *workloadapi.NetworkAddress) string {
	ip, ok := model.AddrFromBytes(na.GetAddress())
	if !ok {
		return ""
	}
	if na.GetNetwork() == "" {
		return ip.String()
	}
	return na.GetNetwork() + "/" + ip.String()
}

// enumName is the inverse of parseEnum: zero values export as the empty
// string so they stay omitted from the file.
func enumName(x int32, names map[int32]string) string {
	if x == 0 {
		return ""
	}
	return names[x]
}
