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

// Package workloadapi defines the record model for mesh address discovery:
// Workload and Service records, the Address envelope returned by resolution,
// and their supporting value types.
//
// The types encode to standard protobuf wire format (see workload.proto for
// the authoritative field numbers) and are maintained by hand so the module
// carries no code generation step. Unknown fields, including the permanently
// reserved Workload field 15, are retained on decode and written back out on
// encode.
package workloadapi

import (
	"strconv"
)

// TunnelProtocol is the transport tunneling mode required to reach a workload.
type TunnelProtocol int32

const (
	// TunnelProtocol_NONE means plain connections; no tunneling.
	TunnelProtocol_NONE TunnelProtocol = 0
	// TunnelProtocol_HBONE means traffic is wrapped in the HTTP-based
	// mesh tunnel.
	TunnelProtocol_HBONE TunnelProtocol = 1
)

var TunnelProtocol_name = map[int32]string{
	0: "NONE",
	1: "HBONE",
}

var TunnelProtocol_value = map[string]int32{
	"NONE":  0,
	"HBONE": 1,
}

func (x TunnelProtocol) String() string {
	return enumString(TunnelProtocol_name, int32(x))
}

// WorkloadStatus is the health of a workload; it gates servability.
type WorkloadStatus int32

const (
	// WorkloadStatus_HEALTHY means the workload is ready to serve traffic.
	WorkloadStatus_HEALTHY WorkloadStatus = 0
	// WorkloadStatus_UNHEALTHY means the workload is NOT ready to serve traffic.
	WorkloadStatus_UNHEALTHY WorkloadStatus = 1
)

var WorkloadStatus_name = map[int32]string{
	0: "HEALTHY",
	1: "UNHEALTHY",
}

var WorkloadStatus_value = map[string]int32{
	"HEALTHY":   0,
	"UNHEALTHY": 1,
}

func (x WorkloadStatus) String() string {
	return enumString(WorkloadStatus_name, int32(x))
}

// WorkloadType describes what kind of platform object produced a workload.
// Telemetry only.
type WorkloadType int32

const (
	WorkloadType_DEPLOYMENT WorkloadType = 0
	WorkloadType_CRONJOB    WorkloadType = 1
	WorkloadType_POD        WorkloadType = 2
	WorkloadType_JOB        WorkloadType = 3
)

var WorkloadType_name = map[int32]string{
	0: "DEPLOYMENT",
	1: "CRONJOB",
	2: "POD",
	3: "JOB",
}

var WorkloadType_value = map[string]int32{
	"DEPLOYMENT": 0,
	"CRONJOB":    1,
	"POD":        2,
	"JOB":        3,
}

func (x WorkloadType) String() string {
	return enumString(WorkloadType_name, int32(x))
}

func enumString(names map[int32]string, v int32) string {
	if s, ok := names[v]; ok {
		return s
	}
	return strconv.Itoa(int(v))
}

// Address represents a unique address, the envelope returned by resolution.
type Address struct {
	// Exactly one of Address_Workload or Address_Service.
	Type isAddress_Type `json:"type,omitempty"`

	unknown []byte
}

type isAddress_Type interface {
	isAddress_Type()
}

type Address_Workload struct {
	Workload *Workload `json:"workload,omitempty"`
}

type Address_Service struct {
	Service *Service `json:"service,omitempty"`
}

func (*Address_Workload) isAddress_Type() {}

func (*Address_Service) isAddress_Type() {}

func (x *Address) GetType() isAddress_Type {
	if x != nil {
		return x.Type
	}
	return nil
}

func (x *Address) GetWorkload() *Workload {
	if x, ok := x.GetType().(*Address_Workload); ok {
		return x.Workload
	}
	return nil
}

func (x *Address) GetService() *Service {
	if x, ok := x.GetType().(*Address_Service); ok {
		return x.Service
	}
	return nil
}

// Workload represents an individual endpoint (a pod, a VM, ...) that
// receives traffic directly. The primary key is Uid.
type Workload struct {
	// Name of the workload. Telemetry only.
	Name string `json:"name,omitempty"`
	// Namespace of the workload. Telemetry only.
	Namespace string `json:"namespace,omitempty"`
	// Addresses are the raw IP addresses (4 or 16 bytes each) the workload
	// binds. Every address lives on the single Network value.
	Addresses [][]byte `json:"addresses,omitempty"`
	// Network the addresses live on. Empty means the mesh default network.
	Network string `json:"network,omitempty"`
	// TunnelProtocol that must be used to connect to this workload.
	TunnelProtocol TunnelProtocol `json:"tunnel_protocol,omitempty"`
	// TrustDomain of the workload identity. Empty means the mesh default.
	TrustDomain string `json:"trust_domain,omitempty"`
	// ServiceAccount of the workload identity. Empty means "default".
	ServiceAccount string `json:"service_account,omitempty"`
	// Waypoint, if set, is the gateway all traffic to this workload must
	// route through.
	Waypoint *GatewayAddress `json:"waypoint,omitempty"`
	// Node the workload runs on. Telemetry only.
	Node string `json:"node,omitempty"`
	// CanonicalName of the workload. Telemetry only.
	CanonicalName string `json:"canonical_name,omitempty"`
	// CanonicalRevision of the workload. Telemetry only.
	CanonicalRevision string `json:"canonical_revision,omitempty"`
	// WorkloadType of the workload. Telemetry only.
	WorkloadType WorkloadType `json:"workload_type,omitempty"`
	// WorkloadName of the workload. Telemetry only.
	WorkloadName string `json:"workload_name,omitempty"`
	// NativeTunnel is true when the workload's own traffic is already
	// tunneled and must not be wrapped or unwrapped again.
	NativeTunnel bool `json:"native_tunnel,omitempty"`
	// AuthorizationPolicies names the selector-scoped policies applying to
	// this workload. Namespace and mesh wide policies arrive out of band.
	AuthorizationPolicies []string `json:"authorization_policies,omitempty"`
	// Status gates servability.
	Status WorkloadStatus `json:"status,omitempty"`
	// ClusterId the workload runs in. Telemetry only.
	ClusterId string `json:"cluster_id,omitempty"`
	// NetworkGateway, if set, is the gateway traffic from remote networks
	// must route through.
	NetworkGateway *GatewayAddress `json:"network_gateway,omitempty"`
	// Uid is the globally unique opaque primary key for this workload.
	Uid string `json:"uid,omitempty"`
	// Hostname to resolve on demand when addresses are not known up front.
	// At least one of Addresses or Hostname is set on a valid record.
	Hostname string `json:"hostname,omitempty"`
	// Services this workload backs, keyed by "namespace/hostname", each with
	// its own port mapping. An empty PortList selects the Service's default
	// ports.
	Services map[string]*PortList `json:"services,omitempty"`

	unknown []byte
}

func (x *Workload) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *Workload) GetNamespace() string {
	if x != nil {
		return x.Namespace
	}
	return ""
}

func (x *Workload) GetAddresses() [][]byte {
	if x != nil {
		return x.Addresses
	}
	return nil
}

func (x *Workload) GetNetwork() string {
	if x != nil {
		return x.Network
	}
	return ""
}

func (x *Workload) GetTunnelProtocol() TunnelProtocol {
	if x != nil {
		return x.TunnelProtocol
	}
	return TunnelProtocol_NONE
}

func (x *Workload) GetTrustDomain() string {
	if x != nil {
		return x.TrustDomain
	}
	return ""
}

func (x *Workload) GetServiceAccount() string {
	if x != nil {
		return x.ServiceAccount
	}
	return ""
}

func (x *Workload) GetWaypoint() *GatewayAddress {
	if x != nil {
		return x.Waypoint
	}
	return nil
}

func (x *Workload) GetNode() string {
	if x != nil {
		return x.Node
	}
	return ""
}

func (x *Workload) GetCanonicalName() string {
	if x != nil {
		return x.CanonicalName
	}
	return ""
}

func (x *Workload) GetCanonicalRevision() string {
	if x != nil {
		return x.CanonicalRevision
	}
	return ""
}

func (x *Workload) GetWorkloadType() WorkloadType {
	if x != nil {
		return x.WorkloadType
	}
	return WorkloadType_DEPLOYMENT
}

func (x *Workload) GetWorkloadName() string {
	if x != nil {
		return x.WorkloadName
	}
	return ""
}

func (x *Workload) GetNativeTunnel() bool {
	if x != nil {
		return x.NativeTunnel
	}
	return false
}

func (x *Workload) GetAuthorizationPolicies() []string {
	if x != nil {
		return x.AuthorizationPolicies
	}
	return nil
}

func (x *Workload) GetStatus() WorkloadStatus {
	if x != nil {
		return x.Status
	}
	return WorkloadStatus_HEALTHY
}

func (x *Workload) GetClusterId() string {
	if x != nil {
		return x.ClusterId
	}
	return ""
}

func (x *Workload) GetNetworkGateway() *GatewayAddress {
	if x != nil {
		return x.NetworkGateway
	}
	return nil
}

func (x *Workload) GetUid() string {
	if x != nil {
		return x.Uid
	}
	return ""
}

func (x *Workload) GetHostname() string {
	if x != nil {
		return x.Hostname
	}
	return ""
}

func (x *Workload) GetServices() map[string]*PortList {
	if x != nil {
		return x.Services
	}
	return nil
}

// Service represents a named group of workloads reachable under a hostname.
// The primary key is derived: Namespace + "/" + Hostname.
type Service struct {
	// Name of the service.
	Name string `json:"name,omitempty"`
	// Namespace of the service.
	Namespace string `json:"namespace,omitempty"`
	// Hostname of the service.
	Hostname string `json:"hostname,omitempty"`
	// Addresses the service is reachable at (its alias keys). Empty for
	// headless services.
	Addresses []*NetworkAddress `json:"addresses,omitempty"`
	// Ports is the default port mapping, overridable per workload.
	Ports []*Port `json:"ports,omitempty"`
	// SubjectAltNames, if set, override per-workload identity for
	// certificate verification.
	SubjectAltNames []string `json:"subject_alt_names,omitempty"`

	unknown []byte
}

func (x *Service) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *Service) GetNamespace() string {
	if x != nil {
		return x.Namespace
	}
	return ""
}

func (x *Service) GetHostname() string {
	if x != nil {
		return x.Hostname
	}
	return ""
}

func (x *Service) GetAddresses() []*NetworkAddress {
	if x != nil {
		return x.Addresses
	}
	return nil
}

func (x *Service) GetPorts() []*Port {
	if x != nil {
		return x.Ports
	}
	return nil
}

func (x *Service) GetSubjectAltNames() []string {
	if x != nil {
		return x.SubjectAltNames
	}
	return nil
}

// NetworkAddress represents an address bound to a specific network. The
// tuple is the alias key; it is never flattened to a single string.
type NetworkAddress struct {
	// Network the address lives on. Empty means the mesh default network.
	Network string `json:"network,omitempty"`
	// Address holds 4 or 16 raw bytes.
	Address []byte `json:"address,omitempty"`

	unknown []byte
}

func (x *NetworkAddress) GetNetwork() string {
	if x != nil {
		return x.Network
	}
	return ""
}

func (x *NetworkAddress) GetAddress() []byte {
	if x != nil {
		return x.Address
	}
	return nil
}

// NamespacedHostname references a service by namespace and hostname.
type NamespacedHostname struct {
	Namespace string `json:"namespace,omitempty"`
	Hostname  string `json:"hostname,omitempty"`

	unknown []byte
}

func (x *NamespacedHostname) GetNamespace() string {
	if x != nil {
		return x.Namespace
	}
	return ""
}

func (x *NamespacedHostname) GetHostname() string {
	if x != nil {
		return x.Hostname
	}
	return ""
}

// GatewayAddress is a destination a gateway can be reached at.
type GatewayAddress struct {
	// Exactly one of GatewayAddress_Hostname or GatewayAddress_Address.
	Destination isGatewayAddress_Destination `json:"destination,omitempty"`
	// Port to reach the gateway at.
	Port uint32 `json:"port,omitempty"`

	unknown []byte
}

type isGatewayAddress_Destination interface {
	isGatewayAddress_Destination()
}

type GatewayAddress_Hostname struct {
	Hostname *NamespacedHostname `json:"hostname,omitempty"`
}

type GatewayAddress_Address struct {
	Address *NetworkAddress `json:"address,omitempty"`
}

func (*GatewayAddress_Hostname) isGatewayAddress_Destination() {}

func (*GatewayAddress_Address) isGatewayAddress_Destination() {}

func (x *GatewayAddress) GetDestination() isGatewayAddress_Destination {
	if x != nil {
		return x.Destination
	}
	return nil
}

func (x *GatewayAddress) GetHostname() *NamespacedHostname {
	if x, ok := x.GetDestination().(*GatewayAddress_Hostname); ok {
		return x.Hostname
	}
	return nil
}

func (x *GatewayAddress) GetAddress() *NetworkAddress {
	if x, ok := x.GetDestination().(*GatewayAddress_Address); ok {
		return x.Address
	}
	return nil
}

func (x *GatewayAddress) GetPort() uint32 {
	if x != nil {
		return x.Port
	}
	return 0
}

// PortList is a list of ports. An empty list is meaningful: it selects the
// Service's default ports.
type PortList struct {
	Ports []*Port `json:"ports,omitempty"`

	unknown []byte
}

func (x *PortList) GetPorts() []*Port {
	if x != nil {
		return x.Ports
	}
	return nil
}

type Port struct {
	// ServicePort the service is reached at (frontend).
	ServicePort uint32 `json:"service_port,omitempty"`
	// TargetPort the service forwards to (backend).
	TargetPort uint32 `json:"target_port,omitempty"`

	unknown []byte
}

func (x *Port) GetServicePort() uint32 {
	if x != nil {
		return x.ServicePort
	}
	return 0
}

func (x *Port) GetTargetPort() uint32 {
	if x != nil {
		return x.TargetPort
	}
	return 0
}
