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

package model

import (
	"net/netip"
	"testing"

	"github.com/ambientmesh/discovery/pkg/spiffe"
	"github.com/ambientmesh/discovery/pkg/test/util/assert"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

func TestWorkloadAliases(t *testing.T) {
	v4 := []byte{10, 0, 0, 9}
	v4in6 := append([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}, 10, 0, 0, 9)
	v6 := []byte{0xfd, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

	cases := []struct {
		name string
		w    *workloadapi.Workload
		want []NetworkAddress
	}{
		{
			"hostname only",
			&workloadapi.Workload{Uid: "w1", Hostname: "example.com"},
			[]NetworkAddress{},
		},
		{
			"single network shared by all addresses",
			&workloadapi.Workload{Uid: "w1", Network: "net-a", Addresses: [][]byte{v4, v6}},
			[]NetworkAddress{
				{Network: "net-a", Addr: netip.MustParseAddr("10.0.0.9")},
				{Network: "net-a", Addr: netip.MustParseAddr("fd00::1")},
			},
		},
		{
			"mapped v4 canonicalized",
			&workloadapi.Workload{Uid: "w1", Network: "net-a", Addresses: [][]byte{v4in6}},
			[]NetworkAddress{
				{Network: "net-a", Addr: netip.MustParseAddr("10.0.0.9")},
			},
		},
		{
			"malformed address skipped",
			&workloadapi.Workload{Uid: "w1", Network: "net-a", Addresses: [][]byte{{10, 0}, v4}},
			[]NetworkAddress{
				{Network: "net-a", Addr: netip.MustParseAddr("10.0.0.9")},
			},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, WorkloadInfo{Workload: tt.w}.Aliases(), tt.want)
		})
	}
}

func TestServiceAliases(t *testing.T) {
	headless := &workloadapi.Service{Namespace: "default", Hostname: "svc.local"}
	assert.Equal(t, ServiceInfo{Service: headless}.Aliases(), []NetworkAddress{})

	vip := &workloadapi.Service{
		Namespace: "default",
		Hostname:  "svc.local",
		Addresses: []*workloadapi.NetworkAddress{
			{Network: "net-a", Address: []byte{10, 0, 0, 5}},
			{Network: "net-b", Address: []byte{10, 0, 1, 5}},
		},
	}
	assert.Equal(t, ServiceInfo{Service: vip}.Aliases(), []NetworkAddress{
		{Network: "net-a", Addr: netip.MustParseAddr("10.0.0.5")},
		{Network: "net-b", Addr: netip.MustParseAddr("10.0.1.5")},
	})
}

func TestResourceNames(t *testing.T) {
	w := &workloadapi.Workload{Uid: "cluster-1//Pod/default/pod-1", Hostname: "example.com"}
	s := &workloadapi.Service{Namespace: "default", Hostname: "svc.local"}

	assert.Equal(t, WorkloadInfo{Workload: w}.ResourceName(), "cluster-1//Pod/default/pod-1")
	assert.Equal(t, ServiceInfo{Service: s}.ResourceName(), "default/svc.local")
	assert.Equal(t, ServiceKey("default", "svc.local"), "default/svc.local")

	assert.Equal(t, WorkloadToAddressInfo(w).ResourceName(), "cluster-1//Pod/default/pod-1")
	assert.Equal(t, ServiceToAddressInfo(s).ResourceName(), "default/svc.local")
}

func TestNetworkAddressString(t *testing.T) {
	n := NetworkAddress{Network: "net-a", Addr: netip.MustParseAddr("10.0.0.9")}
	assert.Equal(t, n.String(), "net-a/10.0.0.9")
}

func TestIdentity(t *testing.T) {
	oldTrustDomain := spiffe.GetTrustDomain()
	defer spiffe.SetTrustDomain(oldTrustDomain)
	spiffe.SetTrustDomain("mesh.example")

	cases := []struct {
		name string
		w    *workloadapi.Workload
		want string
	}{
		{
			"explicit identity",
			&workloadapi.Workload{
				Uid:            "w1",
				Hostname:       "example.com",
				Namespace:      "default",
				TrustDomain:    "td.example",
				ServiceAccount: "sa-1",
			},
			"spiffe://td.example/ns/default/sa/sa-1",
		},
		{
			"defaults substituted",
			&workloadapi.Workload{Uid: "w1", Hostname: "example.com", Namespace: "default"},
			"spiffe://mesh.example/ns/default/sa/default",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, WorkloadInfo{Workload: tt.w}.Identity().String(), tt.want)
		})
	}
}

func TestMeshApply(t *testing.T) {
	m := Mesh{Network: "net-a", TrustDomain: "td.example", ServiceAccount: "default"}

	w := &workloadapi.Workload{Uid: "w1", Addresses: [][]byte{{10, 0, 0, 9}}}
	got := m.ApplyWorkload(w)
	assert.Equal(t, got.Network, "net-a")
	assert.Equal(t, got.TrustDomain, "td.example")
	assert.Equal(t, got.ServiceAccount, "default")
	// the input record is never modified
	assert.Equal(t, w.Network, "")

	explicit := &workloadapi.Workload{
		Uid:            "w2",
		Addresses:      [][]byte{{10, 0, 0, 10}},
		Network:        "net-b",
		TrustDomain:    "other.example",
		ServiceAccount: "sa-2",
	}
	got = m.ApplyWorkload(explicit)
	assert.Equal(t, got.Network, "net-b")
	assert.Equal(t, got.TrustDomain, "other.example")
	assert.Equal(t, got.ServiceAccount, "sa-2")

	s := &workloadapi.Service{
		Namespace: "default",
		Hostname:  "svc.local",
		Addresses: []*workloadapi.NetworkAddress{
			{Address: []byte{10, 0, 0, 5}},
			{Network: "net-b", Address: []byte{10, 0, 1, 5}},
		},
	}
	gotSvc := m.ApplyService(s)
	assert.Equal(t, gotSvc.Addresses[0].Network, "net-a")
	assert.Equal(t, gotSvc.Addresses[1].Network, "net-b")
	assert.Equal(t, s.Addresses[0].Network, "")
}
