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
	"errors"
	"testing"

	"github.com/ambientmesh/discovery/pkg/test/util/assert"
)

func TestWorkloadValidate(t *testing.T) {
	cases := []struct {
		name  string
		w     *Workload
		valid bool
	}{
		{
			"addresses only",
			&Workload{Uid: "w1", Addresses: [][]byte{{10, 0, 0, 1}}},
			true,
		},
		{
			"hostname only",
			&Workload{Uid: "w1", Hostname: "example.com"},
			true,
		},
		{
			"headless direct access sets both",
			&Workload{Uid: "w1", Addresses: [][]byte{{10, 0, 0, 1}}, Hostname: "example.com"},
			true,
		},
		{
			"ipv6 address",
			&Workload{Uid: "w1", Addresses: [][]byte{make([]byte, 16)}},
			true,
		},
		{
			"nil record",
			nil,
			false,
		},
		{
			"missing uid",
			&Workload{Addresses: [][]byte{{10, 0, 0, 1}}},
			false,
		},
		{
			"no addresses and no hostname",
			&Workload{Uid: "w1"},
			false,
		},
		{
			"bad address length",
			&Workload{Uid: "w1", Addresses: [][]byte{{10, 0, 0}}},
			false,
		},
		{
			"empty address among valid ones",
			&Workload{Uid: "w1", Addresses: [][]byte{{10, 0, 0, 1}, {}}},
			false,
		},
		{
			"waypoint without destination",
			&Workload{
				Uid:       "w1",
				Addresses: [][]byte{{10, 0, 0, 1}},
				Waypoint:  &GatewayAddress{Port: 15008},
			},
			false,
		},
		{
			"waypoint hostname destination",
			&Workload{
				Uid:       "w1",
				Addresses: [][]byte{{10, 0, 0, 1}},
				Waypoint: &GatewayAddress{
					Destination: &GatewayAddress_Hostname{Hostname: &NamespacedHostname{
						Namespace: "default",
						Hostname:  "waypoint.example",
					}},
					Port: 15008,
				},
			},
			true,
		},
		{
			"network gateway address destination",
			&Workload{
				Uid:       "w1",
				Addresses: [][]byte{{10, 0, 0, 1}},
				NetworkGateway: &GatewayAddress{
					Destination: &GatewayAddress_Address{Address: &NetworkAddress{
						Network: "net-b",
						Address: []byte{10, 1, 0, 1},
					}},
					Port: 15443,
				},
			},
			true,
		},
		{
			"network gateway with malformed address",
			&Workload{
				Uid:       "w1",
				Addresses: [][]byte{{10, 0, 0, 1}},
				NetworkGateway: &GatewayAddress{
					Destination: &GatewayAddress_Address{Address: &NetworkAddress{
						Address: []byte{10, 1},
					}},
				},
			},
			false,
		},
		{
			"empty port list selects service defaults",
			&Workload{
				Uid:       "w1",
				Addresses: [][]byte{{10, 0, 0, 1}},
				Services:  map[string]*PortList{"default/svc.local": {}},
			},
			true,
		},
		{
			"zero target port",
			&Workload{
				Uid:       "w1",
				Addresses: [][]byte{{10, 0, 0, 1}},
				Services: map[string]*PortList{
					"default/svc.local": {Ports: []*Port{{ServicePort: 80}}},
				},
			},
			false,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.valid != (err == nil) {
				t.Fatalf("got %v, want valid=%v", err, tt.valid)
			}
		})
	}
}

func TestServiceValidate(t *testing.T) {
	cases := []struct {
		name  string
		s     *Service
		valid bool
	}{
		{
			"vip service",
			&Service{
				Namespace: "default",
				Hostname:  "svc.local",
				Addresses: []*NetworkAddress{{Network: "net-a", Address: []byte{10, 0, 0, 5}}},
				Ports:     []*Port{{ServicePort: 80, TargetPort: 8080}},
			},
			true,
		},
		{
			"headless service has no addresses",
			&Service{Namespace: "default", Hostname: "svc.local"},
			true,
		},
		{
			"nil record",
			nil,
			false,
		},
		{
			"missing namespace",
			&Service{Hostname: "svc.local"},
			false,
		},
		{
			"missing hostname",
			&Service{Namespace: "default"},
			false,
		},
		{
			"malformed address",
			&Service{
				Namespace: "default",
				Hostname:  "svc.local",
				Addresses: []*NetworkAddress{{Network: "net-a", Address: []byte{10, 0}}},
			},
			false,
		},
		{
			"zero service port",
			&Service{
				Namespace: "default",
				Hostname:  "svc.local",
				Ports:     []*Port{{TargetPort: 8080}},
			},
			false,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.valid != (err == nil) {
				t.Fatalf("got %v, want valid=%v", err, tt.valid)
			}
		})
	}
}

func TestAddressValidate(t *testing.T) {
	cases := []struct {
		name  string
		addr  *Address
		valid bool
	}{
		{
			"workload variant",
			&Address{Type: &Address_Workload{Workload: &Workload{Uid: "w1", Hostname: "example.com"}}},
			true,
		},
		{
			"service variant",
			&Address{Type: &Address_Service{Service: &Service{Namespace: "default", Hostname: "svc.local"}}},
			true,
		},
		{
			"empty envelope",
			&Address{},
			false,
		},
		{
			"workload variant without record",
			&Address{Type: &Address_Workload{}},
			false,
		},
		{
			"service variant without record",
			&Address{Type: &Address_Service{}},
			false,
		},
		{
			"invalid inner record",
			&Address{Type: &Address_Workload{Workload: &Workload{Uid: "w1"}}},
			false,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.addr.Validate()
			if tt.valid != (err == nil) {
				t.Fatalf("got %v, want valid=%v", err, tt.valid)
			}
		})
	}
}

func TestValidationErrorFields(t *testing.T) {
	var ve *ValidationError

	err := (&Workload{}).Validate()
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	assert.Equal(t, ve.Field, "uid")

	err = (&Workload{
		Uid:       "w1",
		Waypoint:  &GatewayAddress{},
		Addresses: [][]byte{{10, 0, 0, 1}},
	}).Validate()
	if !errors.As(err, &ve) {
		t.Fatalf("expected wrapped *ValidationError, got %T", err)
	}
	assert.Equal(t, ve.Field, "destination")
	assert.ErrorContains(t, err, "waypoint")
}
