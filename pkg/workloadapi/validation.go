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
	"fmt"
)

// ValidationError reports a structurally invalid record. Invalid records
// are rejected at ingestion, never coerced.
type ValidationError struct {
	// Field names the offending field in proto notation, e.g. "addresses[1]".
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate reports whether x is a structurally valid workload record.
// Validation is pure: no defaults are substituted and x is not modified.
func (x *Workload) Validate() error {
	if x == nil {
		return invalidf("workload", "nil record")
	}
	if x.Uid == "" {
		return invalidf("uid", "must not be empty")
	}
	if len(x.Addresses) == 0 && x.Hostname == "" {
		return invalidf("addresses", "at least one of addresses or hostname must be set")
	}
	for i, a := range x.Addresses {
		if len(a) != 4 && len(a) != 16 {
			return invalidf(fmt.Sprintf("addresses[%d]", i), "must be 4 or 16 bytes, got %d", len(a))
		}
	}
	if x.Waypoint != nil {
		if err := x.Waypoint.Validate(); err != nil {
			return fmt.Errorf("waypoint: %w", err)
		}
	}
	if x.NetworkGateway != nil {
		if err := x.NetworkGateway.Validate(); err != nil {
			return fmt.Errorf("network_gateway: %w", err)
		}
	}
	for k, pl := range x.Services {
		if err := pl.Validate(); err != nil {
			return fmt.Errorf("services[%q]: %w", k, err)
		}
	}
	return nil
}

// Validate reports whether x is a structurally valid service record.
func (x *Service) Validate() error {
	if x == nil {
		return invalidf("service", "nil record")
	}
	if x.Namespace == "" {
		return invalidf("namespace", "must not be empty")
	}
	if x.Hostname == "" {
		return invalidf("hostname", "must not be empty")
	}
	for i, a := range x.Addresses {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("addresses[%d]: %w", i, err)
		}
	}
	for i, p := range x.Ports {
		if p.GetServicePort() == 0 || p.GetTargetPort() == 0 {
			return invalidf(fmt.Sprintf("ports[%d]", i), "ports must be positive")
		}
	}
	return nil
}

// Validate checks the envelope and the record inside it. The oneof wrapper
// makes the both-variants case unrepresentable, so only the empty envelope
// needs rejecting here.
func (x *Address) Validate() error {
	if x == nil {
		return invalidf("address", "nil record")
	}
	switch t := x.Type.(type) {
	case *Address_Workload:
		if t.Workload == nil {
			return invalidf("workload", "variant must carry a record")
		}
		return t.Workload.Validate()
	case *Address_Service:
		if t.Service == nil {
			return invalidf("service", "variant must carry a record")
		}
		return t.Service.Validate()
	default:
		return invalidf("type", "exactly one of workload or service must be set")
	}
}

// Validate reports whether x names exactly one reachable destination.
func (x *GatewayAddress) Validate() error {
	if x == nil {
		return invalidf("gateway", "nil record")
	}
	switch d := x.Destination.(type) {
	case *GatewayAddress_Hostname:
		if d.Hostname == nil || d.Hostname.Hostname == "" {
			return invalidf("destination", "hostname variant must name a hostname")
		}
	case *GatewayAddress_Address:
		if d.Address == nil {
			return invalidf("destination", "address variant must carry an address")
		}
		if err := d.Address.Validate(); err != nil {
			return err
		}
	default:
		return invalidf("destination", "exactly one of hostname or address must be set")
	}
	return nil
}

// Validate reports whether x carries a well-formed network address.
func (x *NetworkAddress) Validate() error {
	if x == nil {
		return invalidf("address", "nil record")
	}
	if len(x.Address) != 4 && len(x.Address) != 16 {
		return invalidf("address", "must be 4 or 16 bytes, got %d", len(x.Address))
	}
	return nil
}

// Validate reports whether every port in x is positive. A nil or empty list
// is valid: it selects the Service's default ports.
func (x *PortList) Validate() error {
	if x == nil {
		return nil
	}
	for i, p := range x.Ports {
		if p.GetServicePort() == 0 || p.GetTargetPort() == 0 {
			return invalidf(fmt.Sprintf("ports[%d]", i), "ports must be positive")
		}
	}
	return nil
}
