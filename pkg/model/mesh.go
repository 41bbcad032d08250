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
	"github.com/ambientmesh/discovery/pkg/spiffe"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

// Mesh carries the mesh-wide fallback values. They are substituted into
// records exactly once, at the boundary where records are constructed;
// the index and resolver read the fields verbatim afterwards.
type Mesh struct {
	// Network used when a record does not name one.
	Network string `json:"network,omitempty"`
	// TrustDomain used when a workload does not name one.
	TrustDomain string `json:"trustDomain,omitempty"`
	// ServiceAccount used when a workload does not name one.
	ServiceAccount string `json:"serviceAccount,omitempty"`
}

// DefaultMesh returns the built-in mesh settings: the current SPIFFE trust
// domain, the "default" service account, and no default network.
func DefaultMesh() Mesh {
	return Mesh{
		TrustDomain:    spiffe.GetTrustDomain(),
		ServiceAccount: "default",
	}
}

// ApplyWorkload returns a copy of w with every empty defaultable field
// replaced by the mesh fallback. w itself is not modified.
func (m Mesh) ApplyWorkload(w *workloadapi.Workload) *workloadapi.Workload {
	c := w.Clone()
	if c.Network == "" {
		c.Network = m.Network
	}
	if c.TrustDomain == "" {
		c.TrustDomain = m.TrustDomain
	}
	if c.ServiceAccount == "" {
		c.ServiceAccount = m.ServiceAccount
	}
	return c
}

// ApplyService returns a copy of s with the mesh network substituted into
// every VIP that does not name one. s itself is not modified.
func (m Mesh) ApplyService(s *workloadapi.Service) *workloadapi.Service {
	c := s.Clone()
	for _, a := range c.Addresses {
		if a.Network == "" {
			a.Network = m.Network
		}
	}
	return c
}
