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

// Kind discriminates the two resource kinds held by the index. Primary and
// alias keys are unique per kind; the kinds never share a namespace.
type Kind int

const (
	// WorkloadKind records are keyed by UID.
	WorkloadKind Kind = iota
	// ServiceKind records are keyed by "namespace/hostname".
	ServiceKind
	// UnknownKind is returned for an empty Address envelope.
	UnknownKind
)

func (k Kind) String() string {
	switch k {
	case WorkloadKind:
		return "workload"
	case ServiceKind:
		return "service"
	default:
		return "unknown"
	}
}
