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

package resolver

import (
	"github.com/ambientmesh/discovery/pkg/monitoring"
)

var (
	methodLabel = monitoring.CreateLabel("method")
	resultLabel = monitoring.CreateLabel("result")

	lookups = monitoring.NewSum(
		"resolver_lookups",
		"Number of resolution queries served, by method and result.",
	)

	danglingReferences = monitoring.NewSum(
		"resolver_dangling_references",
		"Number of membership entries skipped because the referenced service has no record.",
	)
)

func recordLookup(method string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	lookups.With(methodLabel.Value(method), resultLabel.Value(result)).Increment()
}
