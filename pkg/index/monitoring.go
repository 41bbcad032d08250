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

package index

import (
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/monitoring"
)

var (
	kindLabel   = monitoring.CreateLabel("kind")
	policyLabel = monitoring.CreateLabel("policy")

	upserts = monitoring.NewSum(
		"index_upserts",
		"Number of record upserts applied to the index.",
	)

	staleWrites = monitoring.NewSum(
		"index_stale_writes",
		"Number of upserts ignored because the stored version was not older.",
	)

	aliasCollisions = monitoring.NewSum(
		"index_alias_collisions",
		"Number of upserts claiming a network address held by another record of the same kind.",
	)

	resources = monitoring.NewGauge(
		"index_resources",
		"Number of records currently held by the index.",
	)
)

// storeMetrics is the per-kind dimensioned view of the index metrics.
type storeMetrics struct {
	upserts     monitoring.Metric
	staleWrites monitoring.Metric
	rejected    monitoring.Metric
	evicted     monitoring.Metric
	resources   monitoring.Metric
}

func metricsFor(kind model.Kind) storeMetrics {
	k := kindLabel.Value(kind.String())
	return storeMetrics{
		upserts:     upserts.With(k),
		staleWrites: staleWrites.With(k),
		rejected:    aliasCollisions.With(k, policyLabel.Value("reject")),
		evicted:     aliasCollisions.With(k, policyLabel.Value("evict")),
		resources:   resources.With(k),
	}
}
