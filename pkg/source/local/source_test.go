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
	"os"
	"path/filepath"
	"testing"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/test/util/assert"
)

func writeSnapshot(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newSource(t *testing.T, content string) (*Source, *index.Index) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	writeSnapshot(t, path, content)
	idx := index.New(index.Options{})
	return New(idx, Options{Path: path, Mesh: model.Mesh{Network: "net-a", TrustDomain: "td.test", ServiceAccount: "default"}}), idx
}

func TestLoad(t *testing.T) {
	s, idx := newSource(t, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
  services:
    default/svc.local: []
services:
- name: svc
  namespace: default
  hostname: svc.local
  addresses: ["10.1.0.1"]
  ports:
  - servicePort: 80
    targetPort: 8080
`)
	assert.NoError(t, s.Load())

	w, ok := idx.Workload("uid-1")
	assert.Equal(t, ok, true)
	assert.Equal(t, w.Workload.Network, "net-a")
	assert.Equal(t, w.Workload.TrustDomain, "td.test")

	svc, ok := idx.Service("default/svc.local")
	assert.Equal(t, ok, true)
	assert.Equal(t, svc.Service.Addresses[0].Network, "net-a")
	assert.Equal(t, idx.ServiceMembers("default/svc.local"), []string{"uid-1"})
}

func TestReloadDiff(t *testing.T) {
	s, idx := newSource(t, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
- uid: uid-2
  addresses: ["10.0.0.2"]
services:
- name: svc
  namespace: default
  hostname: svc.local
  addresses: ["10.1.0.1"]
`)
	assert.NoError(t, s.Load())

	tracker := assert.NewTracker[string](t)
	idx.RegisterHandler(func(e index.Event) {
		tracker.Record(fmt.Sprintf("%v/%s", e.Event, e.Latest().ResourceName()))
	})

	// uid-1 changes, uid-2 vanishes, the service is untouched. Only the two
	// changed records may produce events.
	writeSnapshot(t, s.path, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.9"]
services:
- name: svc
  namespace: default
  hostname: svc.local
  addresses: ["10.1.0.1"]
`)
	assert.NoError(t, s.Load())
	tracker.WaitOrdered("update/uid-1", "delete/uid-2")
	tracker.Empty()

	w, _ := idx.Workload("uid-1")
	assert.Equal(t, w.Workload.Addresses, [][]byte{{10, 0, 0, 9}})
	_, ok := idx.Workload("uid-2")
	assert.Equal(t, ok, false)

	// A reload of identical content is a no-op.
	assert.NoError(t, s.Load())
	tracker.Empty()
}

func TestLoadKeepsServingOnBadFile(t *testing.T) {
	s, idx := newSource(t, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
`)
	assert.NoError(t, s.Load())

	writeSnapshot(t, s.path, "workloads: [")
	assert.Error(t, s.Load())
	_, ok := idx.Workload("uid-1")
	assert.Equal(t, ok, true)

	writeSnapshot(t, s.path, `
workloads:
- uid: uid-1
  addresses: ["not-an-ip"]
`)
	assert.Error(t, s.Load())
	_, ok = idx.Workload("uid-1")
	assert.Equal(t, ok, true)
}

func TestLoadAppliesRestOnCollision(t *testing.T) {
	s, idx := newSource(t, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
- uid: uid-2
  addresses: ["10.0.0.1"]
- uid: uid-3
  addresses: ["10.0.0.3"]
`)
	err := s.Load()
	assert.Error(t, err)
	if !errors.Is(err, index.ErrAliasCollision) {
		t.Fatalf("expected alias collision, got %v", err)
	}

	// Everything except the colliding record applied.
	_, ok := idx.Workload("uid-1")
	assert.Equal(t, ok, true)
	_, ok = idx.Workload("uid-2")
	assert.Equal(t, ok, false)
	_, ok = idx.Workload("uid-3")
	assert.Equal(t, ok, true)
}

func TestLoadGenerationsAdvance(t *testing.T) {
	s, idx := newSource(t, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
`)
	assert.NoError(t, s.Load())

	// Removing and restoring the record crosses a tombstone: the restore
	// only applies because each load carries a fresh generation.
	writeSnapshot(t, s.path, "workloads: []\n")
	assert.NoError(t, s.Load())
	_, ok := idx.Workload("uid-1")
	assert.Equal(t, ok, false)

	writeSnapshot(t, s.path, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
`)
	assert.NoError(t, s.Load())
	_, ok = idx.Workload("uid-1")
	assert.Equal(t, ok, true)
}

func TestRun(t *testing.T) {
	s, idx := newSource(t, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
`)
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go func() {
		if err := s.Run(stop); err != nil {
			t.Error(err)
		}
	}()

	assert.EventuallyEqual(t, func() bool {
		_, ok := idx.Workload("uid-1")
		return ok
	}, true)

	writeSnapshot(t, s.path, `
workloads:
- uid: uid-1
  addresses: ["10.0.0.1"]
- uid: uid-2
  addresses: ["10.0.0.2"]
`)
	assert.EventuallyEqual(t, func() bool {
		_, ok := idx.Workload("uid-2")
		return ok
	}, true)

	writeSnapshot(t, s.path, `
workloads:
- uid: uid-2
  addresses: ["10.0.0.2"]
`)
	assert.EventuallyEqual(t, func() bool {
		_, ok := idx.Workload("uid-1")
		return ok
	}, false)
}
