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

// Package local feeds an index from a snapshot file on disk. Each load is a
// full snapshot: records present in the file are upserted, records a prior
// load installed but the file no longer names are removed. A monotonic
// generation number is used as the upsert version, so a slow reload can
// never roll a record back.
package local

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/log"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/queue"
	"github.com/ambientmesh/discovery/pkg/util/sets"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

var sourceLog = log.RegisterScope("source", "snapshot file source")

// Options configures a Source.
type Options struct {
	// Path of the snapshot file.
	Path string
	// Mesh supplies defaults for records that omit network or identity
	// fields. The file's own defaults block overrides it.
	Mesh model.Mesh
}

// Source loads snapshot files into an index.
type Source struct {
	path string
	mesh model.Mesh
	idx  *index.Index

	// queue serializes reloads so a burst of file events cannot interleave
	// two applies, and retries failed loads with backoff.
	queue queue.Instance

	mu             sync.Mutex
	generation     uint64
	knownWorkloads sets.String
	knownServices  sets.String
}

// New returns a Source feeding idx. Nothing is loaded until Load or Run is
// called.
func New(idx *index.Index, opts Options) *Source {
	return &Source{
		path:           opts.Path,
		mesh:           opts.Mesh,
		idx:            idx,
		queue:          queue.NewBackOffQueue(),
		knownWorkloads: sets.New[string](),
		knownServices:  sets.New[string](),
	}
}

// Load reads the snapshot file and applies it to the index. A file that
// fails to parse or validate is rejected whole; the index keeps serving the
// previous snapshot. Errors applying individual records do not stop the
// rest of the snapshot from applying.
func (s *Source) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	workloads, services, err := cfg.Build(s.mesh)
	if err != nil {
		return err
	}
	return s.apply(workloads, services)
}

func (s *Source) apply(workloads []*workloadapi.Workload, services []*workloadapi.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	gen := s.generation

	var errs []error
	changed := 0

	nextWorkloads := sets.NewWithLength[string](len(workloads))
	for _, w := range workloads {
		nextWorkloads.Insert(w.Uid)
		if cur, ok := s.idx.Workload(w.Uid); ok && cur.Workload.Equal(w) {
			continue
		}
		applied, err := s.idx.UpsertWorkload(w, gen)
		if err != nil {
			errs = append(errs, fmt.Errorf("workload %q: %w", w.Uid, err))
			continue
		}
		if applied {
			changed++
		}
	}

	nextServices := sets.NewWithLength[string](len(services))
	for _, svc := range services {
		key := model.ServiceKey(svc.Namespace, svc.Hostname)
		nextServices.Insert(key)
		if cur, ok := s.idx.Service(key); ok && cur.Service.Equal(svc) {
			continue
		}
		applied, err := s.idx.UpsertService(svc, gen)
		if err != nil {
			errs = append(errs, fmt.Errorf("service %q: %w", key, err))
			continue
		}
		if applied {
			changed++
		}
	}

	removed := 0
	for _, uid := range sets.SortedList(s.knownWorkloads.Difference(nextWorkloads)) {
		if s.idx.RemoveWorkload(uid) {
			removed++
		}
	}
	for _, key := range sets.SortedList(s.knownServices.Difference(nextServices)) {
		if s.idx.RemoveService(key) {
			removed++
		}
	}
	s.knownWorkloads = nextWorkloads
	s.knownServices = nextServices

	sourceLog.Infof("generation %d: %d workloads, %d services (%d changed, %d removed)",
		gen, len(workloads), len(services), changed, removed)
	return errors.Join(errs...)
}

// Run loads the snapshot, then reloads it whenever the file changes, until
// stop closes. Reloads are serialized through the queue and retried with
// backoff, so a half-written or briefly missing file heals on its own.
func (s *Source) Run(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Watch the directory rather than the file. Editors and config mounts
	// replace the file by rename, which silently drops a watch registered
	// on the path itself. The watch is established before the first load so
	// a write racing startup schedules a reload instead of going unseen.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	if err := s.Load(); err != nil {
		return err
	}

	go s.queue.Run(stop)
	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(e.Name) != filepath.Base(s.path) {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			sourceLog.Debugf("snapshot event %v, scheduling reload", e.Op)
			s.queue.Push(s.Load)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			sourceLog.Errorf("snapshot watch error: %v", err)
		case <-stop:
			return nil
		}
	}
}
