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
	"context"
	"net/netip"
	"sync"

	"github.com/ambientmesh/discovery/pkg/slices"
)

// hostnameTracker records hostname resolutions in flight so that removing a
// workload cancels work the external resolver no longer needs. Resolved
// addresses live in a side table until the owning record changes; they are
// never installed as alias keys.
type hostnameTracker struct {
	mu       sync.Mutex
	inflight map[string]*pendingResolution
	resolved map[string][]netip.Addr
}

type pendingResolution struct {
	hostname string
	cancel   context.CancelFunc
}

func newHostnameTracker() *hostnameTracker {
	return &hostnameTracker{
		inflight: make(map[string]*pendingResolution),
		resolved: make(map[string][]netip.Addr),
	}
}

// track registers a resolution in flight, replacing and cancelling any
// previous registration for the same uid.
func (t *hostnameTracker) track(parent context.Context, uid, hostname string) context.Context {
	ctx, cancel := context.WithCancel(parent)
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.inflight[uid]; ok {
		prev.cancel()
	}
	t.inflight[uid] = &pendingResolution{hostname: hostname, cancel: cancel}
	return ctx
}

func (t *hostnameTracker) complete(uid string, addrs []netip.Addr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.inflight[uid]
	if !ok {
		return false
	}
	p.cancel()
	delete(t.inflight, uid)
	t.resolved[uid] = slices.Clone(addrs)
	return true
}

func (t *hostnameTracker) invalidate(uid string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.inflight[uid]; ok {
		p.cancel()
		delete(t.inflight, uid)
	}
	delete(t.resolved, uid)
}

func (t *hostnameTracker) addresses(uid string) []netip.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.resolved[uid])
}

func (t *hostnameTracker) pendingHostname(uid string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.inflight[uid]
	if !ok {
		return "", false
	}
	return p.hostname, true
}

// RegisterHostnameResolution marks the workload's hostname resolution as in
// flight and returns a context the external resolver should run under. The
// context is cancelled once the resolution completes or the record is
// removed or replaced. Returns false when the workload does not exist or
// carries no hostname.
func (i *Index) RegisterHostnameResolution(ctx context.Context, uid string) (context.Context, bool) {
	w, ok := i.workloads.get(uid)
	if !ok || w.Workload.GetHostname() == "" {
		return nil, false
	}
	resCtx := i.hostnames.track(ctx, uid, w.Workload.GetHostname())
	// A removal may race the registration; a removed uid must never stay
	// tracked.
	if _, ok := i.workloads.get(uid); !ok {
		i.hostnames.invalidate(uid)
		return nil, false
	}
	return resCtx, true
}

// CompleteHostnameResolution delivers resolved addresses for a workload.
// Completions for unknown, removed, or superseded records are discarded,
// reported by a false return.
func (i *Index) CompleteHostnameResolution(uid string, addrs []netip.Addr) bool {
	if !i.hostnames.complete(uid, addrs) {
		indexLog.Debugf("discarding hostname resolution for %q: not in flight", uid)
		return false
	}
	return true
}

// ResolvedAddresses returns the addresses delivered for uid by the external
// resolver, if any. The side table is cleared whenever the record changes.
func (i *Index) ResolvedAddresses(uid string) []netip.Addr {
	return i.hostnames.addresses(uid)
}

// PendingHostname reports the hostname whose resolution is in flight for
// uid, for diagnostics.
func (i *Index) PendingHostname(uid string) (string, bool) {
	return i.hostnames.pendingHostname(uid)
}
