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
	"sync"

	"github.com/ambientmesh/discovery/pkg/model"
)

// EventType represents an index update event.
type EventType int

const (
	// EventAdd is sent when a record is added
	EventAdd EventType = iota

	// EventUpdate is sent when a record is modified
	// Captures the modified record
	EventUpdate

	// EventDelete is sent when a record is deleted
	// Captures the record at the last known state
	EventDelete
)

func (event EventType) String() string {
	out := "unknown"
	switch event {
	case EventAdd:
		out = "add"
	case EventUpdate:
		out = "update"
	case EventDelete:
		out = "delete"
	}
	return out
}

// Event describes one committed change to the index.
type Event struct {
	// Old record, set on Update or Delete.
	Old *model.AddressInfo
	// New record, set on Add or Update.
	New *model.AddressInfo
	// Event is the change type.
	Event EventType
}

// Latest returns only the latest record (New for add/update, Old for delete).
func (e Event) Latest() model.AddressInfo {
	if e.New != nil {
		return *e.New
	}
	return *e.Old
}

// Items returns both the Old and New record, if present.
func (e Event) Items() []model.AddressInfo {
	res := make([]model.AddressInfo, 0, 2)
	if e.Old != nil {
		res = append(res, *e.Old)
	}
	if e.New != nil {
		res = append(res, *e.New)
	}
	return res
}

// Handler receives committed index events. Handlers run synchronously after
// the write lock is released, in commit order.
type Handler func(Event)

type handlers struct {
	mu  sync.RWMutex
	fns []Handler
}

func (h *handlers) register(fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *handlers) dispatch(e Event) {
	h.mu.RLock()
	fns := h.fns
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}
