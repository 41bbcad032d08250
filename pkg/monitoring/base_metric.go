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

package monitoring

import (
	"strings"
	"sync"

	"github.com/ambientmesh/discovery/pkg/slices"
)

// A Label provides a named dimension for a Metric.
type Label struct {
	key string
}

// CreateLabel creates a new Label.
func CreateLabel(key string) Label {
	return Label{key: key}
}

// Value creates a new LabelValue for the Label.
func (l Label) Value(value string) LabelValue {
	return LabelValue{key: l, value: value}
}

// A LabelValue represents a Label with a specific value. It is used to record
// values for a Metric.
type LabelValue struct {
	key   Label
	value string
}

// Key returns the Label this value was created for.
func (l LabelValue) Key() Label {
	return l.key
}

// Value returns the string value.
func (l LabelValue) Value() string {
	return l.value
}

// RecordHook has a callback function which a measure is recorded.
type RecordHook interface {
	OnRecord(name string, tags []LabelValue, value float64)
}

var (
	recordHooks     = map[string]RecordHook{}
	recordHookMutex sync.RWMutex
)

// RegisterRecordHook adds a RecordHook for a given measure.
func RegisterRecordHook(name string, h RecordHook) {
	recordHookMutex.Lock()
	defer recordHookMutex.Unlock()
	recordHooks[name] = h
}

type baseMetric struct {
	name string
	// attrs stores all attrs for the metrics
	attrs []LabelValue
	rest  Metric
}

func (f baseMetric) Name() string {
	return f.name
}

func (f baseMetric) Increment() {
	f.rest.Record(1)
}

func (f baseMetric) Decrement() {
	f.rest.Record(-1)
}

func (f baseMetric) runRecordHook(value float64) {
	recordHookMutex.RLock()
	if rh, ok := recordHooks[f.name]; ok {
		rh.OnRecord(f.name, f.attrs, value)
	}
	recordHookMutex.RUnlock()
}

func (f baseMetric) Register() error {
	return nil
}

// mergeLabelValues combines base labels with new ones, the new value winning
// on a key collision. The result is in canonical key order so equal label
// sets produce equal series keys.
func mergeLabelValues(base []LabelValue, labelValues []LabelValue) []LabelValue {
	merged := make([]LabelValue, 0, len(base)+len(labelValues))
	merged = append(merged, base...)
	for _, v := range labelValues {
		replaced := false
		for i, b := range merged {
			if b.key == v.key {
				merged[i] = v
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, v)
		}
	}
	return slices.SortBy(merged, func(l LabelValue) string { return l.key.key })
}

func seriesKey(attrs []LabelValue) string {
	sb := strings.Builder{}
	for _, a := range attrs {
		sb.WriteString(a.key.key)
		sb.WriteByte(0xff)
		sb.WriteString(a.value)
		sb.WriteByte(0xff)
	}
	return sb.String()
}

func labelPairs(attrs []LabelValue) (names []string, values []string) {
	names = make([]string, 0, len(attrs))
	values = make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.key.key)
		values = append(values, a.value)
	}
	return names, values
}

type description struct {
	name string
	help string
	unit Unit
}

func newDescription(name, help string, unit Unit) description {
	return description{name: name, help: help, unit: unit}
}
