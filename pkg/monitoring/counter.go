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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type counter struct {
	baseMetric
	store *sumStore
}

var _ Metric = &counter{}

func newCounter(name, description string, o options) *counter {
	s := &sumStore{
		desc:   newDescription(name, description, o.unit),
		series: map[string]*sumSeries{},
	}
	registerStore(s)
	c := &counter{
		baseMetric: baseMetric{name: name},
		store:      s,
	}
	c.rest = c
	return c
}

func (f *counter) Record(value float64) {
	f.runRecordHook(value)
	f.store.add(f.attrs, value)
}

func (f *counter) RecordInt(value int64) {
	f.Record(float64(value))
}

func (f *counter) With(labelValues ...LabelValue) Metric {
	nm := &counter{
		baseMetric: baseMetric{
			name:  f.name,
			attrs: mergeLabelValues(f.attrs, labelValues),
		},
		store: f.store,
	}
	nm.rest = nm
	return nm
}

// sumStore accumulates cumulative sums per label set. All With derivatives of
// a Sum share the same store.
type sumStore struct {
	desc   description
	mu     sync.Mutex
	series map[string]*sumSeries
}

type sumSeries struct {
	attrs []LabelValue
	value float64
}

func (s *sumStore) add(attrs []LabelValue, value float64) {
	k := seriesKey(attrs)
	s.mu.Lock()
	p, ok := s.series[k]
	if !ok {
		p = &sumSeries{attrs: attrs}
		s.series[k] = p
	}
	p.value += value
	s.mu.Unlock()
}

func (s *sumStore) name() string { return s.desc.name }

func (s *sumStore) reset() {
	s.mu.Lock()
	s.series = map[string]*sumSeries{}
	s.mu.Unlock()
}

func (s *sumStore) collect(ch chan<- prometheus.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.series {
		names, values := labelPairs(p.attrs)
		ch <- prometheus.MustNewConstMetric(
			prometheus.NewDesc(s.desc.name, s.desc.help, names, nil),
			prometheus.CounterValue, p.value, values...)
	}
}
