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

type gauge struct {
	baseMetric
	store *lastValueStore
}

var _ Metric = &gauge{}

func newGauge(name, description string, o options) *gauge {
	s := &lastValueStore{
		desc:   newDescription(name, description, o.unit),
		series: map[string]*lastValueSeries{},
	}
	registerStore(s)
	g := &gauge{
		baseMetric: baseMetric{name: name},
		store:      s,
	}
	g.rest = g
	return g
}

func (f *gauge) Record(value float64) {
	f.runRecordHook(value)
	f.store.set(f.attrs, value)
}

func (f *gauge) RecordInt(value int64) {
	f.Record(float64(value))
}

func (f *gauge) With(labelValues ...LabelValue) Metric {
	nm := &gauge{
		baseMetric: baseMetric{
			name:  f.name,
			attrs: mergeLabelValues(f.attrs, labelValues),
		},
		store: f.store,
	}
	nm.rest = nm
	return nm
}

// lastValueStore keeps the last recorded value per label set.
type lastValueStore struct {
	desc   description
	mu     sync.Mutex
	series map[string]*lastValueSeries
}

type lastValueSeries struct {
	attrs []LabelValue
	value float64
}

func (s *lastValueStore) set(attrs []LabelValue, value float64) {
	k := seriesKey(attrs)
	s.mu.Lock()
	p, ok := s.series[k]
	if !ok {
		p = &lastValueSeries{attrs: attrs}
		s.series[k] = p
	}
	p.value = value
	s.mu.Unlock()
}

func (s *lastValueStore) name() string { return s.desc.name }

func (s *lastValueStore) reset() {
	s.mu.Lock()
	s.series = map[string]*lastValueSeries{}
	s.mu.Unlock()
}

func (s *lastValueStore) collect(ch chan<- prometheus.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.series {
		names, values := labelPairs(p.attrs)
		ch <- prometheus.MustNewConstMetric(
			prometheus.NewDesc(s.desc.name, s.desc.help, names, nil),
			prometheus.GaugeValue, p.value, values...)
	}
}
