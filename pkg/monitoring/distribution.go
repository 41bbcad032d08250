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

type distribution struct {
	baseMetric
	store *histogramStore
}

var _ Metric = &distribution{}

func newDistribution(name, description string, bounds []float64, o options) *distribution {
	s := &histogramStore{
		desc:   newDescription(name, description, o.unit),
		bounds: bounds,
		series: map[string]*histogramSeries{},
	}
	registerStore(s)
	d := &distribution{
		baseMetric: baseMetric{name: name},
		store:      s,
	}
	d.rest = d
	return d
}

func (f *distribution) Record(value float64) {
	f.runRecordHook(value)
	f.store.observe(f.attrs, value)
}

func (f *distribution) RecordInt(value int64) {
	f.Record(float64(value))
}

func (f *distribution) With(labelValues ...LabelValue) Metric {
	nm := &distribution{
		baseMetric: baseMetric{
			name:  f.name,
			attrs: mergeLabelValues(f.attrs, labelValues),
		},
		store: f.store,
	}
	nm.rest = nm
	return nm
}

// histogramStore accumulates histogram observations per label set.
type histogramStore struct {
	desc   description
	bounds []float64
	mu     sync.Mutex
	series map[string]*histogramSeries
}

type histogramSeries struct {
	attrs []LabelValue
	count uint64
	sum   float64
	// cumulative observation counts, one per bound
	buckets []uint64
}

func (s *histogramStore) observe(attrs []LabelValue, value float64) {
	k := seriesKey(attrs)
	s.mu.Lock()
	p, ok := s.series[k]
	if !ok {
		p = &histogramSeries{attrs: attrs, buckets: make([]uint64, len(s.bounds))}
		s.series[k] = p
	}
	p.count++
	p.sum += value
	for i, b := range s.bounds {
		if value <= b {
			p.buckets[i]++
		}
	}
	s.mu.Unlock()
}

func (s *histogramStore) name() string { return s.desc.name }

func (s *histogramStore) reset() {
	s.mu.Lock()
	s.series = map[string]*histogramSeries{}
	s.mu.Unlock()
}

func (s *histogramStore) collect(ch chan<- prometheus.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.series {
		names, values := labelPairs(p.attrs)
		buckets := make(map[float64]uint64, len(s.bounds))
		for i, b := range s.bounds {
			buckets[b] = p.buckets[i]
		}
		ch <- prometheus.MustNewConstHistogram(
			prometheus.NewDesc(s.desc.name, s.desc.help, names, nil),
			p.count, p.sum, buckets, values...)
	}
}
