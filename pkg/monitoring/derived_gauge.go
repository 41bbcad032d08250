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

type derivedGauge struct {
	desc description

	mu     sync.RWMutex
	series map[string]derivedSeries
}

type derivedSeries struct {
	attrs []LabelValue
	fn    func() float64
}

var _ DerivedMetric = &derivedGauge{}

func newDerivedGauge(name, description string) *derivedGauge {
	d := &derivedGauge{
		desc:   newDescription(name, description, None),
		series: map[string]derivedSeries{},
	}
	registerStore(d)
	return d
}

func (d *derivedGauge) Name() string {
	return d.desc.name
}

func (d *derivedGauge) Register() error {
	return nil
}

func (d *derivedGauge) ValueFrom(valueFn func() float64, labelValues ...LabelValue) DerivedMetric {
	attrs := mergeLabelValues(nil, labelValues)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.series[seriesKey(attrs)] = derivedSeries{attrs: attrs, fn: valueFn}
	return d
}

func (d *derivedGauge) name() string { return d.desc.name }

// reset is a no-op: derived values are computed from live state, not
// accumulated, so a fresh export registry sees them immediately.
func (d *derivedGauge) reset() {}

func (d *derivedGauge) collect(ch chan<- prometheus.Metric) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.series {
		names, values := labelPairs(s.attrs)
		ch <- prometheus.MustNewConstMetric(
			prometheus.NewDesc(d.desc.name, d.desc.help, names, nil),
			prometheus.GaugeValue, s.fn(), values...)
	}
}
