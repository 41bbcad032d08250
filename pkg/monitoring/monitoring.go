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

// Package monitoring provides metrics for the process, built on Prometheus.
// Unlike the raw Prometheus client, metrics declared here carry free-form
// label sets: any combination of labels may be attached at record time with
// With, without declaring the label names up front.
package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ambientmesh/discovery/pkg/log"
)

var monitoringLogger = log.RegisterScope("monitoring", "metrics monitoring")

// A Metric collects numerical observations.
type Metric interface {
	// Increment records a value of 1 for the current measure. For Sums,
	// this is equivalent to adding 1 to the current value. For Gauges,
	// this is equivalent to setting the value to 1. For Distributions,
	// this is equivalent to making an observation of value 1.
	Increment()

	// Decrement records a value of -1 for the current measure. For Sums,
	// this is equivalent to subtracting -1 to the current value. For Gauges,
	// this is equivalent to setting the value to -1. For Distributions,
	// this is equivalent to making an observation of value -1.
	Decrement()

	// Name returns the name value of a Metric.
	Name() string

	// Record makes an observation of the provided value for the given measure.
	Record(value float64)

	// RecordInt makes an observation of the provided value for the measure.
	RecordInt(value int64)

	// With creates a new Metric, with the LabelValues provided. This allows creating
	// a set of pre-dimensioned data for recording purposes. This is primarily used
	// for documentation and convenience. Metrics created with this method do not need
	// to be registered (they share the registration of their parent Metric).
	With(labelValues ...LabelValue) Metric

	// Register configures the metric for export. It MUST be called before collection
	// of values for the Metric. An error will be returned if registration fails.
	Register() error
}

// DerivedMetric can be used to supply values that dynamically derive from internal
// state, but are not updated based on any specific event. Their value will be calculated
// based on a value func that a metric owner can register.
type DerivedMetric interface {
	// Name returns the name value of a DerivedMetric.
	Name() string

	// Register handles any required registration/initialization of the metric.
	Register() error

	// ValueFrom is used to update the derived value with a
	// value function and a set of labels
	ValueFrom(valueFn func() float64, labelValues ...LabelValue) DerivedMetric
}

// NewSum creates a new Sum Metric (the values will be cumulative).
// That means that data collected by the new Metric will be summed before export.
func NewSum(name, description string, opts ...Options) Metric {
	o := createOptions(opts...)
	if o.enabledCondition != nil && !o.enabledCondition() {
		return &disabledMetric{name: name}
	}
	return newCounter(name, description, o)
}

// NewGauge creates a new Gauge Metric. That means that data collected by the new
// Metric will export only the last recorded value.
func NewGauge(name, description string, opts ...Options) Metric {
	o := createOptions(opts...)
	if o.enabledCondition != nil && !o.enabledCondition() {
		return &disabledMetric{name: name}
	}
	return newGauge(name, description, o)
}

// NewDistribution creates a new Metric with an aggregation type of Distribution.
// This means that the data collected by the Metric will be collected and exported
// as a histogram, with the specified bounds.
func NewDistribution(name, description string, bounds []float64, opts ...Options) Metric {
	o := createOptions(opts...)
	if o.enabledCondition != nil && !o.enabledCondition() {
		return &disabledMetric{name: name}
	}
	return newDistribution(name, description, bounds, o)
}

// NewDerivedGauge creates a new Gauge Metric whose value is computed on demand
// by one or more registered value functions.
func NewDerivedGauge(name, description string) DerivedMetric {
	return newDerivedGauge(name, description)
}

// store holds the accumulated series for one metric family.
type store interface {
	name() string
	collect(ch chan<- prometheus.Metric)
	reset()
}

var (
	storesMu sync.Mutex
	stores   []store
)

func registerStore(s store) {
	storesMu.Lock()
	defer storesMu.Unlock()
	for _, existing := range stores {
		if existing.name() == s.name() {
			monitoringLogger.Errorf("metric %q is already registered, ignoring duplicate", s.name())
			return
		}
	}
	stores = append(stores, s)
}

// storesCollector exports every registered metric family. It is an unchecked
// collector: label sets are not known until record time.
type storesCollector struct{}

func (storesCollector) Describe(chan<- *prometheus.Desc) {}

func (storesCollector) Collect(ch chan<- prometheus.Metric) {
	storesMu.Lock()
	all := make([]store, len(stores))
	copy(all, stores)
	storesMu.Unlock()
	for _, s := range all {
		s.collect(ch)
	}
}

// RegisterPrometheusExporter installs the provided registry as the export target
// for all metrics and returns an http.Handler suitable for serving them.
// Any series recorded before the call are dropped, the new registry starts clean.
func RegisterPrometheusExporter(reg prometheus.Registerer, gatherer prometheus.Gatherer) (http.Handler, error) {
	storesMu.Lock()
	for _, s := range stores {
		s.reset()
	}
	storesMu.Unlock()
	if err := reg.Register(storesCollector{}); err != nil {
		return nil, err
	}
	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return handler, nil
}
