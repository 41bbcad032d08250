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

// Package monitortest provides assertion helpers for metrics. Creating a
// MetricsTest installs a fresh export registry, so tests do not observe
// values recorded by earlier tests.
package monitortest

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ambientmesh/discovery/pkg/monitoring"
	"github.com/ambientmesh/discovery/pkg/test"
	"github.com/ambientmesh/discovery/pkg/test/util/retry"
)

type MetricsTest struct {
	t   test.Failer
	reg prometheus.Gatherer
}

func New(t test.Failer) *MetricsTest {
	reg := prometheus.NewRegistry()
	if _, err := monitoring.RegisterPrometheusExporter(reg, reg); err != nil {
		t.Fatalf("failed to install test exporter: %v", err)
	}
	return &MetricsTest{t: t, reg: reg}
}

// Metric is a single gathered time series.
type Metric struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Metrics returns every time series currently exported, flattened.
func (m *MetricsTest) Metrics() []Metric {
	m.t.Helper()
	families, err := m.reg.Gather()
	if err != nil {
		m.t.Fatalf("failed to gather metrics: %v", err)
	}
	res := []Metric{}
	for _, mf := range families {
		for _, row := range mf.Metric {
			res = append(res, Metric{
				Name:   mf.GetName(),
				Labels: labelMap(row),
				Value:  toFloat(rowValue(row)),
			})
		}
	}
	return res
}

// Compare checks a gathered value. It is called with nil when no matching
// series was found.
type Compare func(any) bool

// Exactly matches series whose value is exactly v. A series that was never
// recorded is treated as zero.
func Exactly(v float64) Compare {
	return func(f any) bool {
		if f == nil {
			return v == 0
		}
		return v == toFloat(f)
	}
}

// AtLeast matches series whose value is at least v.
func AtLeast(v float64) Compare {
	return func(f any) bool {
		if f == nil {
			return v <= 0
		}
		return toFloat(f) >= v
	}
}

// DoesNotExist matches only when the series was never recorded.
var DoesNotExist Compare = func(f any) bool {
	return f == nil
}

// Distribution matches a histogram with the given observation count and sum.
func Distribution(count uint64, sum float64) Compare {
	return func(f any) bool {
		h, ok := f.(*dto.Histogram)
		if !ok {
			return false
		}
		return h.GetSampleCount() == count && h.GetSampleSum() == sum
	}
}

// Buckets matches a histogram with the given number of buckets.
func Buckets(count int) Compare {
	return func(f any) bool {
		h, ok := f.(*dto.Histogram)
		if !ok {
			return false
		}
		return len(h.GetBucket()) == count
	}
}

// Assert waits for a series of the named metric matching the tags (a subset
// of the series labels) to satisfy the comparison.
func (m *MetricsTest) Assert(name string, tags map[string]string, val Compare, opts ...retry.Option) {
	m.t.Helper()
	opt := []retry.Option{retry.Timeout(time.Second * 5), retry.Message("metric not found")}
	opt = append(opt, opts...)
	err := retry.UntilSuccess(func() error {
		families, err := m.reg.Gather()
		if err != nil {
			return err
		}
		var mf *dto.MetricFamily
		for _, f := range families {
			if f.GetName() == name {
				mf = f
				break
			}
		}
		if mf == nil {
			if val(nil) {
				return nil
			}
			return fmt.Errorf("metric %v not found", name)
		}
		for _, row := range mf.Metric {
			if !labelsMatch(row, tags) {
				continue
			}
			if val(rowValue(row)) {
				return nil
			}
			m.t.Logf("got unexpected val %v for %v%v", display(rowValue(row)), name, tags)
		}
		if val(nil) {
			return nil
		}
		return fmt.Errorf("no matching rows found for %v%v", name, tags)
	}, opt...)
	if err != nil {
		m.Dump()
		m.t.Fatal(err)
	}
}

// Dump logs every gathered series, to aid debugging a failed assertion.
func (m *MetricsTest) Dump() {
	m.t.Helper()
	families, err := m.reg.Gather()
	if err != nil {
		m.t.Logf("failed to gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		m.t.Logf("metric %v: %v rows", mf.GetName(), len(mf.Metric))
		for _, row := range mf.Metric {
			kv := []string{}
			for k, v := range labelMap(row) {
				kv = append(kv, k+"="+v)
			}
			m.t.Logf(" %v{%v} %v", mf.GetName(), strings.Join(kv, ","), display(rowValue(row)))
		}
	}
}

func labelMap(row *dto.Metric) map[string]string {
	res := map[string]string{}
	for _, l := range row.Label {
		res[l.GetName()] = l.GetValue()
	}
	return res
}

func labelsMatch(row *dto.Metric, tags map[string]string) bool {
	have := labelMap(row)
	for k, v := range tags {
		if have[k] != v {
			return false
		}
	}
	return true
}

func rowValue(row *dto.Metric) any {
	switch {
	case row.Counter != nil:
		return row.Counter.GetValue()
	case row.Gauge != nil:
		return row.Gauge.GetValue()
	case row.Histogram != nil:
		return row.Histogram
	case row.Untyped != nil:
		return row.Untyped.GetValue()
	}
	return nil
}

func toFloat(r any) float64 {
	switch v := r.(type) {
	default:
		panic(fmt.Sprintf("unknown type %T", r))
	case int64:
		return float64(v)
	case float64:
		return v
	case *dto.Histogram:
		return v.GetSampleSum()
	}
}

func display(r any) string {
	switch v := r.(type) {
	default:
		return fmt.Sprintf("%v", v)
	case *dto.Histogram:
		return fmt.Sprintf("distribution{count=%v,sum=%v}", v.GetSampleCount(), v.GetSampleSum())
	}
}
