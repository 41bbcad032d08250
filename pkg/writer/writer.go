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

// Package writer renders discovery snapshots for humans and tooling:
// aligned summary tables, and JSON or YAML dumps that load back as
// snapshot files.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/slices"
	"github.com/ambientmesh/discovery/pkg/source/local"
	"github.com/ambientmesh/discovery/pkg/version"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

// ConfigWriter is a writer for printing the contents of a discovery
// snapshot.
type ConfigWriter struct {
	Stdout   io.Writer
	snapshot *index.Snapshot
}

// Prime loads a snapshot file into the writer ready for printing. The file
// is printed as it stands; no mesh defaults are substituted.
func (c *ConfigWriter) Prime(b []byte) error {
	cfg, err := local.Parse(b)
	if err != nil {
		return fmt.Errorf("error reading snapshot: %v", err)
	}
	workloads, services, err := cfg.Build(model.Mesh{})
	if err != nil {
		return fmt.Errorf("error reading snapshot: %v", err)
	}
	c.snapshot = &index.Snapshot{
		Workloads: slices.Map(workloads, func(w *workloadapi.Workload) model.WorkloadInfo {
			return model.WorkloadInfo{Workload: w}
		}),
		Services: slices.Map(services, func(s *workloadapi.Service) model.ServiceInfo {
			return model.ServiceInfo{Service: s}
		}),
	}
	return nil
}

// PrimeIndex loads a point-in-time snapshot of a live index into the writer
// ready for printing.
func (c *ConfigWriter) PrimeIndex(idx *index.Index) {
	snap := idx.Snapshot()
	c.snapshot = &snap
}

func (c *ConfigWriter) snap() (*index.Snapshot, error) {
	if c.snapshot == nil {
		return nil, fmt.Errorf("config writer has not been primed")
	}
	return c.snapshot, nil
}

func (c *ConfigWriter) tabwriter() *tabwriter.Writer {
	return new(tabwriter.Writer).Init(c.Stdout, 0, 8, 1, ' ', 0)
}

// PrintFullSummary prints the workload and service summaries to the
// ConfigWriter stdout.
func (c *ConfigWriter) PrintFullSummary(wf WorkloadFilter, sf ServiceFilter) error {
	if err := c.PrintWorkloadSummary(wf); err != nil {
		return err
	}
	_, _ = c.Stdout.Write([]byte("\n"))
	return c.PrintServiceSummary(sf)
}

// PrintDump prints the filtered records as one loadable snapshot file to
// the ConfigWriter stdout.
func (c *ConfigWriter) PrintDump(wf WorkloadFilter, sf ServiceFilter, outputFormat string) error {
	snap, err := c.snap()
	if err != nil {
		return err
	}
	workloads := slices.Filter(rawWorkloads(snap), wf.Verify)
	services := slices.Filter(rawServices(snap), sf.Verify)
	return c.printConfig(local.Export(workloads, services), outputFormat)
}

// PrintVersionSummary prints version information for the binary to the
// ConfigWriter stdout.
func (c *ConfigWriter) PrintVersionSummary() error {
	_, err := fmt.Fprintln(c.Stdout, version.Info.String())
	return err
}

func (c *ConfigWriter) printConfig(cfg *local.Config, outputFormat string) error {
	out, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}
	if outputFormat == "yaml" {
		if out, err = yaml.JSONToYAML(out); err != nil {
			return err
		}
	}
	fmt.Fprintln(c.Stdout, string(out))
	return nil
}

func rawWorkloads(snap *index.Snapshot) []*workloadapi.Workload {
	return slices.Map(snap.Workloads, func(i model.WorkloadInfo) *workloadapi.Workload { return i.Workload })
}

func rawServices(snap *index.Snapshot) []*workloadapi.Service {
	return slices.Map(snap.Services, func(i model.ServiceInfo) *workloadapi.Service { return i.Service })
}
