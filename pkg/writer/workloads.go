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

package writer

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/slices"
	"github.com/ambientmesh/discovery/pkg/source/local"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

// WorkloadFilter is used to pass filter information into workload based
// config writer print functions.
type WorkloadFilter struct {
	Namespace string
	Network   string
	Address   string
}

// Verify returns true if the passed workload matches the filter fields.
func (wf *WorkloadFilter) Verify(w *workloadapi.Workload) bool {
	if wf.Namespace != "" {
		if !strings.EqualFold(w.Namespace, wf.Namespace) {
			return false
		}
	}
	if wf.Network != "" {
		if !strings.EqualFold(w.Network, wf.Network) {
			return false
		}
	}
	if wf.Address != "" {
		found := false
		for _, b := range w.Addresses {
			if ip, ok := model.AddrFromBytes(b); ok && ip.String() == wf.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// PrintWorkloadSummary prints a summary of the relevant workloads in the
// snapshot to the ConfigWriter stdout.
func (c *ConfigWriter) PrintWorkloadSummary(filter WorkloadFilter) error {
	snap, err := c.snap()
	if err != nil {
		return err
	}
	w := c.tabwriter()

	workloads := slices.Filter(rawWorkloads(snap), filter.Verify)
	slices.SortFunc(workloads, func(a, b *workloadapi.Workload) int {
		if r := cmp.Compare(a.Namespace, b.Namespace); r != 0 {
			return r
		}
		if r := cmp.Compare(a.Name, b.Name); r != 0 {
			return r
		}
		return cmp.Compare(a.Uid, b.Uid)
	})
	fmt.Fprintln(w, "NAMESPACE\tNAME\tADDRESS\tNETWORK\tSTATUS\tPROTOCOL\tWAYPOINT")

	for _, wl := range workloads {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			wl.Namespace, wl.Name, workloadAddress(wl), wl.Network, wl.Status, wl.TunnelProtocol, gatewayName(wl.Waypoint))
	}
	return w.Flush()
}

// PrintWorkloadDump prints the relevant workloads in the snapshot to the
// ConfigWriter stdout.
func (c *ConfigWriter) PrintWorkloadDump(filter WorkloadFilter, outputFormat string) error {
	snap, err := c.snap()
	if err != nil {
		return err
	}
	workloads := slices.Filter(rawWorkloads(snap), filter.Verify)
	return c.printConfig(local.Export(workloads, nil), outputFormat)
}

// workloadAddress returns the workload's first bind address, or its
// hostname for records resolved on demand.
func workloadAddress(w *workloadapi.Workload) string {
	if len(w.Addresses) > 0 {
		if ip, ok := model.AddrFromBytes(w.Addresses[0]); ok {
			return ip.String()
		}
	}
	return w.Hostname
}

func gatewayName(gw *workloadapi.GatewayAddress) string {
	if gw == nil {
		return "None"
	}
	var name string
	switch d := gw.GetDestination().(type) {
	case *workloadapi.GatewayAddress_Hostname:
		name = d.Hostname.GetNamespace() + "/" + d.Hostname.GetHostname()
	case *workloadapi.GatewayAddress_Address:
		ip, ok := model.AddrFromBytes(d.Address.GetAddress())
		if !ok {
			return "None"
		}
		name = d.Address.GetNetwork() + "/" + ip.String()
	}
	if p := gw.GetPort(); p != 0 {
		name = fmt.Sprintf("%s:%d", name, p)
	}
	return name
}
