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

// ServiceFilter is used to pass filter information into service based
// config writer print functions.
type ServiceFilter struct {
	Namespace string
}

// Verify returns true if the passed service matches the filter fields.
func (sf *ServiceFilter) Verify(svc *workloadapi.Service) bool {
	if sf.Namespace != "" {
		if !strings.EqualFold(svc.Namespace, sf.Namespace) {
			return false
		}
	}
	return true
}

// PrintServiceSummary prints a summary of the relevant services in the
// snapshot to the ConfigWriter stdout.
func (c *ConfigWriter) PrintServiceSummary(filter ServiceFilter) error {
	snap, err := c.snap()
	if err != nil {
		return err
	}
	w := c.tabwriter()

	svcs := slices.Filter(rawServices(snap), filter.Verify)
	slices.SortFunc(svcs, func(a, b *workloadapi.Service) int {
		if r := cmp.Compare(a.Namespace, b.Namespace); r != 0 {
			return r
		}
		if r := cmp.Compare(a.Name, b.Name); r != 0 {
			return r
		}
		return cmp.Compare(a.Hostname, b.Hostname)
	})
	fmt.Fprintln(w, "NAMESPACE\tNAME\tHOSTNAME\tVIP\tPORTS")

	for _, svc := range svcs {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n",
			svc.Namespace, svc.Name, svc.Hostname, serviceVIP(svc), servicePorts(svc))
	}
	return w.Flush()
}

// PrintServiceDump prints the relevant services in the snapshot to the
// ConfigWriter stdout.
func (c *ConfigWriter) PrintServiceDump(filter ServiceFilter, outputFormat string) error {
	snap, err := c.snap()
	if err != nil {
		return err
	}
	svcs := slices.Filter(rawServices(snap), filter.Verify)
	return c.printConfig(local.Export(nil, svcs), outputFormat)
}

// serviceVIP returns the service's first alias key, or "None" for headless
// services.
func serviceVIP(svc *workloadapi.Service) string {
	aliases := model.ServiceInfo{Service: svc}.Aliases()
	if len(aliases) == 0 {
		return "None"
	}
	return aliases[0].String()
}

func servicePorts(svc *workloadapi.Service) string {
	parts := make([]string, 0, len(svc.Ports))
	for _, p := range svc.Ports {
		parts = append(parts, fmt.Sprintf("%d->%d", p.GetServicePort(), p.GetTargetPort()))
	}
	return strings.Join(parts, ",")
}
