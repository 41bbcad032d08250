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

package cmd

import (
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/resolver"
	"github.com/ambientmesh/discovery/pkg/slices"
	"github.com/ambientmesh/discovery/pkg/workloadapi"
)

func resolveCmd() *cobra.Command {
	var lookupNetwork string
	cmd := &cobra.Command{
		Use:   "resolve <ip address|workload uid|namespace/hostname>",
		Short: "Resolve a data-plane lookup against a snapshot",
		Long: "Resolve answers a single lookup the way the data plane would: IP addresses " +
			"are resolved by (network, address) key, everything else by primary key. " +
			"Keys containing a slash resolve as services, all others as workload UIDs.",
		Example: `  # Who holds 10.0.0.9 on the mesh network?
  addrctl resolve 10.0.0.9 -f snapshot.yaml

  # Resolve a service by its primary key
  addrctl resolve default/svc.local -f snapshot.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			idx, err := loadIndex()
			if err != nil {
				return err
			}
			r := resolver.New(idx)
			out := c.OutOrStdout()

			target := args[0]
			if ip, err := netip.ParseAddr(target); err == nil {
				network := lookupNetwork
				if network == "" {
					network = mesh().Network
				}
				info, ok := r.ResolveByAddress(network, ip)
				if !ok {
					return fmt.Errorf("no serving record holds %s/%s", network, ip)
				}
				return printResolved(out, r, info)
			}
			kind := model.WorkloadKind
			if strings.Contains(target, "/") {
				kind = model.ServiceKind
			}
			info, ok := r.ResolveByKey(target, kind)
			if !ok {
				return fmt.Errorf("no record for key %q", target)
			}
			return printResolved(out, r, info)
		},
	}
	cmd.Flags().StringVar(&lookupNetwork, "lookup-network", "", "Network to resolve the address on, defaulting to the mesh network")
	return cmd
}

func printResolved(out io.Writer, r *resolver.Resolver, info model.AddressInfo) error {
	switch info.Kind() {
	case model.WorkloadKind:
		w := info.GetWorkload()
		wi := model.WorkloadInfo{Workload: w}
		fmt.Fprintf(out, "workload %s\n", w.Uid)
		if w.Name != "" {
			fmt.Fprintf(out, "  name:      %s/%s\n", w.Namespace, w.Name)
		}
		if len(w.Addresses) > 0 {
			fmt.Fprintf(out, "  addresses: %s\n", strings.Join(slices.Map(wi.Aliases(), model.NetworkAddress.String), " "))
		}
		if w.Hostname != "" {
			fmt.Fprintf(out, "  hostname:  %s\n", w.Hostname)
		}
		fmt.Fprintf(out, "  identity:  %s\n", wi.Identity())
		fmt.Fprintf(out, "  status:    %v\n", w.Status)
		if memberships := r.ResolveServiceMembership(w.Uid); len(memberships) > 0 {
			fmt.Fprintln(out, "  services:")
			for _, m := range memberships {
				fmt.Fprintf(out, "    %s %s\n", m.Service.ResourceName(), portsString(m.Ports))
			}
		}
	case model.ServiceKind:
		svc := info.GetService()
		si := model.ServiceInfo{Service: svc}
		key := si.ResourceName()
		fmt.Fprintf(out, "service %s\n", key)
		if aliases := si.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(out, "  vips:  %s\n", strings.Join(slices.Map(aliases, model.NetworkAddress.String), " "))
		}
		fmt.Fprintf(out, "  ports: %s\n", portsString(svc.Ports))
		if endpoints := r.ResolveServiceEndpoints(key); len(endpoints) > 0 {
			fmt.Fprintln(out, "  endpoints:")
			for _, ep := range endpoints {
				fmt.Fprintf(out, "    %s %s\n", ep.Workload.ResourceName(), portsString(ep.Ports))
			}
		}
	}
	return nil
}

func portsString(ports []*workloadapi.Port) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, fmt.Sprintf("%d->%d", p.GetServicePort(), p.GetTargetPort()))
	}
	return strings.Join(parts, ",")
}
