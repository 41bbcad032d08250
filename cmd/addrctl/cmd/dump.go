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

	"github.com/spf13/cobra"

	"github.com/ambientmesh/discovery/pkg/writer"
)

func workloadsCmd() *cobra.Command {
	var (
		outputFormat string
		filter       writer.WorkloadFilter
	)
	cmd := &cobra.Command{
		Use:   "workloads",
		Short: "Print the workload records in a snapshot",
		Example: `  # Print a summary of the workloads in a snapshot
  addrctl workloads -f snapshot.yaml

  # Dump the prod namespace workloads as YAML
  addrctl workloads -f snapshot.yaml --workload-namespace prod -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cw, err := configWriter(c.OutOrStdout())
			if err != nil {
				return err
			}
			switch outputFormat {
			case "", "summary":
				return cw.PrintWorkloadSummary(filter)
			case "json", "yaml":
				return cw.PrintWorkloadDump(filter, outputFormat)
			default:
				return fmt.Errorf("output format %q not supported", outputFormat)
			}
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "summary", "Output format: one of summary, json, yaml")
	cmd.Flags().StringVar(&filter.Namespace, "workload-namespace", "", "Only print workloads in this namespace")
	cmd.Flags().StringVar(&filter.Network, "workload-network", "", "Only print workloads on this network")
	cmd.Flags().StringVar(&filter.Address, "workload-address", "", "Only print workloads binding this address")
	return cmd
}

func servicesCmd() *cobra.Command {
	var (
		outputFormat string
		filter       writer.ServiceFilter
	)
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Print the service records in a snapshot",
		Example: `  # Print a summary of the services in a snapshot
  addrctl services -f snapshot.yaml

  # Dump every service as JSON
  addrctl services -f snapshot.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cw, err := configWriter(c.OutOrStdout())
			if err != nil {
				return err
			}
			switch outputFormat {
			case "", "summary":
				return cw.PrintServiceSummary(filter)
			case "json", "yaml":
				return cw.PrintServiceDump(filter, outputFormat)
			default:
				return fmt.Errorf("output format %q not supported", outputFormat)
			}
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "summary", "Output format: one of summary, json, yaml")
	cmd.Flags().StringVar(&filter.Namespace, "service-namespace", "", "Only print services in this namespace")
	return cmd
}

func dumpCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump a snapshot with mesh defaults substituted",
		Long: "Dump prints every record with mesh defaults substituted inline. " +
			"The output is itself a valid snapshot file.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cw, err := configWriter(c.OutOrStdout())
			if err != nil {
				return err
			}
			switch outputFormat {
			case "json", "yaml":
				return cw.PrintDump(writer.WorkloadFilter{}, writer.ServiceFilter{}, outputFormat)
			default:
				return fmt.Errorf("output format %q not supported", outputFormat)
			}
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format: one of json, yaml")
	return cmd
}
