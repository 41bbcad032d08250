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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambientmesh/discovery/pkg/source/local"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a snapshot file without applying it",
		Long: "Validate parses and validates every record in a snapshot file, reporting " +
			"every problem rather than stopping at the first.",
		Example: `  addrctl validate -f snapshot.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if snapshotFile == "" {
				return errors.New("--file is required")
			}
			data, err := os.ReadFile(snapshotFile)
			if err != nil {
				return err
			}
			cfg, err := local.Parse(data)
			if err != nil {
				return err
			}
			workloads, services, err := cfg.Build(mesh())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "validated %s: %d workloads, %d services\n",
				snapshotFile, len(workloads), len(services))
			return nil
		},
	}
	return cmd
}
