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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/source/local"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Load a snapshot and print change events as the file is edited",
		Example: `  # Print one line per committed change until interrupted
  addrctl watch -f snapshot.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if snapshotFile == "" {
				return errors.New("--file is required")
			}
			policy, err := collisionPolicy()
			if err != nil {
				return err
			}
			out := c.OutOrStdout()

			idx := index.New(index.Options{Collision: policy})
			idx.RegisterHandler(func(e index.Event) {
				info := e.Latest()
				fmt.Fprintf(out, "%v %v %s\n", e.Event, info.Kind(), info.ResourceName())
			})

			stop := make(chan struct{})
			go func() {
				sigs := make(chan os.Signal, 1)
				signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
				<-sigs
				close(stop)
			}()

			src := local.New(idx, local.Options{Path: snapshotFile, Mesh: mesh()})
			return src.Run(stop)
		},
	}
	return cmd
}
