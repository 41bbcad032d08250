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

// Package cmd implements the addrctl command tree: load a discovery
// snapshot file and inspect, query, validate, or watch it.
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ambientmesh/discovery/pkg/index"
	"github.com/ambientmesh/discovery/pkg/log"
	"github.com/ambientmesh/discovery/pkg/model"
	"github.com/ambientmesh/discovery/pkg/source/local"
	"github.com/ambientmesh/discovery/pkg/version"
	"github.com/ambientmesh/discovery/pkg/writer"
)

var (
	snapshotFile   string
	meshNetwork    string
	trustDomain    string
	serviceAccount string
	collisionMode  string

	loggingOptions = log.DefaultOptions()
)

// GetRootCmd returns the root of the cobra command-tree.
func GetRootCmd(args []string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "addrctl",
		Short:        "Inspect and query mesh discovery snapshots.",
		Long:         "addrctl loads workload and service discovery snapshots and answers the same lookups the data plane would issue.",
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return log.Configure(loggingOptions)
		},
	}
	rootCmd.SetArgs(args)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&snapshotFile, "file", "f", "", "Snapshot file to load")
	pf.StringVar(&meshNetwork, "network", "", "Default network for records that do not name one")
	pf.StringVar(&trustDomain, "trust-domain", "", "Default trust domain for workload identities")
	pf.StringVar(&serviceAccount, "service-account", "", "Default service account for workload identities")
	pf.StringVar(&collisionMode, "collision", "reject", "Address collision policy, one of reject or last-writer-wins")

	rootCmd.AddCommand(workloadsCmd())
	rootCmd.AddCommand(servicesCmd())
	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(version.CobraCommand())

	loggingOptions.AttachCobraFlags(rootCmd)

	return rootCmd
}

func mesh() model.Mesh {
	m := model.DefaultMesh()
	if meshNetwork != "" {
		m.Network = meshNetwork
	}
	if trustDomain != "" {
		m.TrustDomain = trustDomain
	}
	if serviceAccount != "" {
		m.ServiceAccount = serviceAccount
	}
	return m
}

func collisionPolicy() (index.CollisionPolicy, error) {
	switch collisionMode {
	case "", "reject":
		return index.RejectIncoming, nil
	case "last-writer-wins":
		return index.LastWriterWins, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q", collisionMode)
}

// loadIndex builds an index from the --file snapshot.
func loadIndex() (*index.Index, error) {
	if snapshotFile == "" {
		return nil, errors.New("--file is required")
	}
	policy, err := collisionPolicy()
	if err != nil {
		return nil, err
	}
	idx := index.New(index.Options{Collision: policy})
	src := local.New(idx, local.Options{Path: snapshotFile, Mesh: mesh()})
	if err := src.Load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func configWriter(out io.Writer) (*writer.ConfigWriter, error) {
	idx, err := loadIndex()
	if err != nil {
		return nil, err
	}
	cw := &writer.ConfigWriter{Stdout: out}
	cw.PrimeIndex(idx)
	return cw, nil
}
