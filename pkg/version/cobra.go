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

package version

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// CobraCommand returns a command used to print version information.
func CobraCommand() *cobra.Command {
	var (
		short  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Prints out build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && output != "yaml" && output != "json" {
				return errors.New(`--output must be 'yaml' or 'json'`)
			}

			switch output {
			case "":
				if short {
					cmd.Printf("%s\n", Info.Version)
				} else {
					cmd.Printf("%s\n", Info.LongForm())
				}
			case "yaml":
				marshaled, err := yaml.Marshal(&Info)
				if err != nil {
					return err
				}
				cmd.Println(string(marshaled))
			case "json":
				marshaled, err := json.MarshalIndent(&Info, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(marshaled))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Use --short=false to generate full version information")
	cmd.Flags().StringVarP(&output, "output", "o", "", "One of 'yaml' or 'json'.")

	return cmd
}
