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

// Package version provides build version information.
package version

import (
	"fmt"
	"runtime"

	"github.com/ambientmesh/discovery/pkg/monitoring"
)

// The following fields are populated at build time using -ldflags -X.
var (
	buildVersion     = "unknown"
	buildGitRevision = "unknown"
	buildStatus      = "unknown"
	buildTag         = "unknown"
)

// BuildInfo describes version information about the binary build.
type BuildInfo struct {
	Version       string `json:"version"`
	GitRevision   string `json:"revision"`
	GolangVersion string `json:"golang_version"`
	BuildStatus   string `json:"status"`
	GitTag        string `json:"tag"`
}

var (
	// Info exports the build version information.
	Info BuildInfo

	gitTagKey    = monitoring.CreateLabel("tag")
	componentTag = monitoring.CreateLabel("component")

	buildGauge = monitoring.NewGauge(
		"build_info",
		"Build information about the running binary.",
	)
)

// String produces a single-line version info.
//
// This looks like:
//
// ```
// <version>-<git revision>-<build status>
// ```
func (b BuildInfo) String() string {
	return fmt.Sprintf("%v-%v-%v",
		b.Version,
		b.GitRevision,
		b.BuildStatus)
}

// LongForm returns a dump of the BuildInfo struct.
//
// This looks like:
//
// ```
// version.BuildInfo{Version:"unknown", GitRevision:"unknown", GolangVersion:"go1.23.1", BuildStatus:"unknown", GitTag:"unknown"}
// ```
func (b BuildInfo) LongForm() string {
	return fmt.Sprintf("%#v", b)
}

// RecordComponentBuildTag sets the value for the build metric keyed by component name.
func RecordComponentBuildTag(component string) {
	buildGauge.With(componentTag.Value(component), gitTagKey.Value(Info.GitTag)).Record(1)
}

func init() {
	Info = BuildInfo{
		Version:       buildVersion,
		GitRevision:   buildGitRevision,
		GolangVersion: runtime.Version(),
		BuildStatus:   buildStatus,
		GitTag:        buildTag,
	}
}
