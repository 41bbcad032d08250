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

package log

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestOpts(t *testing.T) {
	resetGlobals()

	cases := []struct {
		cmdLine string
		result  Options
	}{
		{"--log_as_json", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			JSONEncoding:       true,
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_target stdout --log_target stderr", Options{
			OutputPaths:        []string{"stdout", "stderr"},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_caller default", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			logCallers:         "default",
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_stacktrace_level debug", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   "debug",
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_output_level debug", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       "debug",
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_rotate foobar", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			RotateOutputPath:   "foobar",
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_rotate_max_age 1234", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			RotationMaxAge:     1234,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_rotate_max_size 1234", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    1234,
			RotationMaxBackups: defaultRotationMaxBackups,
		}},

		{"--log_rotate_max_backups 1234", Options{
			OutputPaths:        []string{defaultOutputPath},
			ErrorOutputPaths:   []string{defaultErrorOutputPath},
			outputLevels:       DefaultScopeName + ":" + levelToString[defaultOutputLevel],
			stackTraceLevels:   DefaultScopeName + ":" + levelToString[defaultStackTraceLevel],
			RotationMaxAge:     defaultRotationMaxAge,
			RotationMaxSize:    defaultRotationMaxSize,
			RotationMaxBackups: 1234,
		}},
	}

	for j := 0; j < 2; j++ {
		for i, c := range cases {
			t.Run(strconv.Itoa(j*100+i), func(t *testing.T) {
				o := DefaultOptions()
				cmd := &cobra.Command{Run: func(cmd *cobra.Command, args []string) {}}
				o.AttachCobraFlags(cmd)
				cmd.SetArgs(strings.Split(c.cmdLine, " "))

				if err := cmd.Execute(); err != nil {
					t.Errorf("Got %v, expecting success", err)
				}

				if !reflect.DeepEqual(c.result.OutputPaths, o.OutputPaths) ||
					!reflect.DeepEqual(c.result.ErrorOutputPaths, o.ErrorOutputPaths) ||
					c.result.RotateOutputPath != o.RotateOutputPath ||
					c.result.RotationMaxAge != o.RotationMaxAge ||
					c.result.RotationMaxSize != o.RotationMaxSize ||
					c.result.RotationMaxBackups != o.RotationMaxBackups ||
					c.result.JSONEncoding != o.JSONEncoding ||
					c.result.outputLevels != o.outputLevels ||
					c.result.logCallers != o.logCallers ||
					c.result.stackTraceLevels != o.stackTraceLevels {
					t.Errorf("Got %+v, expected %+v", *o, c.result)
				}
			})
		}
	}
}

func TestSetLevel(t *testing.T) {
	cases := []struct {
		levels   string
		scope    string
		level    Level
		expected string
	}{
		{"debug", DefaultScopeName, DebugLevel, "debug"},
		{"default:info", DefaultScopeName, DebugLevel, "default:debug"},
		{"default:info,other:warn", "other", ErrorLevel, "default:info,other:error"},
		{"default:info", "other", WarnLevel, "default:info,other:warn"},
		{"", "other", WarnLevel, "other:warn"},
	}

	for i, c := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if got := setScopedLevel(c.levels, c.scope, c.level); got != c.expected {
				t.Errorf("Got %q, expected %q", got, c.expected)
			}
		})
	}
}

func TestGetLevel(t *testing.T) {
	o := DefaultOptions()
	o.SetOutputLevel("other", DebugLevel)

	l, err := o.GetOutputLevel("other")
	if err != nil {
		t.Fatalf("Got error %v, expecting success", err)
	}
	if l != DebugLevel {
		t.Errorf("Got level %v, expecting %v", l, DebugLevel)
	}

	if _, err := o.GetOutputLevel("missing"); err == nil {
		t.Errorf("Got success, expecting error")
	}
}

func TestConvertScopedLevel(t *testing.T) {
	cases := []struct {
		sl      string
		scope   string
		level   Level
		wantErr bool
	}{
		{"debug", DefaultScopeName, DebugLevel, false},
		{"default:info", DefaultScopeName, InfoLevel, false},
		{"other:warn", "other", WarnLevel, false},
		{"a:b:c", "", NoneLevel, true},
		{"other:bogus", "", NoneLevel, true},
	}

	for i, c := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			s, l, err := convertScopedLevel(c.sl)
			if c.wantErr {
				if err == nil {
					t.Fatal("Expecting failure, got success")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expecting success, got %v", err)
			}
			if s != c.scope || l != c.level {
				t.Errorf("Got %v/%v, expecting %v/%v", s, l, c.scope, c.level)
			}
		})
	}
}

// resetGlobals ensures flag-related cases see a single-scope environment,
// since the usage text of log_output_level depends on the registered scopes.
func resetGlobals() {
	lock.Lock()
	defer lock.Unlock()
	for k := range scopes {
		if k != DefaultScopeName {
			delete(scopes, k)
		}
	}
}
