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

package assert

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"google.golang.org/protobuf/testing/protocmp"

	"github.com/ambientmesh/discovery/pkg/test"
	"github.com/ambientmesh/discovery/pkg/test/util/retry"
)

// compareErrors compares errors by their message, so expected errors can be
// constructed with errors.New.
var compareErrors = cmp.Comparer(func(x, y error) bool {
	switch {
	case x == nil && y == nil:
		return true
	case x == nil || y == nil:
		return false
	default:
		return x.Error() == y.Error()
	}
})

func opts(extra ...cmp.Option) []cmp.Option {
	return append([]cmp.Option{protocmp.Transform(), cmpopts.EquateEmpty(), cmpopts.EquateComparable(netip.Addr{}), compareErrors}, extra...)
}

// Equal compares two objects and fails if they are not the same.
func Equal(t test.Failer, a, b any, context ...string) {
	t.Helper()
	if !cmp.Equal(a, b, opts()...) {
		cs := ""
		if len(context) > 0 {
			cs = " " + strings.Join(context, ", ") + ":"
		}
		t.Fatalf("found diff:%s %v", cs, cmp.Diff(a, b, opts()...))
	}
}

// EventuallyEqual repeatedly fetches a value until it compares equal to the
// expected one, or the retry budget is exhausted.
func EventuallyEqual[T any](t test.Failer, fetch func() T, expected T, retryOpts ...retry.Option) {
	t.Helper()
	var a T
	err := retry.UntilSuccess(func() error {
		a = fetch()
		if !cmp.Equal(a, expected, opts()...) {
			return fmt.Errorf("not equal")
		}
		return nil
	}, retryOpts...)
	if err != nil {
		t.Fatalf("found diff: %v", cmp.Diff(a, expected, opts()...))
	}
}

func Error(t test.Failer, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func NoError(t test.Failer, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
}

// ErrorContains asserts err is non-nil and its message contains the given text.
func ErrorContains(t test.Failer, err error, text string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), text) {
		t.Fatalf("expected error to contain %q, got %q", text, err.Error())
	}
}
