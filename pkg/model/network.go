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

package model

import (
	"net/netip"
)

// NetworkAddress is the alias-key tuple: one IP on a named network. The
// index keys on the tuple itself, never on a joined string, so networks
// with colliding textual IP representations cannot shadow each other.
type NetworkAddress struct {
	Network string
	Addr    netip.Addr
}

func (n NetworkAddress) String() string {
	return n.Network + "/" + n.Addr.String()
}

// Equal reports whether two addresses are the same tuple. Defined so cmp
// based assertions treat the type as a leaf rather than descending into
// netip internals.
func (n NetworkAddress) Equal(o NetworkAddress) bool {
	return n == o
}

// AddrFromBytes converts raw wire address bytes (4 or 16) into a netip.Addr.
// IPv4-in-IPv6 mapped forms are unmapped so the same address always yields
// the same alias key.
func AddrFromBytes(b []byte) (netip.Addr, bool) {
	a, ok := netip.AddrFromSlice(b)
	if !ok {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}
