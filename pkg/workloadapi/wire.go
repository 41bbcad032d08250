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

package workloadapi

import (
	"bytes"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// The codec below is maintained by hand against workload.proto. Rules:
//
//   - Fields are written in ascending field-number order; zero scalars are
//     omitted (proto3 implicit presence).
//   - Map entries are written in sorted key order so output is
//     deterministic.
//   - A field number this package does not know, or a known number carrying
//     an unexpected wire type, is retained verbatim (tag and value) and
//     appended after the known fields on the next Marshal. This covers the
//     permanently reserved Workload field 15.
//   - Unmarshal merges into the receiver, in the usual protobuf way:
//     scalars are overwritten, repeated fields appended, sub-messages
//     merged field by field.

// Marshal encodes x in protobuf wire format.
func (x *Address) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *Address) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	switch t := x.Type.(type) {
	case *Address_Workload:
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, t.Workload.marshalAppend(nil))
	case *Address_Service:
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, t.Service.marshalAppend(nil))
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *Address) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			w := &Workload{}
			if prev, ok := x.Type.(*Address_Workload); ok && prev.Workload != nil {
				w = prev.Workload
			}
			if err := w.Unmarshal(v); err != nil {
				return err
			}
			x.Type = &Address_Workload{Workload: w}
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			s := &Service{}
			if prev, ok := x.Type.(*Address_Service); ok && prev.Service != nil {
				s = prev.Service
			}
			if err := s.Unmarshal(v); err != nil {
				return err
			}
			x.Type = &Address_Service{Service: s}
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// Marshal encodes x in protobuf wire format.
func (x *Workload) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *Workload) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	if x.Name != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, x.Name)
	}
	if x.Namespace != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, x.Namespace)
	}
	for _, a := range x.Addresses {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, a)
	}
	if x.Network != "" {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, x.Network)
	}
	if x.TunnelProtocol != 0 {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(x.TunnelProtocol))
	}
	if x.TrustDomain != "" {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendString(b, x.TrustDomain)
	}
	if x.ServiceAccount != "" {
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendString(b, x.ServiceAccount)
	}
	if x.Waypoint != nil {
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendBytes(b, x.Waypoint.marshalAppend(nil))
	}
	if x.Node != "" {
		b = protowire.AppendTag(b, 9, protowire.BytesType)
		b = protowire.AppendString(b, x.Node)
	}
	if x.CanonicalName != "" {
		b = protowire.AppendTag(b, 10, protowire.BytesType)
		b = protowire.AppendString(b, x.CanonicalName)
	}
	if x.CanonicalRevision != "" {
		b = protowire.AppendTag(b, 11, protowire.BytesType)
		b = protowire.AppendString(b, x.CanonicalRevision)
	}
	if x.WorkloadType != 0 {
		b = protowire.AppendTag(b, 12, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(x.WorkloadType))
	}
	if x.WorkloadName != "" {
		b = protowire.AppendTag(b, 13, protowire.BytesType)
		b = protowire.AppendString(b, x.WorkloadName)
	}
	if x.NativeTunnel {
		b = protowire.AppendTag(b, 14, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	for _, p := range x.AuthorizationPolicies {
		b = protowire.AppendTag(b, 16, protowire.BytesType)
		b = protowire.AppendString(b, p)
	}
	if x.Status != 0 {
		b = protowire.AppendTag(b, 17, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(x.Status))
	}
	if x.ClusterId != "" {
		b = protowire.AppendTag(b, 18, protowire.BytesType)
		b = protowire.AppendString(b, x.ClusterId)
	}
	if x.NetworkGateway != nil {
		b = protowire.AppendTag(b, 19, protowire.BytesType)
		b = protowire.AppendBytes(b, x.NetworkGateway.marshalAppend(nil))
	}
	if x.Uid != "" {
		b = protowire.AppendTag(b, 20, protowire.BytesType)
		b = protowire.AppendString(b, x.Uid)
	}
	if x.Hostname != "" {
		b = protowire.AppendTag(b, 21, protowire.BytesType)
		b = protowire.AppendString(b, x.Hostname)
	}
	if len(x.Services) > 0 {
		keys := make([]string, 0, len(x.Services))
		for k := range x.Services {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var entry []byte
			if k != "" {
				entry = protowire.AppendTag(entry, 1, protowire.BytesType)
				entry = protowire.AppendString(entry, k)
			}
			entry = protowire.AppendTag(entry, 2, protowire.BytesType)
			entry = protowire.AppendBytes(entry, x.Services[k].marshalAppend(nil))
			b = protowire.AppendTag(b, 22, protowire.BytesType)
			b = protowire.AppendBytes(b, entry)
		}
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x. Unknown fields, the reserved
// field 15 included, are retained and written back out by Marshal.
func (x *Workload) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Name = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Namespace = v
			b = b[m:]
		case num == 3 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Addresses = append(x.Addresses, bytes.Clone(v))
			b = b[m:]
		case num == 4 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Network = v
			b = b[m:]
		case num == 5 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.TunnelProtocol = TunnelProtocol(v)
			b = b[m:]
		case num == 6 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.TrustDomain = v
			b = b[m:]
		case num == 7 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.ServiceAccount = v
			b = b[m:]
		case num == 8 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			if x.Waypoint == nil {
				x.Waypoint = &GatewayAddress{}
			}
			if err := x.Waypoint.Unmarshal(v); err != nil {
				return err
			}
			b = b[m:]
		case num == 9 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Node = v
			b = b[m:]
		case num == 10 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.CanonicalName = v
			b = b[m:]
		case num == 11 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.CanonicalRevision = v
			b = b[m:]
		case num == 12 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.WorkloadType = WorkloadType(v)
			b = b[m:]
		case num == 13 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.WorkloadName = v
			b = b[m:]
		case num == 14 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.NativeTunnel = protowire.DecodeBool(v)
			b = b[m:]
		case num == 16 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.AuthorizationPolicies = append(x.AuthorizationPolicies, v)
			b = b[m:]
		case num == 17 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Status = WorkloadStatus(v)
			b = b[m:]
		case num == 18 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.ClusterId = v
			b = b[m:]
		case num == 19 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			if x.NetworkGateway == nil {
				x.NetworkGateway = &GatewayAddress{}
			}
			if err := x.NetworkGateway.Unmarshal(v); err != nil {
				return err
			}
			b = b[m:]
		case num == 20 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Uid = v
			b = b[m:]
		case num == 21 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Hostname = v
			b = b[m:]
		case num == 22 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			k, pl, err := consumeServicesEntry(v)
			if err != nil {
				return err
			}
			if x.Services == nil {
				x.Services = map[string]*PortList{}
			}
			x.Services[k] = pl
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// consumeServicesEntry decodes one services map entry. A missing key decodes
// to "" and a missing value to an empty PortList, per standard proto map
// semantics; unknown fields inside the entry are dropped.
func consumeServicesEntry(data []byte) (string, *PortList, error) {
	var key string
	pl := &PortList{}
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return "", nil, protowire.ParseError(m)
			}
			key = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return "", nil, protowire.ParseError(m)
			}
			if err := pl.Unmarshal(v); err != nil {
				return "", nil, err
			}
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return "", nil, protowire.ParseError(m)
			}
			b = b[m:]
		}
	}
	return key, pl, nil
}

// Marshal encodes x in protobuf wire format.
func (x *Service) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *Service) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	if x.Name != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, x.Name)
	}
	if x.Namespace != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, x.Namespace)
	}
	if x.Hostname != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, x.Hostname)
	}
	for _, a := range x.Addresses {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, a.marshalAppend(nil))
	}
	for _, p := range x.Ports {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, p.marshalAppend(nil))
	}
	for _, s := range x.SubjectAltNames {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *Service) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Name = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Namespace = v
			b = b[m:]
		case num == 3 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Hostname = v
			b = b[m:]
		case num == 4 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			a := &NetworkAddress{}
			if err := a.Unmarshal(v); err != nil {
				return err
			}
			x.Addresses = append(x.Addresses, a)
			b = b[m:]
		case num == 5 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			p := &Port{}
			if err := p.Unmarshal(v); err != nil {
				return err
			}
			x.Ports = append(x.Ports, p)
			b = b[m:]
		case num == 6 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.SubjectAltNames = append(x.SubjectAltNames, v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// Marshal encodes x in protobuf wire format.
func (x *NetworkAddress) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *NetworkAddress) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	if x.Network != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, x.Network)
	}
	if len(x.Address) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, x.Address)
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *NetworkAddress) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Network = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Address = bytes.Clone(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// Marshal encodes x in protobuf wire format.
func (x *NamespacedHostname) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *NamespacedHostname) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	if x.Namespace != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, x.Namespace)
	}
	if x.Hostname != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, x.Hostname)
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *NamespacedHostname) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Namespace = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Hostname = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// Marshal encodes x in protobuf wire format.
func (x *GatewayAddress) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *GatewayAddress) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	switch d := x.Destination.(type) {
	case *GatewayAddress_Hostname:
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, d.Hostname.marshalAppend(nil))
	case *GatewayAddress_Address:
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, d.Address.marshalAppend(nil))
	}
	if x.Port != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(x.Port))
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *GatewayAddress) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			h := &NamespacedHostname{}
			if prev, ok := x.Destination.(*GatewayAddress_Hostname); ok && prev.Hostname != nil {
				h = prev.Hostname
			}
			if err := h.Unmarshal(v); err != nil {
				return err
			}
			x.Destination = &GatewayAddress_Hostname{Hostname: h}
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			a := &NetworkAddress{}
			if prev, ok := x.Destination.(*GatewayAddress_Address); ok && prev.Address != nil {
				a = prev.Address
			}
			if err := a.Unmarshal(v); err != nil {
				return err
			}
			x.Destination = &GatewayAddress_Address{Address: a}
			b = b[m:]
		case num == 3 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.Port = uint32(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// Marshal encodes x in protobuf wire format.
func (x *PortList) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *PortList) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	for _, p := range x.Ports {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, p.marshalAppend(nil))
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *PortList) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			p := &Port{}
			if err := p.Unmarshal(v); err != nil {
				return err
			}
			x.Ports = append(x.Ports, p)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}

// Marshal encodes x in protobuf wire format.
func (x *Port) Marshal() ([]byte, error) {
	return x.marshalAppend(nil), nil
}

func (x *Port) marshalAppend(b []byte) []byte {
	if x == nil {
		return b
	}
	if x.ServicePort != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(x.ServicePort))
	}
	if x.TargetPort != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(x.TargetPort))
	}
	return append(b, x.unknown...)
}

// Unmarshal decodes protobuf wire data into x.
func (x *Port) Unmarshal(data []byte) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		tag := b[:n]
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.ServicePort = uint32(v)
			b = b[m:]
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.TargetPort = uint32(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
			x.unknown = append(x.unknown, tag...)
			x.unknown = append(x.unknown, b[:m]...)
			b = b[m:]
		}
	}
	return nil
}
