package ndn

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// Component is a single opaque name component.
type Component []byte

// Name identifies a resource as an ordered sequence of opaque components.
// Comparison and prefix relations are structural, not semantic. A Name must
// not be mutated after construction.
type Name []Component

// ParseName parses a URI-like name such as /isp/site/KEY/1. Components are
// taken verbatim; no percent decoding is performed.
func ParseName(s string) Name {
	var n Name
	for _, c := range strings.Split(s, "/") {
		if c == "" {
			continue
		}
		n = append(n, Component(c))
	}
	return n
}

// Append returns a new name with the given components appended. The
// receiver is not modified.
func (n Name) Append(cs ...Component) Name {
	out := make(Name, 0, len(n)+len(cs))
	out = append(out, n...)
	return append(out, cs...)
}

// Equal reports whether two names consist of the same components.
func (n Name) Equal(o Name) bool {
	return slices.EqualFunc(n, o, func(a, b Component) bool { return bytes.Equal(a, b) })
}

// IsPrefixOf reports whether n is a prefix of o.
func (n Name) IsPrefixOf(o Name) bool {
	if len(n) > len(o) {
		return false
	}
	return n.Equal(o[:len(n)])
}

// String renders the name in URI form. Bytes outside the printable ASCII
// range are percent escaped.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n {
		sb.WriteByte('/')
		for _, b := range c {
			if b >= 0x20 && b < 0x7f && b != '/' && b != '%' {
				sb.WriteByte(b)
			} else {
				fmt.Fprintf(&sb, "%%%02X", b)
			}
		}
	}
	return sb.String()
}

// Encode returns the name as a TLV block.
func (n Name) Encode() []byte {
	return appendTLV(nil, tlvName, n.encodeValue())
}

// encodeValue returns the concatenated component TLVs, i.e. the value of
// the name block.
func (n Name) encodeValue() []byte {
	var b []byte
	for _, c := range n {
		b = appendTLV(b, tlvNameComponent, c)
	}
	return b
}

// DecodeName parses a name TLV block.
func DecodeName(b []byte) (Name, error) {
	value, rest, err := expectTLV(b, tlvName)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing bytes after name")
	}
	return decodeNameValue(value)
}

func decodeNameValue(value []byte) (Name, error) {
	var n Name
	for len(value) > 0 {
		c, rest, err := expectTLV(value, tlvNameComponent)
		if err != nil {
			return nil, err
		}
		n = append(n, Component(slices.Clone(c)))
		value = rest
	}
	return n, nil
}
