package ndn

import "fmt"

// Interest is a named request for an object. It carries no payload and is
// immutable once constructed; signing a fresh interest is the only writer.
type Interest struct {
	name Name
}

// NewInterest creates an interest for the given name.
func NewInterest(name Name) *Interest {
	return &Interest{name: name}
}

// Name returns the requested name.
func (i *Interest) Name() Name { return i.name }

func (i *Interest) String() string { return i.name.String() }

// Encode returns the interest as a TLV block.
func (i *Interest) Encode() []byte {
	return appendTLV(nil, tlvInterest, i.name.Encode())
}

// DecodeInterest parses an interest TLV block.
func DecodeInterest(b []byte) (*Interest, error) {
	value, rest, err := expectTLV(b, tlvInterest)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing bytes after interest")
	}
	name, err := DecodeName(value)
	if err != nil {
		return nil, err
	}
	return &Interest{name: name}, nil
}

// SignedInterestParts splits a signed interest name into the byte range
// covered by its signature and the signature itself. The final two name
// components carry the SignatureInfo and SignatureValue blocks; the signed
// range is the encoded name value minus the final component's bytes. A name
// with fewer than three components cannot be a signed interest.
func SignedInterestParts(name Name) ([]byte, *Signature, error) {
	if len(name) < 3 {
		return nil, nil, fmt.Errorf("signed interest needs at least 3 name components, got %d", len(name))
	}
	infoValue, rest, err := expectTLV(name[len(name)-2], tlvSignatureInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("signature info component: %w", err)
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("trailing bytes in signature info component")
	}
	typ, locator, err := decodeSignatureInfo(infoValue)
	if err != nil {
		return nil, nil, fmt.Errorf("signature info component: %w", err)
	}
	sigValue, rest, err := expectTLV(name[len(name)-1], tlvSignatureValue)
	if err != nil {
		return nil, nil, fmt.Errorf("signature value component: %w", err)
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("trailing bytes in signature value component")
	}

	whole := name.encodeValue()
	last := appendTLV(nil, tlvNameComponent, name[len(name)-1])
	sig := &Signature{Type: typ, KeyLocator: locator, Value: sigValue}
	return whole[:len(whole)-len(last)], sig, nil
}
