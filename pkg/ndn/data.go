package ndn

import (
	"fmt"
	"slices"
)

// Data is a named, signed object. It is immutable once decoded; the
// signing helpers in this package are the only writers during assembly.
type Data struct {
	name      Name
	content   []byte
	signature Signature
}

// NewData assembles a data packet from its parts. The signature is usually
// attached afterwards via SignData or SetSignature.
func NewData(name Name, content []byte) *Data {
	return &Data{name: name, content: slices.Clone(content)}
}

// Name returns the data packet's name.
func (d *Data) Name() Name { return d.name }

// Content returns the opaque payload.
func (d *Data) Content() []byte { return d.content }

// Signature returns the packet's signature.
func (d *Data) Signature() *Signature { return &d.signature }

// SetSignature attaches a prebuilt signature. Most callers should use
// SignData instead.
func (d *Data) SetSignature(sig Signature) { d.signature = sig }

// encodeValue returns the value of the data block. The trailing block is
// always the SignatureValue, which the signed range excludes.
func (d *Data) encodeValue() []byte {
	var b []byte
	b = append(b, d.name.Encode()...)
	b = appendTLV(b, tlvContent, d.content)
	b = append(b, d.signature.encodeInfo()...)
	b = append(b, d.signature.encodeValue()...)
	return b
}

// Encode returns the data packet as a TLV block.
func (d *Data) Encode() []byte {
	return appendTLV(nil, tlvData, d.encodeValue())
}

// SignedBytes returns the byte range covered by the signature: the data
// block's value up to, but excluding, the SignatureValue block.
func (d *Data) SignedBytes() []byte {
	v := d.encodeValue()
	return v[:len(v)-len(d.signature.encodeValue())]
}

// DecodeData parses a data TLV block.
func DecodeData(b []byte) (*Data, error) {
	value, rest, err := expectTLV(b, tlvData)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing bytes after data")
	}

	d := &Data{}
	nameValue, rest, err := expectTLV(value, tlvName)
	if err != nil {
		return nil, fmt.Errorf("data name: %w", err)
	}
	if d.name, err = decodeNameValue(nameValue); err != nil {
		return nil, fmt.Errorf("data name: %w", err)
	}
	content, rest, err := expectTLV(rest, tlvContent)
	if err != nil {
		return nil, fmt.Errorf("data content: %w", err)
	}
	d.content = slices.Clone(content)
	info, rest, err := expectTLV(rest, tlvSignatureInfo)
	if err != nil {
		return nil, fmt.Errorf("signature info: %w", err)
	}
	if d.signature.Type, d.signature.KeyLocator, err = decodeSignatureInfo(info); err != nil {
		return nil, fmt.Errorf("signature info: %w", err)
	}
	sigValue, rest, err := expectTLV(rest, tlvSignatureValue)
	if err != nil {
		return nil, fmt.Errorf("signature value: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing bytes after signature value")
	}
	d.signature.Value = slices.Clone(sigValue)
	return d, nil
}
