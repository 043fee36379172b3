package ndn

import "fmt"

// SigType identifies the signing scheme of a signature. The values follow
// the NDN packet format assignments. Unknown values are representable but
// can never be verified.
type SigType uint64

const (
	SigTypeDigestSha256    SigType = 0
	SigTypeSha256WithRsa   SigType = 1
	SigTypeSha256WithEcdsa SigType = 3
	SigTypeHmacSha256      SigType = 4
)

func (t SigType) String() string {
	switch t {
	case SigTypeDigestSha256:
		return "DigestSha256"
	case SigTypeSha256WithRsa:
		return "Sha256WithRsa"
	case SigTypeSha256WithEcdsa:
		return "Sha256WithEcdsa"
	case SigTypeHmacSha256:
		return "HmacSha256"
	default:
		return fmt.Sprintf("SigType(%d)", uint64(t))
	}
}

// PublicKey holds opaque DER encoded verification key bytes. Keys are
// matched to a signature type by the verifier, never by the key itself.
type PublicKey []byte

// Signature carries the signing scheme, the signer locator and the raw
// signature bytes of a packet.
type Signature struct {
	Type SigType
	// KeyLocator names the certificate vouching for the signing key. May be
	// empty.
	KeyLocator Name
	// Value holds the raw signature bytes.
	Value []byte
}

// encodeInfo returns the SignatureInfo TLV block.
func (s *Signature) encodeInfo() []byte {
	var v []byte
	v = appendTLV(v, tlvSignatureType, appendVarNum(nil, uint64(s.Type)))
	if len(s.KeyLocator) > 0 {
		v = appendTLV(v, tlvKeyLocator, s.KeyLocator.Encode())
	}
	return appendTLV(nil, tlvSignatureInfo, v)
}

// encodeValue returns the SignatureValue TLV block.
func (s *Signature) encodeValue() []byte {
	return appendTLV(nil, tlvSignatureValue, s.Value)
}

// decodeSignatureInfo parses the value of a SignatureInfo block.
func decodeSignatureInfo(v []byte) (SigType, Name, error) {
	tv, rest, err := expectTLV(v, tlvSignatureType)
	if err != nil {
		return 0, nil, err
	}
	typ, extra, err := readVarNum(tv)
	if err != nil || len(extra) != 0 {
		return 0, nil, fmt.Errorf("malformed signature type")
	}
	var locator Name
	if len(rest) > 0 {
		lv, trailing, err := expectTLV(rest, tlvKeyLocator)
		if err != nil {
			return 0, nil, err
		}
		if len(trailing) != 0 {
			return 0, nil, fmt.Errorf("trailing bytes after key locator")
		}
		if locator, err = DecodeName(lv); err != nil {
			return 0, nil, err
		}
	}
	return SigType(typ), locator, nil
}
