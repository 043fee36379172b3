package validator

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"

	"github.com/fancl20/ndnv/pkg/ndn"
)

// VerifyData checks the data packet's signature against the key. The
// signed range is the data block's value without the trailing signature
// value. Verification failure is an ordinary false result; malformed input
// never panics or errors. Only Sha256WithRsa signatures are verifiable,
// every other type yields false without cryptographic work.
func VerifyData(d *ndn.Data, key ndn.PublicKey) bool {
	sig := d.Signature()
	switch sig.Type {
	case ndn.SigTypeSha256WithRsa:
		return verifyRsaSha256(d.SignedBytes(), sig.Value, key)
	default:
		return false
	}
}

// VerifyInterest checks a signed interest. The trailing two name
// components carry the signature info and signature value; a name shorter
// than three components fails before any parsing is attempted.
func VerifyInterest(i *ndn.Interest, key ndn.PublicKey) bool {
	signed, sig, err := ndn.SignedInterestParts(i.Name())
	if err != nil {
		return false
	}
	return VerifyBytes(signed, sig, key)
}

// VerifyBytes checks a signature over a caller-supplied signed range.
func VerifyBytes(signed []byte, sig *ndn.Signature, key ndn.PublicKey) bool {
	if sig == nil {
		return false
	}
	switch sig.Type {
	case ndn.SigTypeSha256WithRsa:
		return verifyRsaSha256(signed, sig.Value, key)
	default:
		return false
	}
}

// verifyRsaSha256 performs the RSASSA-PKCS1-v1_5 over SHA-256 check. The
// key bytes are DER, either SubjectPublicKeyInfo or PKCS#1.
func verifyRsaSha256(signed, sigValue []byte, key ndn.PublicKey) bool {
	pub := parseRsaKey(key)
	if pub == nil {
		return false
	}
	digest := sha256.Sum256(signed)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sigValue) == nil
}

func parseRsaKey(key ndn.PublicKey) *rsa.PublicKey {
	if parsed, err := x509.ParsePKIXPublicKey(key); err == nil {
		pub, _ := parsed.(*rsa.PublicKey)
		return pub
	}
	pub, err := x509.ParsePKCS1PublicKey(key)
	if err != nil {
		return nil
	}
	return pub
}
