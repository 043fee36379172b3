package ndn

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// MarshalPublicKey encodes an RSA public key into the opaque DER form
// carried by certificates.
func MarshalPublicKey(pub *rsa.PublicKey) (PublicKey, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return PublicKey(der), nil
}

// SignData attaches a Sha256WithRsa signature to the data packet. The key
// locator names the certificate vouching for the signing key.
func SignData(d *Data, keyLocator Name, key *rsa.PrivateKey) error {
	d.signature = Signature{Type: SigTypeSha256WithRsa, KeyLocator: keyLocator}
	digest := sha256.Sum256(d.SignedBytes())
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return fmt.Errorf("failed to sign data: %w", err)
	}
	d.signature.Value = sig
	return nil
}

// SignInterest appends the signature info and signature value components of
// a signed interest to the name. The signed range covers every component up
// to and including the signature info.
func SignInterest(i *Interest, keyLocator Name, key *rsa.PrivateKey) error {
	sig := Signature{Type: SigTypeSha256WithRsa, KeyLocator: keyLocator}
	withInfo := i.name.Append(Component(sig.encodeInfo()))
	digest := sha256.Sum256(withInfo.encodeValue())
	raw, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return fmt.Errorf("failed to sign interest: %w", err)
	}
	sig.Value = raw
	i.name = withInfo.Append(Component(sig.encodeValue()))
	return nil
}

// NewCertificate wraps a public key into a signed data packet whose content
// is the key itself, signed by the issuer key under issuerLocator.
func NewCertificate(name Name, subject PublicKey, issuerLocator Name, issuerKey *rsa.PrivateKey) (*Data, error) {
	cert := NewData(name, subject)
	if err := SignData(cert, issuerLocator, issuerKey); err != nil {
		return nil, err
	}
	return cert, nil
}
