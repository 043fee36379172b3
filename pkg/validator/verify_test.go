package validator

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/fancl20/ndnv/pkg/ndn"
)

func generateKey(t *testing.T) (*rsa.PrivateKey, ndn.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	pub, err := ndn.MarshalPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	return key, pub
}

func signedData(t *testing.T, name string, key *rsa.PrivateKey) *ndn.Data {
	t.Helper()
	d := ndn.NewData(ndn.ParseName(name), []byte("payload-7f3a"))
	if err := ndn.SignData(d, ndn.ParseName("/keys/alice"), key); err != nil {
		t.Fatalf("failed to sign data: %v", err)
	}
	return d
}

func TestVerifyData(t *testing.T) {
	key, pub := generateKey(t)
	_, otherPub := generateKey(t)
	d := signedData(t, "/app/obj", key)

	t.Run("correct key", func(t *testing.T) {
		if !VerifyData(d, pub) {
			t.Error("signature should verify under the signing key")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		if VerifyData(d, otherPub) {
			t.Error("signature should not verify under a different key")
		}
	})

	t.Run("tampered content", func(t *testing.T) {
		wire := d.Encode()
		at := bytes.Index(wire, []byte("payload-7f3a"))
		if at < 0 {
			t.Fatal("content not found in wire encoding")
		}
		wire[at] ^= 0x01
		tampered, err := ndn.DecodeData(wire)
		if err != nil {
			t.Fatalf("failed to decode tampered data: %v", err)
		}
		if VerifyData(tampered, pub) {
			t.Error("tampered data should not verify")
		}
	})

	t.Run("unknown signature type", func(t *testing.T) {
		u := ndn.NewData(ndn.ParseName("/app/obj"), []byte("payload"))
		u.SetSignature(ndn.Signature{Type: ndn.SigType(200), Value: []byte("whatever")})
		if VerifyData(u, pub) {
			t.Error("unknown signature type should not verify")
		}
	})

	t.Run("garbage key", func(t *testing.T) {
		if VerifyData(d, ndn.PublicKey("not a DER key")) {
			t.Error("unparseable key should not verify")
		}
	})
}

func TestVerifyBytes(t *testing.T) {
	key, pub := generateKey(t)
	d := signedData(t, "/app/obj", key)

	t.Run("nil signature", func(t *testing.T) {
		if VerifyBytes(d.SignedBytes(), nil, pub) {
			t.Error("nil signature should not verify")
		}
	})

	t.Run("detached range", func(t *testing.T) {
		if !VerifyBytes(d.SignedBytes(), d.Signature(), pub) {
			t.Error("signature should verify over the detached signed range")
		}
	})
}

func TestVerifyInterest(t *testing.T) {
	key, pub := generateKey(t)
	_, otherPub := generateKey(t)

	i := ndn.NewInterest(ndn.ParseName("/app/cmd/reboot"))
	if err := ndn.SignInterest(i, ndn.ParseName("/keys/alice"), key); err != nil {
		t.Fatalf("failed to sign interest: %v", err)
	}

	t.Run("correct key", func(t *testing.T) {
		if !VerifyInterest(i, pub) {
			t.Error("signed interest should verify under the signing key")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		if VerifyInterest(i, otherPub) {
			t.Error("signed interest should not verify under a different key")
		}
	})

	t.Run("too few components", func(t *testing.T) {
		short := ndn.NewInterest(ndn.ParseName("/a/b"))
		if VerifyInterest(short, pub) {
			t.Error("interest with fewer than three components should not verify")
		}
	})

	t.Run("unsigned name", func(t *testing.T) {
		plain := ndn.NewInterest(ndn.ParseName("/app/cmd/reboot"))
		if VerifyInterest(plain, pub) {
			t.Error("unsigned interest should not verify")
		}
	})
}
