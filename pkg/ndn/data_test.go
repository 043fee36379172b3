package ndn

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func TestDataRoundTrip(t *testing.T) {
	key := testKey(t)
	orig := NewData(ParseName("/app/obj/1"), []byte("hello"))
	if err := SignData(orig, ParseName("/keys/alice/KEY"), key); err != nil {
		t.Fatalf("failed to sign data: %v", err)
	}

	got, err := DecodeData(orig.Encode())
	if err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if diff := cmp.Diff(orig, got, cmp.AllowUnexported(Data{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDataSignedBytes(t *testing.T) {
	key := testKey(t)
	d := NewData(ParseName("/app/obj"), []byte("hello"))
	if err := SignData(d, ParseName("/keys/alice"), key); err != nil {
		t.Fatalf("failed to sign data: %v", err)
	}

	wire := d.Encode()
	signed := d.SignedBytes()
	// The signed range is a prefix of the block value, so it must appear in
	// the wire encoding, and it must stop right before the SignatureValue.
	if !bytes.Contains(wire, signed) {
		t.Error("signed range should be a slice of the wire encoding")
	}
	if bytes.Contains(signed, d.Signature().Value) {
		t.Error("signed range must exclude the signature value")
	}
	// Reconstructing from the wire yields the same range.
	decoded, err := DecodeData(wire)
	if err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if !bytes.Equal(signed, decoded.SignedBytes()) {
		t.Error("signed range should survive a decode round trip")
	}
}

func TestDecodeDataMalformed(t *testing.T) {
	key := testKey(t)
	d := NewData(ParseName("/app/obj"), []byte("hello"))
	if err := SignData(d, ParseName("/keys/alice"), key); err != nil {
		t.Fatalf("failed to sign data: %v", err)
	}
	wire := d.Encode()

	tests := map[string][]byte{
		"empty":           {},
		"wrong type":      append([]byte{0x09}, wire[1:]...),
		"truncated":       wire[:len(wire)-4],
		"trailing":        append(bytes.Clone(wire), 0x00),
		"not a tlv block": []byte("garbage"),
	}
	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeData(b); err == nil {
				t.Error("DecodeData should reject malformed input")
			}
		})
	}
}

func TestInterestRoundTrip(t *testing.T) {
	orig := NewInterest(ParseName("/isp/site/KEY/1"))
	got, err := DecodeInterest(orig.Encode())
	if err != nil {
		t.Fatalf("failed to decode interest: %v", err)
	}
	if diff := cmp.Diff(orig.Name(), got.Name()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSignedInterestParts(t *testing.T) {
	key := testKey(t)

	t.Run("signed", func(t *testing.T) {
		i := NewInterest(ParseName("/app/cmd/reboot"))
		if err := SignInterest(i, ParseName("/keys/alice"), key); err != nil {
			t.Fatalf("failed to sign interest: %v", err)
		}
		if got, want := len(i.Name()), 5; got != want {
			t.Fatalf("signed interest name should have %d components, got %d", want, got)
		}

		signed, sig, err := SignedInterestParts(i.Name())
		if err != nil {
			t.Fatalf("SignedInterestParts failed: %v", err)
		}
		if sig.Type != SigTypeSha256WithRsa {
			t.Errorf("signature type = %v, want %v", sig.Type, SigTypeSha256WithRsa)
		}
		if !sig.KeyLocator.Equal(ParseName("/keys/alice")) {
			t.Errorf("key locator = %v, want /keys/alice", sig.KeyLocator)
		}
		// The signed range covers everything up to and including the
		// signature info component.
		withInfo := i.Name()[:len(i.Name())-1]
		if !bytes.Equal(signed, withInfo.encodeValue()) {
			t.Error("signed range should be the name value minus the final component")
		}
	})

	t.Run("too short", func(t *testing.T) {
		if _, _, err := SignedInterestParts(ParseName("/a/b")); err == nil {
			t.Error("a two component name cannot be a signed interest")
		}
	})

	t.Run("not signed", func(t *testing.T) {
		if _, _, err := SignedInterestParts(ParseName("/a/b/c")); err == nil {
			t.Error("components without signature blocks should be rejected")
		}
	})
}
