package dbtest

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fancl20/ndnv/pkg/ndn"
	"github.com/fancl20/ndnv/pkg/trust"
)

// DefaultTimeout is the default timeout for running the test harness.
var DefaultTimeout = 5 * time.Second

// TestableDB extends the trust db interface with methods that are needed
// for testing.
type TestableDB interface {
	trust.DB
	// Prepare should reset the internal state so that the db is empty and
	// is ready to be tested.
	Prepare(*testing.T, context.Context)
}

// Run should be used to test any implementation of the trust.DB interface.
// An implementation package should at least have one test method that
// calls this test-suite.
func Run(t *testing.T, db TestableDB) {
	tests := map[string]func(*testing.T, trust.DB){
		"test certificate": testCertificate,
		"test anchor":      testAnchor,
	}
	// Run test suite on DB directly.
	for name, test := range tests {
		t.Run("DB: "+name, func(t *testing.T) {
			ctx, cancelF := context.WithTimeout(context.Background(), DefaultTimeout)
			defer cancelF()
			db.Prepare(t, ctx)
			test(t, db)
			db.Close()
		})
	}
}

func testCertificate(t *testing.T, db trust.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancelF()

	issuer := generateKey(t)
	cert := makeCertificate(t, "/isp/site/KEY/1", "/isp/KEY/1", issuer)

	in, err := db.InsertCertificate(ctx, cert)
	if err != nil {
		t.Fatalf("InsertCertificate failed: %v", err)
	}
	if !in {
		t.Fatal("InsertCertificate should return true for new certificate")
	}

	t.Run("InsertCertificate", func(t *testing.T) {
		t.Run("Insert existing", func(t *testing.T) {
			in, err := db.InsertCertificate(ctx, cert)
			if err != nil {
				t.Errorf("InsertCertificate failed: %v", err)
			}
			if in {
				t.Error("InsertCertificate should return false for existing certificate")
			}
		})
		t.Run("Insert conflicting", func(t *testing.T) {
			conflicting := makeCertificate(t, "/isp/site/KEY/1", "/isp/KEY/1", generateKey(t))
			in, err := db.InsertCertificate(ctx, conflicting)
			if err == nil {
				t.Error("InsertCertificate should return error for conflicting certificate")
			}
			if in {
				t.Error("InsertCertificate should return false for conflicting certificate")
			}
		})
	})
	t.Run("Certificate", func(t *testing.T) {
		t.Run("Non existing certificate", func(t *testing.T) {
			got, err := db.Certificate(ctx, ndn.ParseName("/isp/other/KEY/1"))
			if err != nil {
				t.Errorf("Certificate failed: %v", err)
			}
			if got != nil {
				t.Errorf("Certificate should return nil for non-existing certificate, got %v", got.Name())
			}
		})
		t.Run("Existing certificate", func(t *testing.T) {
			got, err := db.Certificate(ctx, cert.Name())
			if err != nil {
				t.Fatalf("Certificate failed: %v", err)
			}
			if got == nil {
				t.Fatal("Certificate should return the inserted certificate")
			}
			if diff := cmp.Diff(cert.Encode(), got.Encode()); diff != "" {
				t.Errorf("Certificate mismatch (-want +got):\n%s", diff)
			}
		})
	})
}

func testAnchor(t *testing.T, db trust.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancelF()

	name := ndn.ParseName("/isp/KEY/1")
	key := publicKey(t, generateKey(t))

	in, err := db.InsertAnchor(ctx, name, key)
	if err != nil {
		t.Fatalf("InsertAnchor failed: %v", err)
	}
	if !in {
		t.Fatal("InsertAnchor should return true for new anchor")
	}

	t.Run("Insert existing", func(t *testing.T) {
		in, err := db.InsertAnchor(ctx, name, key)
		if err != nil {
			t.Errorf("InsertAnchor failed: %v", err)
		}
		if in {
			t.Error("InsertAnchor should return false for existing anchor")
		}
	})
	t.Run("Insert conflicting", func(t *testing.T) {
		in, err := db.InsertAnchor(ctx, name, publicKey(t, generateKey(t)))
		if err == nil {
			t.Error("InsertAnchor should return error for conflicting anchor")
		}
		if in {
			t.Error("InsertAnchor should return false for conflicting anchor")
		}
	})
	t.Run("Non existing anchor", func(t *testing.T) {
		got, err := db.Anchor(ctx, ndn.ParseName("/other/KEY/1"))
		if err != nil {
			t.Errorf("Anchor failed: %v", err)
		}
		if got != nil {
			t.Errorf("Anchor should return nil for non-existing anchor, got %x", got)
		}
	})
	t.Run("Existing anchor", func(t *testing.T) {
		got, err := db.Anchor(ctx, name)
		if err != nil {
			t.Fatalf("Anchor failed: %v", err)
		}
		if diff := cmp.Diff(key, got); diff != "" {
			t.Errorf("Anchor mismatch (-want +got):\n%s", diff)
		}
	})
}

func generateKey(t *testing.T) *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return key
}

func publicKey(t *testing.T, key *rsa.PrivateKey) ndn.PublicKey {
	pub, err := ndn.MarshalPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("Failed to marshal public key: %v", err)
	}
	return pub
}

func makeCertificate(t *testing.T, name, issuerLocator string, issuer *rsa.PrivateKey) *ndn.Data {
	subject := generateKey(t)
	cert, err := ndn.NewCertificate(ndn.ParseName(name), publicKey(t, subject), ndn.ParseName(issuerLocator), issuer)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}
	return cert
}
