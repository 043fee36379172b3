package trust

import (
	"context"

	"github.com/fancl20/ndnv/pkg/ndn"
)

// DB is the database interface for trust material: certificates stored and
// served by name, and trust anchor keys.
type DB interface {
	// Certificate looks up the certificate stored under the exact name.
	// A missing certificate is (nil, nil).
	Certificate(ctx context.Context, name ndn.Name) (*ndn.Data, error)
	// InsertCertificate stores the certificate under its name. Returns
	// true if it was not yet in the DB. Different content under an
	// existing name is an error.
	InsertCertificate(ctx context.Context, cert *ndn.Data) (bool, error)

	// Anchor looks up a trust anchor key by certificate name. A missing
	// anchor is (nil, nil).
	Anchor(ctx context.Context, name ndn.Name) (ndn.PublicKey, error)
	// InsertAnchor stores an anchor key. Returns true if it was not yet in
	// the DB. A different key under an existing name is an error.
	InsertAnchor(ctx context.Context, name ndn.Name, key ndn.PublicKey) (bool, error)

	Close() error
}
