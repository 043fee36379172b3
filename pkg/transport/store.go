package transport

import (
	"context"
	"time"

	"github.com/fancl20/ndnv/pkg/ndn"
	"github.com/fancl20/ndnv/pkg/trust"
)

// Store resolves fetches directly from a local trust DB. A missing
// certificate reports a timeout, like an unanswered network fetch.
type Store struct {
	db trust.DB

	// Timeout bounds a single lookup. Zero means DefaultFetchTimeout.
	Timeout time.Duration
}

// NewStore creates a transport backed by the given DB.
func NewStore(db trust.DB) *Store {
	return &Store{db: db}
}

// Fetch looks the interest name up asynchronously.
func (t *Store) Fetch(interest *ndn.Interest, onData func(*ndn.Data), onTimeout func()) {
	go func() {
		timeout := t.Timeout
		if timeout == 0 {
			timeout = DefaultFetchTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cert, err := t.db.Certificate(ctx, interest.Name())
		if err != nil || cert == nil {
			onTimeout()
			return
		}
		onData(cert)
	}()
}
