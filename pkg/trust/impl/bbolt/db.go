package bbolt

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"go.etcd.io/bbolt"

	"github.com/fancl20/ndnv/pkg/ndn"
	"github.com/fancl20/ndnv/pkg/trust"
)

type bboltDB struct {
	db *bbolt.DB
}

func New(path string, opts *bbolt.Options) (trust.DB, error) {
	db, err := bbolt.Open(path, 0600, opts)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, s := range []string{"certs", "anchors"} {
			if _, err := tx.CreateBucketIfNotExists([]byte(s)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &bboltDB{
		db: db,
	}, nil
}

// Certificate looks up the certificate stored under the exact name.
func (b *bboltDB) Certificate(ctx context.Context, name ndn.Name) (*ndn.Data, error) {
	var cert *ndn.Data
	if err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte("certs")).Get(name.Encode())
		if raw == nil {
			return nil
		}
		var err error
		cert, err = ndn.DecodeData(slices.Clone(raw))
		return err
	}); err != nil {
		return nil, err
	}
	return cert, nil
}

// InsertCertificate stores the certificate under its name. Returns true if
// the certificate was not yet in the DB.
func (b *bboltDB) InsertCertificate(ctx context.Context, cert *ndn.Data) (bool, error) {
	encoded := cert.Encode()
	var existed bool
	if err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte("certs"))
		key := cert.Name().Encode()
		if v := bkt.Get(key); v != nil {
			if !bytes.Equal(v, encoded) {
				return fmt.Errorf("insert conflicted certificate %s", cert.Name())
			}
			existed = true
			return nil
		}
		return bkt.Put(key, encoded)
	}); err != nil {
		return false, err
	}

	return !existed, nil
}

// Anchor looks up a trust anchor key by certificate name.
func (b *bboltDB) Anchor(ctx context.Context, name ndn.Name) (ndn.PublicKey, error) {
	var key ndn.PublicKey
	if err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte("anchors")).Get(name.Encode())
		if raw == nil {
			return nil
		}
		key = ndn.PublicKey(slices.Clone(raw))
		return nil
	}); err != nil {
		return nil, err
	}
	return key, nil
}

// InsertAnchor stores an anchor key. Returns true if the anchor was not yet
// in the DB.
func (b *bboltDB) InsertAnchor(ctx context.Context, name ndn.Name, key ndn.PublicKey) (bool, error) {
	var existed bool
	if err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte("anchors"))
		k := name.Encode()
		if v := bkt.Get(k); v != nil {
			if !bytes.Equal(v, key) {
				return fmt.Errorf("insert conflicted anchor %s", name)
			}
			existed = true
			return nil
		}
		return bkt.Put(k, key)
	}); err != nil {
		return false, err
	}

	return !existed, nil
}

func (b *bboltDB) Close() error {
	return b.db.Close()
}
