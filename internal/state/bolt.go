// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltFileName = "chain.db"

var boltBucket = []byte("chain")

type boltStore struct {
	db *bolt.DB
}

func openBolt(dir string) (*boltStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := bolt.Open(
		filepath.Join(dir, boltFileName),
		0o600,
		&bolt.Options{
			Timeout: 1 * time.Second,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", boltBucket, err)
	}
	return &boltStore{db: db}, nil
}

func (b *boltStore) Get(key []byte) ([]byte, error) {
	var ret []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		// Values are only valid for the life of the transaction
		if v := tx.Bucket(boltBucket).Get(key); v != nil {
			ret = bytes.Clone(v)
		}
		return nil
	})
	return ret, err
}

func (b *boltStore) SetMany(pairs [][2][]byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		for _, pair := range pairs {
			if err := bucket.Put(pair[0], pair[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltStore) IteratePrefix(
	prefix []byte,
	fn func(key, val []byte) error,
) error {
	return b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltStore) Close() error {
	return b.db.Close()
}
