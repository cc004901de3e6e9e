// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state

import (
	"errors"

	"github.com/blinklabs-io/dgcpow/internal/logging"
	"github.com/dgraph-io/badger/v4"
)

type badgerStore struct {
	db *badger.DB
}

func openBadger(dir string) (*badgerStore, error) {
	badgerOpts := badger.DefaultOptions(dir).
		WithLogger(logging.NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &badgerStore{db: db}, nil
}

func (b *badgerStore) Get(key []byte) ([]byte, error) {
	var ret []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		ret, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return ret, err
}

func (b *badgerStore) SetMany(pairs [][2][]byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, pair := range pairs {
			if err := txn.Set(pair[0], pair[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerStore) IteratePrefix(
	prefix []byte,
	fn func(key, val []byte) error,
) error {
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				return fn(item.Key(), v)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerStore) Close() error {
	return b.db.Close()
}
