// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/blinklabs-io/dgcpow/internal/config"
	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/holiman/uint256"
)

const (
	chainTipKey     = "chain_tip"
	recordKeyPrefix = "record_"
)

var ErrNotLoaded = errors.New("state not loaded")

// store is the key/value surface shared by the database backends. Keys are
// iterated in ascending byte order.
type store interface {
	Get(key []byte) ([]byte, error)
	// SetMany writes all pairs in a single transaction
	SetMany(pairs [][2][]byte) error
	IteratePrefix(prefix []byte, fn func(key, val []byte) error) error
	Close() error
}

type State struct {
	db store
}

var globalState = &State{}

// Load opens the configured backend in the configured state directory
func (s *State) Load() error {
	cfg := config.GetConfig()
	return s.open(cfg.State.Backend, cfg.State.Directory)
}

func (s *State) open(backend string, dir string) error {
	var db store
	var err error
	switch backend {
	case config.StateBackendBadger, "":
		db, err = openBadger(dir)
	case config.StateBackendBolt:
		db, err = openBolt(dir)
	default:
		return fmt.Errorf("unknown state backend: %s", backend)
	}
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *State) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// record is the stored form of a block record
type record struct {
	Height         int64    `json:"height"`
	Hash           pow.Hash `json:"hash"`
	Time           int64    `json:"time"`
	MedianTimePast int64    `json:"medianTimePast"`
	Bits           uint32   `json:"bits"`
	Algo           pow.Algo `json:"algo"`
	Version        int32    `json:"version"`
	ChainWork      string   `json:"chainWork"`
}

func recordKey(height int64) []byte {
	return fmt.Appendf(nil, "%s%020d", recordKeyPrefix, height)
}

func encodeRecord(rec *pow.BlockRecord) ([]byte, error) {
	return json.Marshal(record{
		Height:         rec.Height,
		Hash:           rec.Hash,
		Time:           rec.Time,
		MedianTimePast: rec.MedianTimePast,
		Bits:           rec.Bits,
		Algo:           rec.Algo,
		Version:        rec.Version,
		ChainWork:      rec.ChainWork.Hex(),
	})
}

func decodeRecord(data []byte) (*pow.BlockRecord, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	work, err := uint256.FromHex(r.ChainWork)
	if err != nil {
		return nil, fmt.Errorf("decode record %d chain work: %w", r.Height, err)
	}
	return &pow.BlockRecord{
		Height:         r.Height,
		Hash:           r.Hash,
		Time:           r.Time,
		MedianTimePast: r.MedianTimePast,
		Bits:           r.Bits,
		Algo:           r.Algo,
		Version:        r.Version,
		ChainWork:      *work,
	}, nil
}

// PutRecord stores rec and moves the tip cursor to it
func (s *State) PutRecord(rec *pow.BlockRecord) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	val, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.db.SetMany([][2][]byte{
		{recordKey(rec.Height), val},
		{[]byte(chainTipKey), strconv.AppendInt(nil, rec.Height, 10)},
	})
}

// GetRecord returns the record at height, or nil if none is stored
func (s *State) GetRecord(height int64) (*pow.BlockRecord, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}
	val, err := s.db.Get(recordKey(height))
	if err != nil || val == nil {
		return nil, err
	}
	return decodeRecord(val)
}

// GetTip returns the height of the most recently stored record. The boolean
// is false for an empty store.
func (s *State) GetTip() (int64, bool, error) {
	if s.db == nil {
		return 0, false, ErrNotLoaded
	}
	val, err := s.db.Get([]byte(chainTipKey))
	if err != nil || val == nil {
		return 0, false, err
	}
	height, err := strconv.ParseInt(string(val), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad chain tip %q: %w", val, err)
	}
	return height, true, nil
}

// IterateRecords calls fn for each stored record in ascending height order
func (s *State) IterateRecords(fn func(*pow.BlockRecord) error) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	return s.db.IteratePrefix(
		[]byte(recordKeyPrefix),
		func(_, val []byte) error {
			rec, err := decodeRecord(val)
			if err != nil {
				return err
			}
			return fn(rec)
		},
	)
}

func GetState() *State {
	return globalState
}
