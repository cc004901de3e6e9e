// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package indexer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/dgcpow/internal/config"
	"github.com/blinklabs-io/dgcpow/internal/metrics"
	"github.com/blinklabs-io/dgcpow/internal/state"
	"github.com/blinklabs-io/dgcpow/pow"
)

// Store persists accepted records
type Store interface {
	PutRecord(*pow.BlockRecord) error
	IterateRecords(func(*pow.BlockRecord) error) error
}

// HeaderSubmission is a candidate header. PowHash is the digest produced by
// the header's algorithm, which is what gets compared against the target.
type HeaderSubmission struct {
	Hash     pow.Hash `json:"hash"`
	PrevHash pow.Hash `json:"prevHash"`
	PowHash  pow.Hash `json:"powHash"`
	Version  int32    `json:"version"`
	Time     int64    `json:"time"`
	Bits     uint32   `json:"bits"`
}

// Checkpoint is a known block used to bound how easy later headers can be
type Checkpoint struct {
	Bits uint32
	Time int64
}

type Indexer struct {
	mu         sync.Mutex
	params     *pow.Params
	index      *pow.Index
	retargeter *pow.Retargeter
	store      Store
	metrics    *metrics.Metrics
	clock      pow.TimeSource
	checkpoint *Checkpoint
}

// Singleton indexer instance
var globalIndexer = &Indexer{}

// Start rebuilds the chain index from state and prepares the retargeter
// for the configured network
func (i *Indexer) Start() error {
	cfg := config.GetConfig()
	params, err := cfg.ChainParams()
	if err != nil {
		return err
	}
	var cp *Checkpoint
	if cfg.Chain.CheckpointBits != 0 {
		cp = &Checkpoint{
			Bits: cfg.Chain.CheckpointBits,
			Time: cfg.Chain.CheckpointTime,
		}
	}
	clock := pow.OffsetTime{
		Offset: time.Duration(cfg.Chain.TimeOffset) * time.Second,
	}
	return i.start(
		params,
		state.GetState(),
		metrics.GetMetrics(),
		clock,
		cp,
		cfg.Logging.Retargets,
	)
}

func (i *Indexer) start(
	params *pow.Params,
	store Store,
	m *metrics.Metrics,
	clock pow.TimeSource,
	cp *Checkpoint,
	logRetargets bool,
) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.params = params
	i.store = store
	i.metrics = m
	i.clock = clock
	i.checkpoint = cp
	i.index = pow.NewIndex(params)
	observers := pow.MultiObserver{m}
	if logRetargets {
		observers = append(observers, pow.ObserverFunc(logRetarget))
	}
	i.retargeter = pow.NewRetargeter(
		params,
		i.index,
		pow.WithObserver(observers),
		pow.WithTimeSource(clock),
	)
	err := store.IterateRecords(func(rec *pow.BlockRecord) error {
		_, err := i.index.Append(*rec)
		return err
	})
	if err != nil {
		return fmt.Errorf("rebuild chain index: %w", err)
	}
	if !params.RetargetsBeyondGenesis() {
		slog.Warn(
			"network has no retarget rule, headers after genesis will be rejected",
			"network", params.Name,
		)
	}
	if tip := i.index.Tip(); tip != nil {
		slog.Info(
			"loaded chain index",
			"network", params.Name,
			"records", i.index.Len(),
			"tip", tip.Height,
			"hash", tip.Hash.String(),
		)
		m.SetTipHeight(tip.Height)
	} else {
		slog.Info("starting with an empty chain index", "network", params.Name)
	}
	return nil
}

func logRetarget(ev pow.RetargetEvent) {
	slog.Debug(
		"retarget",
		"kind", string(ev.Kind),
		"algo", ev.Algo.String(),
		"height", ev.Height,
		"prevBits", fmt.Sprintf("%08x", ev.PrevBits),
		"newBits", fmt.Sprintf("%08x", ev.NewBits),
		"before", ev.Before.Hex(),
		"after", ev.After.Hex(),
		"actualTimespan", ev.ActualTimespan,
		"targetTimespan", ev.TargetTimespan,
		"adjustments", ev.Adjustments,
		"insufficientHistory", ev.InsufficientHistory,
	)
}

// AcceptHeader validates sub against the current tip and appends it
func (i *Indexer) AcceptHeader(sub HeaderSubmission) (*pow.BlockRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil, ErrNotStarted
	}
	rec, err := i.acceptHeader(sub)
	if err != nil {
		reason := ReasonInternal
		var rejectErr *RejectError
		if errors.As(err, &rejectErr) {
			reason = rejectErr.Reason
		}
		i.metrics.ObserveHeader(false, reason)
		slog.Warn(
			"rejected header",
			"hash", sub.Hash.String(),
			"reason", reason,
			"error", err,
		)
		return nil, err
	}
	i.metrics.ObserveHeader(true, "")
	i.metrics.SetTipHeight(rec.Height)
	slog.Info(
		"accepted header",
		"height", rec.Height,
		"hash", rec.Hash.String(),
		"algo", rec.Algo.String(),
		"bits", fmt.Sprintf("%08x", rec.Bits),
	)
	return rec, nil
}

func (i *Indexer) acceptHeader(sub HeaderSubmission) (*pow.BlockRecord, error) {
	algo := pow.AlgoFromVersion(sub.Version)
	rec := pow.BlockRecord{
		Hash:    sub.Hash,
		Time:    sub.Time,
		Bits:    sub.Bits,
		Algo:    algo,
		Version: sub.Version,
	}
	tip := i.index.Tip()
	if tip == nil {
		if sub.PrevHash != (pow.Hash{}) {
			return nil, reject(ReasonUnknownParent, fmt.Errorf("genesis must not have a parent, got %s", sub.PrevHash))
		}
	} else {
		if sub.PrevHash != tip.Hash {
			return nil, reject(
				ReasonUnknownParent,
				fmt.Errorf("parent %s is not the tip %s", sub.PrevHash, tip.Hash),
			)
		}
		rec.Height = tip.Height + 1
		if sub.Time <= tip.MedianTimePast {
			return nil, reject(
				ReasonTimeTooOld,
				fmt.Errorf("time %d not after median time past %d", sub.Time, tip.MedianTimePast),
			)
		}
		if i.checkpoint != nil {
			err := pow.CheckMinWork(
				i.params,
				sub.Bits,
				i.checkpoint.Bits,
				sub.Time-i.checkpoint.Time,
				algo,
			)
			if err != nil {
				return nil, reject(ReasonBelowMinWork, err)
			}
		}
		hdr := &pow.BlockHeader{
			Version: sub.Version,
			Time:    sub.Time,
			Bits:    sub.Bits,
		}
		want, err := i.retargeter.NextWorkRequired(tip, hdr, algo)
		if err != nil {
			return nil, reject(ReasonNoRetarget, err)
		}
		if want != sub.Bits {
			return nil, reject(
				ReasonBadBits,
				fmt.Errorf("bits %08x, expected %08x", sub.Bits, want),
			)
		}
	}
	if err := pow.CheckProofOfWork(i.params, sub.PowHash.Target(), sub.Bits, algo); err != nil {
		return nil, reject(ReasonBadPow, err)
	}
	appended, err := i.index.Append(rec)
	if err != nil {
		return nil, err
	}
	if err := i.store.PutRecord(appended); err != nil {
		// Keep the index in step with storage
		i.index.DropTip()
		return nil, fmt.Errorf("persist record %d: %w", appended.Height, err)
	}
	return appended, nil
}

// NextWork returns a header template for the next block of algo, with the
// time stamped from the adjusted clock and the required bits filled in
func (i *Indexer) NextWork(algo pow.Algo) (*pow.BlockHeader, error) {
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %d", pow.ErrUnknownAlgo, algo)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil, ErrNotStarted
	}
	hdr := &pow.BlockHeader{Version: algo.Version()}
	tip := i.index.Tip()
	if tip == nil {
		hdr.Time = i.clock.Now().Unix()
		hdr.Bits = pow.TargetToCompact(i.params.PowLimit(algo))
		return hdr, nil
	}
	if err := i.retargeter.UpdateTime(hdr, tip); err != nil {
		return nil, err
	}
	bits, err := i.retargeter.NextWorkRequired(tip, hdr, algo)
	if err != nil {
		return nil, err
	}
	hdr.Bits = bits
	return hdr, nil
}

func (i *Indexer) Tip() *pow.BlockRecord {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	return i.index.Tip()
}

func (i *Indexer) Record(height int64) *pow.BlockRecord {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	return i.index.Get(height)
}

func (i *Indexer) Params() *pow.Params {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.params
}

// GetIndexer returns the global indexer instance
func GetIndexer() *Indexer {
	return globalIndexer
}
