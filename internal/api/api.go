// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/blinklabs-io/dgcpow/internal/config"
	"github.com/blinklabs-io/dgcpow/internal/indexer"
	"github.com/blinklabs-io/dgcpow/pow"
)

// Chain is the view of the header indexer served by the API
type Chain interface {
	Tip() *pow.BlockRecord
	Record(height int64) *pow.BlockRecord
	NextWork(algo pow.Algo) (*pow.BlockHeader, error)
	AcceptHeader(sub indexer.HeaderSubmission) (*pow.BlockRecord, error)
	Params() *pow.Params
}

type handler struct {
	chain Chain
}

func NewHandler(chain Chain) http.Handler {
	h := &handler{chain: chain}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/tip", h.handleTip)
	mux.HandleFunc("GET /v1/records/{height}", h.handleRecord)
	mux.HandleFunc("GET /v1/nextwork/{algo}", h.handleNextWork)
	mux.HandleFunc("POST /v1/headers", h.handleSubmitHeader)
	mux.HandleFunc("POST /v1/checkpow", h.handleCheckPow)
	mux.HandleFunc("GET /v1/work/{bits}", h.handleWork)
	return mux
}

// Start serves the API on the configured listener
func Start() error {
	cfg := config.GetConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Api.ListenAddress, cfg.Api.ListenPort)
	slog.Info("starting API listener", "address", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(indexer.GetIndexer()),
		ReadHeaderTimeout: 60 * time.Second,
	}
	return server.ListenAndServe()
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write API response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var rejectErr *indexer.RejectError
	if errors.As(err, &rejectErr) {
		resp.Reason = rejectErr.Reason
	}
	respondJSON(w, status, resp)
}

func (h *handler) handleTip(w http.ResponseWriter, r *http.Request) {
	tip := h.chain.Tip()
	if tip == nil {
		respondError(w, http.StatusNotFound, errors.New("chain is empty"))
		return
	}
	respondJSON(w, http.StatusOK, newRecordResponse(tip))
}

func (h *handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseInt(r.PathValue("height"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid height: %w", err))
		return
	}
	rec := h.chain.Record(height)
	if rec == nil {
		respondError(w, http.StatusNotFound, fmt.Errorf("no record at height %d", height))
		return
	}
	respondJSON(w, http.StatusOK, newRecordResponse(rec))
}

func (h *handler) handleNextWork(w http.ResponseWriter, r *http.Request) {
	algo, err := pow.ParseAlgo(r.PathValue("algo"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	hdr, err := h.chain.NextWork(algo)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pow.ErrNoRetargetRule) {
			status = http.StatusConflict
		}
		respondError(w, status, err)
		return
	}
	target, _, _ := pow.CompactToTarget(hdr.Bits)
	respondJSON(w, http.StatusOK, nextWorkResponse{
		Algo:    algo.String(),
		Version: hdr.Version,
		Time:    hdr.Time,
		Bits:    Bits(hdr.Bits),
		Target:  target.Hex(),
	})
}

func (h *handler) handleSubmitHeader(w http.ResponseWriter, r *http.Request) {
	var req headerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	rec, err := h.chain.AcceptHeader(req.submission())
	if err != nil {
		status := http.StatusInternalServerError
		var rejectErr *indexer.RejectError
		if errors.As(err, &rejectErr) {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, err)
		return
	}
	respondJSON(w, http.StatusOK, newRecordResponse(rec))
}

func (h *handler) handleCheckPow(w http.ResponseWriter, r *http.Request) {
	var req checkPowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	algo, err := pow.ParseAlgo(req.Algo)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	resp := checkPowResponse{Valid: true}
	err = pow.CheckProofOfWork(h.chain.Params(), req.Hash.Target(), uint32(req.Bits), algo)
	if err != nil {
		resp.Valid = false
		resp.Error = err.Error()
		switch {
		case errors.Is(err, pow.ErrBelowMinimumWork):
			resp.Reason = "below-min-work"
		case errors.Is(err, pow.ErrHashMismatch):
			resp.Reason = "hash-mismatch"
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *handler) handleWork(w http.ResponseWriter, r *http.Request) {
	var bits Bits
	if err := bits.UnmarshalText([]byte(r.PathValue("bits"))); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	target, negative, overflow := pow.CompactToTarget(uint32(bits))
	work := pow.ProofIncrement(uint32(bits))
	respondJSON(w, http.StatusOK, workResponse{
		Bits:     bits,
		Target:   target.Hex(),
		Negative: negative,
		Overflow: overflow,
		Work:     work.Dec(),
	})
}
