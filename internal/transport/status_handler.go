// Package transport exposes the verified chain over HTTP.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/factorcore/internal/consensus/chain"
	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

const (
	defaultRejectionLimit = 50
	maxRejectionLimit     = 1000
)

// StatusHandler serves read-only views of the verifier's active chain.
type StatusHandler struct {
	logger     *zap.Logger
	network    string
	chain      ChainView
	rejections RejectionStore
	sync       SyncState
	mux        *http.ServeMux
}

// NewStatusHandler returns a StatusHandler routing /status, /block-at and /rejections.
func NewStatusHandler(logger *zap.Logger, network string, view ChainView, rejections RejectionStore, sync SyncState) (*StatusHandler, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if network == "" {
		return nil, errors.New("network is required")
	}
	if view == nil {
		return nil, errors.New("chain view is required")
	}
	if rejections == nil {
		return nil, errors.New("rejection store is required")
	}
	if sync == nil {
		return nil, errors.New("sync state is required")
	}

	h := &StatusHandler{
		logger:     logger.Named("status"),
		network:    network,
		chain:      view,
		rejections: rejections,
		sync:       sync,
		mux:        http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /status", h.status)
	h.mux.HandleFunc("GET /block-at", h.blockAt)
	h.mux.HandleFunc("GET /rejections", h.recentRejections)
	return h, nil
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type statusResponse struct {
	Network        string   `json:"network"`
	Synced         bool     `json:"synced"`
	Height         int32    `json:"height"`
	Tip            string   `json:"tip,omitempty"`
	ChainWork      string   `json:"chain_work,omitempty"`
	MedianTimePast int64    `json:"median_time_past,omitempty"`
	Locator        []string `json:"locator,omitempty"`
}

type blockResponse struct {
	Height    int32  `json:"height"`
	Hash      string `json:"hash"`
	Time      int64  `json:"time"`
	TimeMax   int64  `json:"time_max"`
	Bits      uint16 `json:"bits"`
	ChainWork string `json:"chain_work"`
}

type rejectionResponse struct {
	Height     uint64    `json:"height"`
	Hash       string    `json:"hash"`
	PrevHash   string    `json:"prev_hash"`
	Timestamp  time.Time `json:"timestamp"`
	Bits       uint16    `json:"bits"`
	Reason     string    `json:"reason"`
	VerifiedAt time.Time `json:"verified_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *StatusHandler) status(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		Network: h.network,
		Synced:  h.sync.Synced(),
		Height:  -1,
	}
	if tip := h.chain.Tip(); tip != nil {
		resp.Height = tip.Height()
		resp.Tip = tip.Hash().String()
		resp.ChainWork = tip.WorkSum().Text(16)
		resp.MedianTimePast = tip.CalcPastMedianTime().Unix()
		for _, hash := range h.chain.Locator(tip) {
			resp.Locator = append(resp.Locator, hash.String())
		}
	}
	h.write(w, http.StatusOK, resp)
}

func (h *StatusHandler) blockAt(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	t, err := strconv.ParseInt(query.Get("time"), 10, 64)
	if err != nil {
		h.write(w, http.StatusBadRequest, errorResponse{Error: "time must be a unix timestamp"})
		return
	}
	var height int32
	if raw := query.Get("height"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 0 {
			h.write(w, http.StatusBadRequest, errorResponse{Error: "height must be a non-negative integer"})
			return
		}
		height = int32(v)
	}

	n := h.chain.FindEarliestAtLeast(t, height)
	if n == nil {
		h.write(w, http.StatusNotFound, errorResponse{Error: "no block at or after the requested time and height"})
		return
	}
	h.write(w, http.StatusOK, blockView(n))
}

func (h *StatusHandler) recentRejections(w http.ResponseWriter, r *http.Request) {
	limit := uint64(defaultRejectionLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 || v > maxRejectionLimit {
			h.write(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 1000"})
			return
		}
		limit = v
	}

	headers, err := h.rejections.RecentRejections(r.Context(), h.network, limit)
	if err != nil {
		h.logger.Error("load recent rejections", zap.Error(err))
		h.write(w, http.StatusInternalServerError, errorResponse{Error: "rejections unavailable"})
		return
	}

	resp := make([]rejectionResponse, 0, len(headers))
	for _, v := range headers {
		resp = append(resp, rejectionView(v))
	}
	h.write(w, http.StatusOK, resp)
}

func blockView(n *chain.Node) blockResponse {
	return blockResponse{
		Height:    n.Height(),
		Hash:      n.Hash().String(),
		Time:      n.Time(),
		TimeMax:   n.TimeMax(),
		Bits:      n.Bits(),
		ChainWork: n.WorkSum().Text(16),
	}
}

func rejectionView(v model.VerifiedHeader) rejectionResponse {
	return rejectionResponse{
		Height:     v.Height,
		Hash:       v.Hash,
		PrevHash:   v.PrevHash,
		Timestamp:  v.Timestamp,
		Bits:       v.Bits,
		Reason:     v.Reason,
		VerifiedAt: v.VerifiedAt,
	}
}

func (h *StatusHandler) write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}
