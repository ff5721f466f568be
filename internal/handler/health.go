package handler

import (
	"context"
	"net/http"

	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/model"
)

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// PoolReader reports the state of the account pool.
type PoolReader interface {
	Stats(ctx context.Context) (*model.PoolStats, error)
	ListClaimed(ctx context.Context, limit int) ([]model.DemoAccount, error)
}

type PoolHandler struct {
	pool PoolReader
}

func NewPoolHandler(pool PoolReader) *PoolHandler {
	return &PoolHandler{pool: pool}
}

// GetStats returns the available/claimed/disabled counts.
func (h *PoolHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pool.Stats(r.Context())
	if err != nil {
		logger.Errorf("pool stats: %v", err)
		writeError(w, http.StatusInternalServerError, "pool stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type claimedAccount struct {
	model.DemoAccount
	Token string `json:"token"`
}

// ListClaimed returns the newest active claims (?limit=, default 20, max 200) with masked tokens.
func (h *PoolHandler) ListClaimed(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	accounts, err := h.pool.ListClaimed(r.Context(), limit)
	if err != nil {
		logger.Errorf("pool list: %v", err)
		writeError(w, http.StatusInternalServerError, "pool list unavailable")
		return
	}
	out := make([]claimedAccount, 0, len(accounts))
	for _, a := range accounts {
		item := claimedAccount{DemoAccount: a}
		if a.ClaimedBy != nil {
			item.Token = logger.MaskToken(*a.ClaimedBy)
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}
