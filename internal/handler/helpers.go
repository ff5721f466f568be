package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/model"
)

// Claimer is the claim service as the handlers see it.
type Claimer interface {
	Claim(ctx context.Context, token string) (*model.Credentials, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("writeJSON encode: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// flush pushes what was written so far to the client, if the writer supports it.
func flush(w http.ResponseWriter) {
	if err := http.NewResponseController(w).Flush(); err != nil {
		logger.Debugf("flush: %v", err)
	}
}
