package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/votemonitor/internal/claimflow"
	"github.com/votemonitor/internal/middleware"
)

// CredentialsHandler is the JSON variant of the credentials page.
type CredentialsHandler struct {
	claims Claimer
}

func NewCredentialsHandler(claims Claimer) *CredentialsHandler {
	return &CredentialsHandler{claims: claims}
}

type credentialsResponse struct {
	State    string `json:"state"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GetCredentials answers 200 with the pair, 404 when the pool has nothing for the visitor
// and 502 when the backend failed.
func (h *CredentialsHandler) GetCredentials(w http.ResponseWriter, r *http.Request) {
	flow := claimflow.New()
	_ = flow.Start()
	creds, err := h.claims.Claim(r.Context(), middleware.GetSessionToken(r.Context()))
	if errors.Is(err, context.Canceled) {
		return
	}
	state, _ := flow.Finish(creds, err)
	switch state {
	case claimflow.Success:
		c := flow.Credentials()
		writeJSON(w, http.StatusOK, credentialsResponse{State: state.String(), Email: c.Email, Password: c.Password})
	case claimflow.Empty:
		writeJSON(w, http.StatusNotFound, credentialsResponse{State: state.String(), Error: "no demo account available"})
	default:
		writeJSON(w, http.StatusBadGateway, credentialsResponse{State: state.String(), Error: "could not fetch credentials, try again"})
	}
}
