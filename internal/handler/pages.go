package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/votemonitor/internal/claimflow"
	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/content"
	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/middleware"
	"github.com/votemonitor/internal/view"
)

// PageHandler serves the HTML pages.
type PageHandler struct {
	claims          Claimer
	site            config.SiteConfig
	accountTTLHours int
}

func NewPageHandler(claims Claimer, cfg *config.Config) *PageHandler {
	return &PageHandler{claims: claims, site: cfg.Site, accountTTLHours: cfg.Demo.AccountTTLHours}
}

// Landing renders the home page. A broken description never takes the page down.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	desc, err := content.Landing()
	if err != nil {
		logger.Errorf("landing description: %v", err)
		desc = ""
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Landing(w, h.site, desc); err != nil {
		logger.Errorf("render landing: %v", err)
	}
}

// Credentials claims the visitor's demo account and renders it. The loading card is
// flushed first; the outcome card follows once the claim resolves.
func (h *PageHandler) Credentials(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetSessionToken(r.Context())
	flow := claimflow.New()
	if err := flow.Start(); err != nil {
		logger.Errorf("credentials flow: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.CredentialsStart(w, h.site); err != nil {
		logger.Errorf("render credentials: %v", err)
		return
	}
	flush(w)

	creds, err := h.claims.Claim(r.Context(), token)
	if errors.Is(err, context.Canceled) {
		// Visitor left; nothing to render.
		return
	}
	state, ferr := flow.Finish(creds, err)
	if ferr != nil {
		logger.Errorf("credentials flow: %v", ferr)
		return
	}
	logger.Debugf("credentials page token=%s state=%s", logger.MaskToken(token), state)
	if err := view.CredentialsResult(w, h.site, flow, h.accountTTLHours); err != nil {
		logger.Errorf("render credentials: %v", err)
	}
}
