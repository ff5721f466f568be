package handler

import (
	"net/http"

	"github.com/votemonitor/internal/config"
)

// ConfigHandler serves the public part of the configuration.
type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

type publicConfig struct {
	Site            config.SiteConfig `json:"site"`
	SessionTTLDays  int               `json:"session_ttl_days"`
	AccountTTLHours int               `json:"account_ttl_hours"`
	CacheTTLMinutes int               `json:"cache_ttl_minutes"`
}

// GetConfig returns store links, site copy and the cookie/account lifetimes.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, publicConfig{
		Site:            h.cfg.Site,
		SessionTTLDays:  h.cfg.Session.TTLDays,
		AccountTTLHours: h.cfg.Demo.AccountTTLHours,
		CacheTTLMinutes: int(h.cfg.CacheTTL().Minutes()),
	})
}
