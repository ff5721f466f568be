package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/handler"
	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/middleware"
)

type routerDeps struct {
	cfg    *config.Config
	claims handler.Claimer
	// pool is nil when claims go through the REST backend.
	pool handler.PoolReader
}

func newRouter(d routerDeps) http.Handler {
	cfg := d.cfg
	pageH := handler.NewPageHandler(d.claims, cfg)
	credsH := handler.NewCredentialsHandler(d.claims)
	configH := handler.NewConfigHandler(cfg)

	session := middleware.SessionToken(middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.SessionTTL(),
		Secure: cfg.Session.Secure,
	})
	// Validated by config.Load; a bad list trusts no proxy.
	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		logger.Errorf("trusted proxies: %v", err)
	}
	limitClaims := middleware.RateLimitClaims(middleware.NewRateLimiter(cfg.Claim.RatePerMinute, time.Minute))

	r := chi.NewRouter()
	r.Use(middleware.TrustedRealIP(trusted))
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{
		Logger:  zap.NewStdLog(logger.Zap()),
		NoColor: true,
	}))
	r.Use(middleware.Recover)
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", handler.Health)
	r.Get("/", pageH.Landing)
	r.With(middleware.NoStore, limitClaims, session).Get("/credentials", pageH.Credentials)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   splitOrigins(cfg.CORSAllowedOrigins),
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/config", configH.GetConfig)
		r.With(middleware.NoStore, limitClaims, session).Get("/credentials", credsH.GetCredentials)
	})

	if d.pool != nil {
		poolH := handler.NewPoolHandler(d.pool)
		r.Route("/internal/pool", func(r chi.Router) {
			r.Use(middleware.InternalOnly)
			r.Get("/", poolH.GetStats)
			r.Get("/claims", poolH.ListClaimed)
		})
	}
	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
