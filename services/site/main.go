package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"

	"github.com/votemonitor/internal/backend"
	"github.com/votemonitor/internal/backend/rest"
	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/repository"
	"github.com/votemonitor/internal/service"
	"github.com/votemonitor/internal/startup"
	"github.com/votemonitor/internal/sweeper"
)

func main() {
	logger.SetPrefix("site")
	migrate := flag.Bool("migrate", false, "apply database migrations and exit")
	dev := flag.Bool("dev", false, "start with embedded PostgreSQL and an in-memory cache")
	flag.Parse()
	defer logger.Sync()

	logger.Info("starting site service")
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	if err := checkFlags(cfg, *migrate, *dev); err != nil {
		logger.Errorf("%v", err)
		os.Exit(2)
	}

	var embeddedDB *embeddedpostgres.EmbeddedPostgres
	if *dev {
		var err error
		embeddedDB, err = startup.StartEmbeddedPostgres(cfg)
		if err != nil {
			logger.Errorf("embedded postgres: %v", err)
			os.Exit(1)
		}
		defer func() {
			logger.Info("stopping embedded postgres...")
			if err := embeddedDB.Stop(); err != nil {
				logger.Errorf("embedded postgres stop: %v", err)
			}
		}()
	}

	var (
		claimer backend.Claimer
		repo    *repository.DemoAccountRepository
	)
	if cfg.Claim.Backend == config.BackendPostgres || *dev {
		pool, err := startup.ConnectDB(cfg, 60*time.Second)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		defer pool.Close()

		migCtx, migCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = startup.RunMigrations(migCtx, pool)
		migCancel()
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		if *migrate && !*dev {
			return
		}
		repo = repository.NewDemoAccountRepository(pool)
		claimer = repo
		logger.Info("claim backend: postgres")
	} else {
		claimer = rest.NewClient(cfg.Claim.RESTURL, cfg.Claim.RESTAPIKey, cfg.Claim.Timeout, nil)
		logger.Infof("claim backend: rest %s", cfg.Claim.RESTURL)
	}

	cache, err := startup.ConnectCache(cfg, *dev, 30*time.Second)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer cache.Close()

	claims := service.NewClaimService(claimer, cache, cfg.CacheTTL(), cfg.Claim.Timeout)

	// With the REST backend the pool lives elsewhere and expires there.
	var sw *sweeper.Sweeper
	deps := routerDeps{cfg: cfg, claims: claims}
	if repo != nil {
		sw = sweeper.New(repo, claims, cfg.AccountTTL())
		if err := sw.Start(cfg.Demo.SweepSchedule); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		deps.pool = repo
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      newRouter(deps),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	var srvWg sync.WaitGroup
	errCh := make(chan error, 1)
	srvWg.Add(1)
	go func() {
		defer srvWg.Done()
		logger.Infof("server listening on %s", cfg.ServerAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	logger.Info("server stopped accepting connections")
	if sw != nil {
		sw.Stop()
		logger.Info("sweeper stopped")
	}
	srvWg.Wait()
	logger.Info("server goroutine exited")
}

// checkFlags rejects flag combinations the configured backend cannot honour.
func checkFlags(cfg *config.Config, migrate, dev bool) error {
	if migrate && !dev && cfg.Claim.Backend != config.BackendPostgres {
		return fmt.Errorf("-migrate needs the postgres claim backend, CLAIM_BACKEND is %q", cfg.Claim.Backend)
	}
	return nil
}
