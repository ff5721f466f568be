package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/model"
	"github.com/votemonitor/internal/poolgen"
	"github.com/votemonitor/internal/repository"
	"github.com/votemonitor/internal/startup"
	"github.com/votemonitor/internal/sweeper"
)

type options struct {
	generate int
	domain   string
	stats    bool
	sweep    bool
	list     int
	migrate  bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pool", flag.ContinueOnError)
	fs.IntVar(&o.generate, "generate", 0, "create N demo accounts and print them")
	fs.StringVar(&o.domain, "domain", "demo.votemonitor.org", "email domain of generated accounts")
	fs.BoolVar(&o.stats, "stats", false, "print pool statistics")
	fs.BoolVar(&o.sweep, "sweep", false, "disable accounts claimed longer ago than the account TTL")
	fs.IntVar(&o.list, "list", 0, "print the N most recent active claims")
	fs.BoolVar(&o.migrate, "migrate", false, "apply database migrations")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.generate < 0 || o.list < 0 {
		return o, fmt.Errorf("-generate and -list take a positive number")
	}
	if o.generate == 0 && !o.stats && !o.sweep && o.list == 0 && !o.migrate {
		return o, fmt.Errorf("nothing to do: pass -generate, -stats, -sweep, -list or -migrate")
	}
	return o, nil
}

// pool is what the CLI needs from the repository.
type pool interface {
	sweeper.Expirer
	InsertAccounts(ctx context.Context, accounts []model.DemoAccount) (int64, error)
	Stats(ctx context.Context) (*model.PoolStats, error)
	ListClaimed(ctx context.Context, limit int) ([]model.DemoAccount, error)
}

func main() {
	logger.SetPrefix("pool")
	defer logger.Sync()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	db, err := startup.ConnectDB(cfg, 30*time.Second)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if opts.migrate {
		if err := startup.RunMigrations(ctx, db); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	if err := run(ctx, os.Stdout, repository.NewDemoAccountRepository(db), cfg, opts, time.Now()); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// run executes the requested actions in a fixed order: generate, sweep, stats, list.
func run(ctx context.Context, out io.Writer, p pool, cfg *config.Config, opts options, now time.Time) error {
	if opts.generate > 0 {
		accounts, err := poolgen.Generate(opts.generate, opts.domain, now)
		if err != nil {
			return err
		}
		n, err := p.InsertAccounts(ctx, accounts)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EMAIL\tPASSWORD")
		for _, a := range accounts {
			fmt.Fprintf(tw, "%s\t%s\n", a.Email, a.Password)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "inserted %d of %d accounts\n", n, len(accounts))
	}
	if opts.sweep {
		sw := sweeper.New(p, nil, cfg.AccountTTL(), sweeper.WithNow(func() time.Time { return now }))
		n, err := sw.RunOnce(ctx)
		if err != nil {
			return err
		}
		// Cached results on running sites expire on their own within the cache TTL.
		fmt.Fprintf(out, "disabled %d expired accounts\n", n)
	}
	if opts.stats {
		s, err := p.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "available: %d\nclaimed:   %d\ndisabled:  %d\n", s.Available, s.Claimed, s.Disabled)
	}
	if opts.list > 0 {
		accounts, err := p.ListClaimed(ctx, opts.list)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EMAIL\tTOKEN\tCLAIMED AT")
		for _, a := range accounts {
			token, claimedAt := "", ""
			if a.ClaimedBy != nil {
				token = logger.MaskToken(*a.ClaimedBy)
			}
			if a.ClaimedAt != nil {
				claimedAt = a.ClaimedAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Email, token, claimedAt)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
