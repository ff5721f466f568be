package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/model"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DemoAccountRepository struct {
	db DB
}

func NewDemoAccountRepository(db DB) *DemoAccountRepository {
	return &DemoAccountRepository{db: db}
}

// ClaimDemoAccount calls claim_demo_account for the token. It returns nil, nil when the
// pool has nothing for this visitor.
func (r *DemoAccountRepository) ClaimDemoAccount(ctx context.Context, token string) (*model.Credentials, error) {
	defer logger.DeferLogDuration("demoAccount.Claim", time.Now())()
	var email, password *string
	err := r.db.QueryRow(ctx, `SELECT email, password FROM claim_demo_account($1)`, token).Scan(&email, &password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("demoAccountRepo.ClaimDemoAccount: %w", err)
	}
	creds := &model.Credentials{}
	if email != nil {
		creds.Email = *email
	}
	if password != nil {
		creds.Password = *password
	}
	return creds, nil
}

// InsertAccounts adds fresh accounts to the pool. Duplicate emails are skipped.
// Returns how many rows were inserted.
func (r *DemoAccountRepository) InsertAccounts(ctx context.Context, accounts []model.DemoAccount) (int64, error) {
	defer logger.DeferLogDuration("demoAccount.InsertAccounts", time.Now())()
	var inserted int64
	for _, a := range accounts {
		tag, err := r.db.Exec(ctx,
			`INSERT INTO demo_accounts (id, email, password, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (email) DO NOTHING`,
			a.ID, a.Email, a.Password, a.CreatedAt,
		)
		if err != nil {
			return inserted, fmt.Errorf("demoAccountRepo.InsertAccounts %s: %w", a.Email, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// Stats counts accounts that are free, actively claimed and disabled.
func (r *DemoAccountRepository) Stats(ctx context.Context) (*model.PoolStats, error) {
	defer logger.DeferLogDuration("demoAccount.Stats", time.Now())()
	s := &model.PoolStats{}
	err := r.db.QueryRow(ctx,
		`SELECT
		   COUNT(*) FILTER (WHERE claimed_by IS NULL AND disabled_at IS NULL),
		   COUNT(*) FILTER (WHERE claimed_by IS NOT NULL AND disabled_at IS NULL),
		   COUNT(*) FILTER (WHERE disabled_at IS NOT NULL)
		 FROM demo_accounts`).Scan(&s.Available, &s.Claimed, &s.Disabled)
	if err != nil {
		return nil, fmt.Errorf("demoAccountRepo.Stats: %w", err)
	}
	return s, nil
}

// DisableExpired disables every account claimed before cutoff and returns the session
// tokens that held them, so callers can drop cached results.
func (r *DemoAccountRepository) DisableExpired(ctx context.Context, cutoff time.Time) ([]string, error) {
	defer logger.DeferLogDuration("demoAccount.DisableExpired", time.Now())()
	rows, err := r.db.Query(ctx,
		`UPDATE demo_accounts SET disabled_at = NOW()
		 WHERE claimed_at IS NOT NULL AND claimed_at < $1 AND disabled_at IS NULL
		 RETURNING claimed_by`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("demoAccountRepo.DisableExpired: %w", err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("demoAccountRepo.DisableExpired: %w", err)
	}
	return tokens, nil
}

// ListClaimed returns active claims, newest first. Used by the operator CLI.
func (r *DemoAccountRepository) ListClaimed(ctx context.Context, limit int) ([]model.DemoAccount, error) {
	defer logger.DeferLogDuration("demoAccount.ListClaimed", time.Now())()
	rows, err := r.db.Query(ctx,
		`SELECT id::text, email, claimed_by, claimed_at, created_at
		 FROM demo_accounts WHERE claimed_by IS NOT NULL AND disabled_at IS NULL
		 ORDER BY claimed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("demoAccountRepo.ListClaimed: %w", err)
	}
	defer rows.Close()
	var list []model.DemoAccount
	for rows.Next() {
		var a model.DemoAccount
		if err := rows.Scan(&a.ID, &a.Email, &a.ClaimedBy, &a.ClaimedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
