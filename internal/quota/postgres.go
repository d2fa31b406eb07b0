package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ottoverify/otto/internal/model"
)

// Schema creates the quota table. Applied by `otto serve --init-db`.
const Schema = `
CREATE TABLE IF NOT EXISTS usage_quotas (
	account_id TEXT PRIMARY KEY,
	plan TEXT NOT NULL DEFAULT 'free',
	daily_verifications_used INTEGER NOT NULL DEFAULT 0,
	daily_agent_analyses_used INTEGER NOT NULL DEFAULT 0,
	last_reset_date DATE NOT NULL DEFAULT CURRENT_DATE
)`

// PostgresStore persists quota records in Postgres. The admission
// sequence runs as one conditional UPDATE so concurrent requests from
// the same account serialize on the row.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a store over an existing connection pool
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Connect opens a pool for the given URL and verifies the connection
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open quota database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach quota database: %w", err)
	}
	return pool, nil
}

// InitSchema applies the quota schema
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, accountID string) (model.UsageQuota, error) {
	record := model.UsageQuota{AccountID: accountID}
	query := `
		SELECT plan, daily_verifications_used, daily_agent_analyses_used, last_reset_date
		FROM usage_quotas
		WHERE account_id = $1`

	err := s.db.QueryRow(ctx, query, accountID).Scan(
		&record.Plan,
		&record.DailyVerificationsUsed,
		&record.DailyAgentAnalysesUsed,
		&record.LastResetDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UsageQuota{}, ErrAccountNotFound
	}
	if err != nil {
		return model.UsageQuota{}, fmt.Errorf("failed to load quota record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Create(ctx context.Context, accountID string, plan model.Plan, today time.Time) error {
	query := `
		INSERT INTO usage_quotas (account_id, plan, last_reset_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO NOTHING`

	_, err := s.db.Exec(ctx, query, accountID, plan, model.UTCDate(today))
	if err != nil {
		return fmt.Errorf("failed to create quota record: %w", err)
	}
	return nil
}

// Admit performs the stale reset, the limit check and the increment in
// one conditional UPDATE. A refused request matches no row; the current
// record is then re-read for the snapshot.
func (s *PostgresStore) Admit(ctx context.Context, accountID string, today time.Time) (model.UsageQuota, bool, error) {
	record, err := s.Get(ctx, accountID)
	if err != nil {
		return model.UsageQuota{}, false, err
	}
	limits := model.LimitsFor(record.Plan)

	query := `
		UPDATE usage_quotas
		SET daily_verifications_used = CASE WHEN last_reset_date < $2 THEN 1 ELSE daily_verifications_used + 1 END,
		    daily_agent_analyses_used = CASE WHEN last_reset_date < $2 THEN 0 ELSE daily_agent_analyses_used END,
		    last_reset_date = $2
		WHERE account_id = $1
		  AND ($3 = -1 OR (CASE WHEN last_reset_date < $2 THEN 0 ELSE daily_verifications_used END) < $3)
		  AND ($4 = -1 OR (CASE WHEN last_reset_date < $2 THEN 0 ELSE daily_agent_analyses_used END) < $4)
		RETURNING plan, daily_verifications_used, daily_agent_analyses_used, last_reset_date`

	admitted := model.UsageQuota{AccountID: accountID}
	err = s.db.QueryRow(ctx, query, accountID, today, limits.DailyVerifications, limits.DailyAgentAnalyses).Scan(
		&admitted.Plan,
		&admitted.DailyVerificationsUsed,
		&admitted.DailyAgentAnalysesUsed,
		&admitted.LastResetDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Limit reached; report the untouched record
		return record, false, nil
	}
	if err != nil {
		return model.UsageQuota{}, false, fmt.Errorf("failed to admit request: %w", err)
	}
	return admitted, true, nil
}

func (s *PostgresStore) RecordAgentAnalyses(ctx context.Context, accountID string, n int, today time.Time) error {
	query := `
		UPDATE usage_quotas
		SET daily_agent_analyses_used = CASE WHEN last_reset_date < $3 THEN $2 ELSE daily_agent_analyses_used + $2 END,
		    daily_verifications_used = CASE WHEN last_reset_date < $3 THEN 0 ELSE daily_verifications_used END,
		    last_reset_date = $3
		WHERE account_id = $1`

	tag, err := s.db.Exec(ctx, query, accountID, n, today)
	if err != nil {
		return fmt.Errorf("failed to record agent analyses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
