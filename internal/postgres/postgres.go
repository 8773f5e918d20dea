package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

const transactionRollbackError = "error rolling back transaction"

const uniqueViolation = "23505"

type Postgres struct {
	DB *sql.DB
}

func New(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

// Bootstrap creates the schema if it does not exist yet. users holds one
// aggregate row per buyer; payments holds one row per applied correlation key
// and is never updated after insert.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	const usersDDL = `
		CREATE TABLE IF NOT EXISTS users (
			id          TEXT PRIMARY KEY,
			total_spent BIGINT NOT NULL DEFAULT 0 CHECK (total_spent >= 0),
			order_count BIGINT NOT NULL DEFAULT 0 CHECK (order_count >= 0),
			rank        TEXT NOT NULL
		)`

	const paymentsDDL = `
		CREATE TABLE IF NOT EXISTS payments (
			correlation_key TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			applied_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	if _, err := p.DB.ExecContext(ctx, usersDDL); err != nil {
		return fmt.Errorf("error creating users table: %w", err)
	}

	if _, err := p.DB.ExecContext(ctx, paymentsDDL); err != nil {
		return fmt.Errorf("error creating payments table: %w", err)
	}

	return nil
}

// User returns the aggregate for userID, creating the zero-state row on first
// sight. Concurrent first sights race on the insert; ON CONFLICT DO NOTHING
// guarantees exactly one row survives.
func (p *Postgres) User(ctx context.Context, userID, floorRank string) (*domain.User, error) {
	_, err := p.DB.ExecContext(ctx,
		"INSERT INTO users (id, total_spent, order_count, rank) VALUES ($1, 0, 0, $2) ON CONFLICT (id) DO NOTHING",
		userID, floorRank,
	)
	if err != nil {
		return nil, fmt.Errorf("error ensuring user: %w", err)
	}

	row := p.DB.QueryRowContext(ctx,
		"SELECT id, total_spent, order_count, rank FROM users WHERE id = $1", userID)

	var user domain.User
	if err := row.Scan(&user.ID, &user.TotalSpent, &user.OrderCount, &user.Rank); err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return &user, nil
}

// ApplyPayment records the correlation key and folds (amount, +1 order) into
// the user's aggregate as one transaction. The claim insert and the aggregate
// update commit together, so a failure after the claim rolls the claim back
// and the event stays retryable. Returns domain.ErrDuplicatePayment when the
// key has already been applied.
//
// The user row lock taken by the upsert serializes concurrent payments for the
// same user; payments for different users touch different rows and proceed in
// parallel.
func (p *Postgres) ApplyPayment(ctx context.Context, key, userID string, amount int64, rankFor func(int64) string) (*domain.User, error) {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO payments (correlation_key, user_id) VALUES ($1, $2)",
		key, userID,
	)
	if err != nil {
		rollback(tx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Log.Warn("duplicate payment delivery ignored", logger.String("correlation_key", key), logger.String("user_id", userID))
			return nil, domain.ErrDuplicatePayment
		}
		return nil, fmt.Errorf("error claiming payment: %w", err)
	}

	user := domain.User{ID: userID}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, total_spent, order_count, rank)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (id) DO UPDATE
		SET total_spent = users.total_spent + EXCLUDED.total_spent,
		    order_count = users.order_count + 1
		RETURNING total_spent, order_count`,
		userID, amount, rankFor(amount),
	).Scan(&user.TotalSpent, &user.OrderCount)
	if err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error applying payment delta: %w", err)
	}

	user.Rank = rankFor(user.TotalSpent)
	if _, err = tx.ExecContext(ctx, "UPDATE users SET rank = $1 WHERE id = $2", user.Rank, userID); err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error updating rank: %w", err)
	}

	if err = tx.Commit(); err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error committing payment: %w", err)
	}

	return &user, nil
}

// SetStats overwrites the aggregate with absolute values. The caller supplies
// the rank it recomputed from totalSpent; stored rank is never trusted input.
func (p *Postgres) SetStats(ctx context.Context, userID string, totalSpent, orderCount int64, rank string) (*domain.User, error) {
	user := domain.User{ID: userID}
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, total_spent, order_count, rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET total_spent = EXCLUDED.total_spent,
		    order_count = EXCLUDED.order_count,
		    rank = EXCLUDED.rank
		RETURNING total_spent, order_count, rank`,
		userID, totalSpent, orderCount, rank,
	).Scan(&user.TotalSpent, &user.OrderCount, &user.Rank)
	if err != nil {
		return nil, fmt.Errorf("error setting user stats: %w", err)
	}

	return &user, nil
}

func rollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Log.Error(transactionRollbackError, logger.Error(err))
	}
}
