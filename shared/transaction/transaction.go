package transaction

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/infras/postgres"
	"github.com/JustAdi10/Booking/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const advisoryLockQuery = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// Transactor runs fn inside a write transaction holding a transaction-scoped advisory lock on key.
// Callers using the same key are serialized until commit or rollback.
type Transactor interface {
	WithLock(ctx context.Context, key string, fn TxFunc) error
	// WithLocks is WithLock over several keys, taken in sorted order so overlapping callers cannot deadlock.
	WithLocks(ctx context.Context, keys []string, fn TxFunc) error
}

type transactorImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Transactor {
	return &transactorImpl{
		db:   db,
		otel: otel,
	}
}

// LockKey builds the advisory lock key for a bookable resource.
func LockKey(resourceType, resourceID string) string {
	return resourceType + ":" + resourceID
}

// LockOrder dedupes keys and sorts them into acquisition order.
func LockOrder(keys []string) []string {
	ordered := slices.Clone(keys)
	slices.Sort(ordered)

	return slices.Compact(ordered)
}

func (t *transactorImpl) WithLock(ctx context.Context, key string, fn TxFunc) error {
	return t.WithLocks(ctx, []string{key}, fn)
}

func (t *transactorImpl) WithLocks(ctx context.Context, keys []string, fn TxFunc) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".transaction.WithLock")
	defer scope.End()

	keys = LockOrder(keys)
	joined := strings.Join(keys, ",")

	scope.SetAttribute("lock.key", joined)

	tx, err := t.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", joined).Msg("failed to begin transaction")

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, advisoryLockQuery, key); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("key", key).Msg("failed to acquire advisory lock")

			return errors.Join(fmt.Errorf("failed to acquire advisory lock: %w", err), rollback(tx))
		}
	}

	if err = fn(ctx, tx); err != nil {
		if rbErr := rollback(tx); rbErr != nil {
			log.Error().Err(rbErr).Str("key", joined).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", joined).Msg("failed to commit transaction")

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *sqlx.Tx) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}
