package postgres

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
)

//go:embed migrations/*.sql
var migrations embed.FS

// New creates the order write-store, running migrations and wiring the L1
// ristretto read cache in front of FindByOrderID. dsn is the same
// connection string used to build pool, with the scheme rewritten to
// pgx5:// so golang-migrate's pgx/v5 database driver can open its own
// connection for the migration run.
func New(ctx context.Context, pool *pgxpool.Pool, dsn string) (*Store, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("order store: migrate: %w", err)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *orderv1.Order]{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("order store: create cache: %w", err)
	}

	return &Store{pool: pool, cache: cache}, nil
}

func runMigrations(dsn string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}

	migrateDSN := rewriteSchemeForMigrate(dsn)

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateDSN)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// rewriteSchemeForMigrate swaps a postgres://... or postgresql://...
// connection string to the pgx5:// scheme golang-migrate's pgx/v5 driver
// registers itself under.
func rewriteSchemeForMigrate(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return "pgx5" + dsn[i:]
	}
	return dsn
}

// Close releases the L1 cache. The pool itself is owned by the caller.
func (s *Store) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// invalidate drops a cached order after any write.
func (s *Store) invalidate(orderID string) {
	if s.cache != nil {
		s.cache.Del(orderID)
	}
}
