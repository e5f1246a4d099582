package pname_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rickchristie/govner/pgflock/client"

	pname "github.com/rickchristie/postgres-pname"
)

const (
	pgflockLockerPort = 9776
	pgflockPassword   = "pgflock"
)

func acquireTestDB(t *testing.T) string {
	t.Helper()
	connStr, err := client.Lock(pgflockLockerPort, t.Name(), pgflockPassword)
	if err != nil {
		t.Fatalf("Failed to acquire test database: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Unlock(pgflockLockerPort, pgflockPassword, connStr)
	})
	return connStr
}

// newTestPool leases a database, installs the schema described by cfg and
// returns a pool whose connections have the codec registered.
func newTestPool(t *testing.T, cfg pname.SchemaConfig) *pgxpool.Pool {
	t.Helper()
	return newTestPoolValidator(t, cfg, nil)
}

// newTestPoolValidator is newTestPool with v passed to RegisterTypes.
func newTestPoolValidator(t *testing.T, cfg pname.SchemaConfig, v pname.Validator) *pgxpool.Pool {
	t.Helper()
	connStr := acquireTestDB(t)
	ctx := context.Background()

	setup, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create setup pool: %v", err)
	}
	if cfg.Schema != "" && cfg.Schema != "public" {
		if _, err := setup.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{cfg.Schema}.Sanitize()); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
	if err := pname.InstallSchema(ctx, setup, cfg, testLogger()); err != nil {
		t.Fatalf("InstallSchema: %v", err)
	}
	setup.Close()

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 5
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pname.RegisterTypes(ctx, conn, cfg, v)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func execSQL(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), sql, args...); err != nil {
		t.Fatalf("setup failed: %v\nSQL: %s", err, sql)
	}
}
