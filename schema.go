package pname

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rickchristie/postgres-pname/internal/protection"
)

// givenSQL strips the family name and the optional space after the comma.
const givenSQL = `regexp_replace($1::text, '^[^,]*, ?', '')`

// SchemaStatements renders the statements InstallSchema runs, in order. The
// first statement creates the domain; the rest are idempotent.
//
// The domain admits canonical text only and collates as "C", so equality,
// hashtext and ORDER BY sort_key(name) agree with Equal, Hash and Compare.
// to_<type>(text) inserts "Family,Given" spellings in canonical form.
func SchemaStatements(cfg SchemaConfig) []string {
	cfg = cfg.withDefaults()
	typ := cfg.qualifiedType()
	constraint := strings.ReplaceAll(CanonicalPattern, "'", "''")

	return []string{
		fmt.Sprintf(`CREATE DOMAIN %s AS text COLLATE "C" CONSTRAINT %s CHECK (VALUE ~ '%s')`,
			typ, pgx.Identifier{cfg.TypeName + "_format"}.Sanitize(), constraint),
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(%s) RETURNS text LANGUAGE sql IMMUTABLE STRICT PARALLEL SAFE AS $$ SELECT split_part($1::text, ',', 1) $$`,
			cfg.qualifiedFunc("family"), typ),
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(%s) RETURNS text LANGUAGE sql IMMUTABLE STRICT PARALLEL SAFE AS $$ SELECT %s $$`,
			cfg.qualifiedFunc("given"), typ, givenSQL),
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(%s) RETURNS text LANGUAGE sql IMMUTABLE STRICT PARALLEL SAFE AS $$ SELECT split_part(%s, ' ', 1) || ' ' || split_part($1::text, ',', 1) $$`,
			cfg.qualifiedFunc("show"), typ, givenSQL),
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(%s) RETURNS text LANGUAGE sql IMMUTABLE STRICT PARALLEL SAFE AS $$ SELECT (split_part($1::text, ',', 1) || chr(1) || %s) COLLATE "C" $$`,
			cfg.qualifiedFunc("sort_key"), typ, givenSQL),
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(text) RETURNS %s LANGUAGE sql IMMUTABLE STRICT PARALLEL SAFE AS $$ SELECT regexp_replace($1, ', ?', ', ')::%s $$`,
			cfg.normalizeFunc(), typ, typ),
		fmt.Sprintf(`COMMENT ON DOMAIN %s IS 'Person name written as ''Family, Given Given2''.'`, typ),
	}
}

// UninstallStatements renders the statements UninstallSchema runs. No
// CASCADE: dropping fails while a column still uses the type.
func UninstallStatements(cfg SchemaConfig) []string {
	cfg = cfg.withDefaults()
	typ := cfg.qualifiedType()
	return []string{
		fmt.Sprintf(`DROP FUNCTION IF EXISTS %s(text)`, cfg.normalizeFunc()),
		fmt.Sprintf(`DROP FUNCTION IF EXISTS %s(%s)`, cfg.qualifiedFunc("sort_key"), typ),
		fmt.Sprintf(`DROP FUNCTION IF EXISTS %s(%s)`, cfg.qualifiedFunc("show"), typ),
		fmt.Sprintf(`DROP FUNCTION IF EXISTS %s(%s)`, cfg.qualifiedFunc("given"), typ),
		fmt.Sprintf(`DROP FUNCTION IF EXISTS %s(%s)`, cfg.qualifiedFunc("family"), typ),
		fmt.Sprintf(`DROP DOMAIN IF EXISTS %s`, typ),
	}
}

// InstallSchema creates the personname domain and its accessor functions in
// one transaction. An existing domain is kept; functions are replaced.
func InstallSchema(ctx context.Context, pool *pgxpool.Pool, cfg SchemaConfig, logger zerolog.Logger) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}
	statements := SchemaStatements(cfg)
	if err := checkStatements(protection.NewChecker(protection.Config{}), statements); err != nil {
		return err
	}

	startTime := time.Now()
	queryCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.InstallTimeoutSeconds)*time.Second)
	defer cancel()

	tx, err := pool.Begin(queryCtx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // parent ctx: queryCtx may already be cancelled

	var exists bool
	if err := tx.QueryRow(queryCtx, `SELECT to_regtype($1) IS NOT NULL`, cfg.qualifiedType()).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for type %s: %w", cfg.qualifiedType(), err)
	}
	if exists {
		statements = statements[1:]
	}

	for _, sql := range statements {
		if _, err := tx.Exec(queryCtx, sql); err != nil {
			return fmt.Errorf("schema statement failed: %w\nSQL: %s", err, sql)
		}
	}
	if err := tx.Commit(queryCtx); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	logger.Info().
		Str("type", cfg.qualifiedType()).
		Bool("domain_existed", exists).
		Int("statements", len(statements)).
		Dur("duration", time.Since(startTime)).
		Msg("schema installed")
	return nil
}

// UninstallSchema drops the accessor functions and the domain.
func UninstallSchema(ctx context.Context, pool *pgxpool.Pool, cfg SchemaConfig, logger zerolog.Logger) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}
	statements := UninstallStatements(cfg)
	if err := checkStatements(protection.NewChecker(protection.Config{AllowDrop: true}), statements); err != nil {
		return err
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.InstallTimeoutSeconds)*time.Second)
	defer cancel()

	tx, err := pool.Begin(queryCtx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sql := range statements {
		if _, err := tx.Exec(queryCtx, sql); err != nil {
			return fmt.Errorf("schema statement failed: %w\nSQL: %s", err, sql)
		}
	}
	if err := tx.Commit(queryCtx); err != nil {
		return fmt.Errorf("failed to commit schema removal: %w", err)
	}

	logger.Info().Str("type", cfg.qualifiedType()).Msg("schema uninstalled")
	return nil
}

func checkStatements(checker *protection.Checker, statements []string) error {
	for _, sql := range statements {
		if err := checker.Check(sql); err != nil {
			return fmt.Errorf("schema statement rejected: %w\nSQL: %s", err, sql)
		}
	}
	return nil
}
