package pname

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const listColumnsSQL = `
SELECT
    n.nspname AS schema,
    c.relname AS table_name,
    a.attname AS column_name,
    CASE c.relkind
        WHEN 'r' THEN 'table'
        WHEN 'v' THEN 'view'
        WHEN 'm' THEN 'materialized_view'
        WHEN 'f' THEN 'foreign_table'
        WHEN 'p' THEN 'partitioned_table'
    END AS relation_type,
    a.attnotnull AS not_null,
    t.oid = a.atttypid AS is_scalar
FROM pg_catalog.pg_attribute a
JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_type t ON t.oid = to_regtype($1)
WHERE a.atttypid IN (t.oid, t.typarray)
  AND a.attnum > 0
  AND NOT a.attisdropped
  AND c.relkind IN ('r', 'v', 'm', 'f', 'p')
  AND n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY n.nspname, c.relname, a.attnum;
`

// ColumnEntry is a table or view column typed personname (or its array).
type ColumnEntry struct {
	Schema       string `json:"schema"`
	Table        string `json:"table"`
	Column       string `json:"column"`
	RelationType string `json:"relation_type"`
	NotNull      bool   `json:"not_null"`
	Array        bool   `json:"array,omitempty"`
}

// ListColumns returns every column that uses the personname type described by
// cfg. It returns an empty slice when the type is not installed.
func ListColumns(ctx context.Context, pool *pgxpool.Pool, cfg SchemaConfig) ([]ColumnEntry, error) {
	cfg = cfg.withDefaults()

	queryCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.InstallTimeoutSeconds)*time.Second)
	defer cancel()

	rows, err := pool.Query(queryCtx, listColumnsSQL, cfg.qualifiedType())
	if err != nil {
		return nil, fmt.Errorf("ListColumns query failed: %w", err)
	}
	defer rows.Close()

	columns := []ColumnEntry{}
	for rows.Next() {
		var entry ColumnEntry
		var scalar bool
		if err := rows.Scan(&entry.Schema, &entry.Table, &entry.Column, &entry.RelationType, &entry.NotNull, &scalar); err != nil {
			return nil, fmt.Errorf("ListColumns scan failed: %w", err)
		}
		entry.Array = !scalar
		columns = append(columns, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListColumns rows error: %w", err)
	}
	return columns, nil
}
