package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/term"

	pname "github.com/rickchristie/postgres-pname"
)

// dbCommand holds what every schema subcommand needs.
type dbCommand struct {
	config *pname.ServerConfig
	pool   *pgxpool.Pool
}

// openDB loads the config, resolves the connection string and pings the
// database. The caller closes the pool.
func openDB(ctx context.Context) (*dbCommand, error) {
	serverConfig, err := loadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	connString := os.Getenv("GOPNAME_PG_CONNSTRING")
	if connString == "" {
		username := promptInput("Username: ")
		password := promptPassword("Password: ")
		connString = buildConnString(serverConfig.Connection, username, password)
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}
	return &dbCommand{config: serverConfig, pool: pool}, nil
}

func runInstall() error {
	ctx := context.Background()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.pool.Close()

	logger := setupLogger(db.config.Logging)
	return pname.InstallSchema(ctx, db.pool, db.config.Schema, logger)
}

func runUninstall() error {
	ctx := context.Background()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.pool.Close()

	logger := setupLogger(db.config.Logging)
	return pname.UninstallSchema(ctx, db.pool, db.config.Schema, logger)
}

func runColumns() error {
	ctx := context.Background()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.pool.Close()

	columns, err := pname.ListColumns(ctx, db.pool, db.config.Schema)
	if err != nil {
		return err
	}
	return writeColumns(os.Stdout, columns)
}

func writeColumns(w io.Writer, columns []pname.ColumnEntry) error {
	if columns == nil {
		columns = []pname.ColumnEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(columns)
}

func buildConnString(conn pname.ConnectionConfig, username, password string) string {
	parts := []string{}
	if conn.Host != "" {
		parts = append(parts, fmt.Sprintf("host=%s", conn.Host))
	}
	if conn.Port > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", conn.Port))
	}
	if conn.DBName != "" {
		parts = append(parts, fmt.Sprintf("dbname=%s", conn.DBName))
	}
	if username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", username))
	}
	if password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", password))
	}
	if conn.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", conn.SSLMode))
	}
	return strings.Join(parts, " ")
}

func promptInput(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var input string
	fmt.Scanln(&input)
	return input
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(password)
}
