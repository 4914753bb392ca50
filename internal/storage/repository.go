package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"upidash/internal/core"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var snapshotMigrations embed.FS

// TransactionsTable is the table a snapshot keeps its rows in.
const TransactionsTable = "transactions"

// Record is a raw snapshot row; values are validated by the caller exactly
// like CSV fields.
type Record struct {
	ID       int64
	DateTime string
	Date     string
	Amount   string
	Type     string
	Category string
	Merchant string
}

// SQLiteRepository reads and writes transaction snapshots.
type SQLiteRepository struct {
	db            *sql.DB
	schemaVersion uint
}

// NewSQLiteRepository opens (creating if needed) a writable snapshot and
// brings its schema up to the latest migration.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateSnapshot(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, schemaVersion: version}, nil
}

// migrateSnapshot applies the embedded migrations and returns the schema
// version the file ends up at. The migrator closes its database handle, so it
// gets its own connection rather than the repository's pool.
func migrateSnapshot(dbPath string) (uint, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open snapshot for migration: %w", err)
	}
	defer conn.Close()

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("snapshot migration driver: %w", err)
	}
	src, err := iofs.New(snapshotMigrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("snapshot migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("snapshot migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate snapshot %s: %w", dbPath, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("snapshot schema version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("snapshot %s: schema version %d is dirty", dbPath, version)
	}
	return version, nil
}

// SchemaVersion is the migration the snapshot was brought to when opened for
// writing. Read-only snapshots report 0.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.schemaVersion
}

// OpenSnapshot opens an existing snapshot for reading. It never creates the
// file and never migrates it.
func OpenSnapshot(dbPath string) (*SQLiteRepository, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Columns returns the column names of the transactions table. A missing
// table yields an empty slice.
func (r *SQLiteRepository) Columns(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", TransactionsTable)
	if err != nil {
		return nil, fmt.Errorf("read table info: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// ListTransactions returns every snapshot row in insertion order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rowid, CAST(datetime AS TEXT), CAST(date AS TEXT), CAST(amount AS TEXT),
		       CAST(type AS TEXT), CAST(category AS TEXT), CAST(merchant AS TEXT)
		FROM transactions
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var dt, d, amt, typ, cat, merch sql.NullString
		if err := rows.Scan(&rec.ID, &dt, &d, &amt, &typ, &cat, &merch); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.DateTime, rec.Date, rec.Amount = dt.String, d.String, amt.String
		rec.Type, rec.Category, rec.Merchant = typ.String, cat.String, merch.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// ReplaceTransactions swaps the snapshot contents for rows in one
// transaction and records where they came from.
func (r *SQLiteRepository) ReplaceTransactions(ctx context.Context, source string, rows []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (datetime, date, amount, type, category, merchant)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range rows {
		if _, err := stmt.ExecContext(ctx,
			t.DateTime.Format(time.RFC3339Nano),
			t.Date.String(),
			t.Amount.String(),
			t.Type,
			t.Category,
			t.Merchant,
		); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshot_meta (source, row_count, created_at) VALUES (?, ?, ?)",
		source, len(rows), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("record snapshot metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot written", "source", source, "rows", len(rows))
	return nil
}

// LastSnapshotSource returns the source recorded by the latest
// ReplaceTransactions call, or "" when none exists.
func (r *SQLiteRepository) LastSnapshotSource(ctx context.Context) (string, error) {
	var source string
	err := r.db.QueryRowContext(ctx,
		"SELECT source FROM snapshot_meta ORDER BY id DESC LIMIT 1").Scan(&source)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read snapshot metadata: %w", err)
	}
	return source, nil
}
