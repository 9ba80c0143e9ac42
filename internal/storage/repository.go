// Package storage persists the ledger in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"fintrack/internal/core"
	ports "fintrack/internal/source"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ ports.TransactionReader   = (*SQLiteRepository)(nil)
	_ ports.TransactionAppender = (*SQLiteRepository)(nil)
	_ ports.CategoryReader      = (*SQLiteRepository)(nil)
)

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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements source.TransactionAppender.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (tx_date, description, amount_cents, tx_type, category)
		 VALUES (?, ?, ?, ?, ?)`,
		formatDate(tx.Date), tx.Description, tx.Amount.Cents, string(tx.Type), tx.Category)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents,
		"type", string(tx.Type),
		"category", tx.Category)

	return strconv.FormatInt(id, 10), nil
}

// ListTransactions implements source.TransactionReader. Rows come back in
// chronological order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tx_date, description, amount_cents, tx_type, category
		 FROM transactions ORDER BY tx_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			date   string
			tx     core.Transaction
			txType string
		)
		if err := rows.Scan(&date, &tx.Description, &tx.Amount.Cents, &txType, &tx.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TxType(txType)
		tx.Date, err = parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Categories implements source.CategoryReader.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, monthly_budget_cents FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.Name, &c.MonthlyBudget.Cents); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// UpsertCategory creates a category or updates its budget.
func (r *SQLiteRepository) UpsertCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, monthly_budget_cents) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET monthly_budget_cents = excluded.monthly_budget_cents`,
		c.Name, c.MonthlyBudget.Cents)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

func formatDate(d core.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

func parseDate(s string) (core.Date, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day); err != nil {
		return core.Date{}, err
	}
	d := core.NewDate(year, month, day)
	if err := d.Validate(); err != nil {
		return core.Date{}, err
	}
	return d, nil
}
