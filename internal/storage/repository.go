package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"spendy/internal/core"
)

// SQLiteRepository is the local relational store. Foreign keys are enforced
// per connection, so deleting a category cascades to its transactions and
// budgets here, not in application code.
type SQLiteRepository struct {
	db *sql.DB
}

var ErrNotFound = errors.New("not found")

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

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
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

// ListTransactions returns all transactions, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, currency, category, method, occurred_at, merchant, note, ai_comment
		FROM transactions
		ORDER BY occurred_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTransaction fetches one transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount, currency, category, method, occurred_at, merchant, note, ai_comment
		FROM transactions
		WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// UpsertTransaction inserts or fully replaces the row with the same id.
func (r *SQLiteRepository) UpsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, currency, category, method, occurred_at, merchant, note, ai_comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount=excluded.amount,
			currency=excluded.currency,
			category=excluded.category,
			method=excluded.method,
			occurred_at=excluded.occurred_at,
			merchant=excluded.merchant,
			note=excluded.note,
			ai_comment=excluded.ai_comment`,
		t.ID, t.Amount, t.Currency, t.Category, t.Method,
		t.OccurredAt.UnixMilli(), t.Merchant, t.Note, t.AIComment)
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"amount", t.Amount,
		"category", t.Category)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// SetTransactionComment stores the generated commentary for a transaction.
func (r *SQLiteRepository) SetTransactionComment(ctx context.Context, id, comment string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET ai_comment = ? WHERE id = ?`, comment, id)
	if err != nil {
		return fmt.Errorf("set transaction comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction comment stored", "id", id)
	return nil
}

// ListTransactionsMissingComment returns recent transactions that still
// have no commentary, for the worker's backup scan.
func (r *SQLiteRepository) ListTransactionsMissingComment(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, currency, category, method, occurred_at, merchant, note, ai_comment
		FROM transactions
		WHERE ai_comment = ''
		ORDER BY occurred_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions missing comment: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListCategories returns all categories sorted by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, icon_name, color FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.Name, &c.Icon, &c.ColorKey); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, icon_name, color)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			icon_name=excluded.icon_name,
			color=excluded.color`,
		c.Name, c.Icon, c.ColorKey)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	slog.InfoContext(ctx, "Category saved", "name", c.Name)
	return nil
}

// DeleteCategory removes the category; the foreign-key cascade removes its
// transactions and budgets in the same statement.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	slog.InfoContext(ctx, "Category deleted with cascade", "name", name)
	return nil
}

// ListBudgets returns all budgets, newest month first, category ascending
// within a month.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, month_key, amount
		FROM budgets
		ORDER BY month_key DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.Category, &b.MonthKey, &b.Amount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertBudget inserts or replaces the single row for (category, monthKey)
// and returns the stored budget.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, category, month_key, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category, month_key) DO UPDATE SET
			amount=excluded.amount`,
		uuid.NewString(), b.Category, b.MonthKey, b.Amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget saved",
		"category", b.Category,
		"month_key", b.MonthKey,
		"amount", b.Amount)
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, category string, monthKey int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE category = ? AND month_key = ?`, category, monthKey)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget deleted", "category", category, "month_key", monthKey)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		occurredMs int64
	)
	if err := row.Scan(&t.ID, &t.Amount, &t.Currency, &t.Category, &t.Method,
		&occurredMs, &t.Merchant, &t.Note, &t.AIComment); err != nil {
		return core.Transaction{}, err
	}
	t.OccurredAt = time.UnixMilli(occurredMs).UTC()
	return t, nil
}
