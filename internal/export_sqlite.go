package internal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the fixture schema of the database at dbPath up to date
func RunMigrations(dbPath string) error {
	// Separate connection so the migrator can close it independently
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// ExportSQLite writes the fixture into a fresh SQLite database at path.
// Amounts are stored as fixed-point text so they stay exact. The database is
// built next to path and renamed into place, so a failed run leaves any
// previous file untouched.
func ExportSQLite(path string, f *Fixture) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fixture-*.db")
	if err != nil {
		return fmt.Errorf("create temp database: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := writeSQLite(tmpPath, f); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("set database permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("move database into place: %w", err)
	}

	slog.Debug("fixture written to sqlite",
		"path", path,
		"transactions", len(f.Transactions),
		"allocations", len(f.BudgetAllocations))
	return nil
}

func writeSQLite(path string, f *Fixture) error {
	if err := RunMigrations(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertFixture(ctx, tx, f); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixture: %w", err)
	}
	return db.Close()
}

func insertFixture(ctx context.Context, tx *sql.Tx, f *Fixture) error {
	for _, a := range f.Accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (name, id, type, is_budget, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			a.Name, a.ID, string(a.Type), a.IsBudget, a.SortOrder, a.CreatedAt.String()); err != nil {
			return fmt.Errorf("insert account %q: %w", a.Name, err)
		}
	}

	for _, c := range f.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, id, emoji, is_header, is_system, sort_order, parent_name) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.ID, c.Emoji, c.IsHeader, c.IsSystem, c.SortOrder, nullString(c.ParentName)); err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}

	for _, m := range f.BudgetMonths {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget_months (month, id, note) VALUES (?, ?, ?)`,
			m.Month.String(), m.ID, m.Note); err != nil {
			return fmt.Errorf("insert budget month %s: %w", m.Month, err)
		}
	}

	allocStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO budget_allocations (id, budgeted, category_name, category_parent, month) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare allocation insert: %w", err)
	}
	defer allocStmt.Close()
	for _, a := range f.BudgetAllocations {
		if _, err := allocStmt.ExecContext(ctx,
			a.ID, a.Budgeted.String(), a.CategoryName, nullString(a.CategoryParent), a.Month.String()); err != nil {
			return fmt.Errorf("insert allocation %s/%s: %w", a.CategoryName, a.Month, err)
		}
	}

	txStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, amount, payee, memo, date, type, is_cleared, account_name, category_name, category_parent, transfer_to_account_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer txStmt.Close()
	for i, t := range f.Transactions {
		if _, err := txStmt.ExecContext(ctx,
			t.ID, t.Amount.String(), t.Payee, t.Memo, t.Date.String(), string(t.Type), t.IsCleared, t.AccountName,
			nullString(t.CategoryName), nullString(t.CategoryParent), nullString(t.TransferToAccountName)); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	for _, p := range f.Payees {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payees (name, id, last_used_date, use_count, last_used_category_name) VALUES (?, ?, ?, ?, ?)`,
			p.Name, p.ID, p.LastUsedDate.String(), p.UseCount, nullString(p.LastUsedCategoryName)); err != nil {
			return fmt.Errorf("insert payee %q: %w", p.Name, err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func init() {
	RegisterExporter("sqlite", ExporterFunc(ExportSQLite))
}
