// Package archive mirrors the JSON record store into a SQLite
// database for external reporting tools. The archive is derived data:
// it is rebuilt from the documents whenever it drifts, so it is always
// safe to delete.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
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
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) UpsertMember(ctx context.Context, m core.Member) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (id, name, phone, address, memo, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			address = excluded.address,
			memo = excluded.memo,
			registered_at = excluded.registered_at`,
		m.ID, m.Name, m.Phone, m.Address, m.Memo, m.RegisteredAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert member %d: %w", m.ID, err)
	}
	return nil
}

func (r *Repository) UpsertDonation(ctx context.Context, d core.Donation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO donations (id, type, member_id, amount_won, date, memo, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			type = excluded.type,
			member_id = excluded.member_id,
			amount_won = excluded.amount_won,
			date = excluded.date,
			memo = excluded.memo,
			recorded_at = excluded.recorded_at`,
		d.ID, d.Type, d.MemberID, d.Amount, d.Date.String(), d.Memo,
		d.RecordedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert donation %d: %w", d.ID, err)
	}
	return nil
}

func (r *Repository) UpsertExpense(ctx context.Context, e core.Expense) error {
	var updatedAt any
	if !e.UpdatedAt.IsZero() {
		updatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, category, amount_won, date, vendor, approver, payment_method, description, recorded_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			category = excluded.category,
			amount_won = excluded.amount_won,
			date = excluded.date,
			vendor = excluded.vendor,
			approver = excluded.approver,
			payment_method = excluded.payment_method,
			description = excluded.description,
			recorded_at = excluded.recorded_at,
			updated_at = excluded.updated_at`,
		e.ID, e.Category, e.Amount, e.Date.String(), e.Vendor, e.Approver,
		e.PaymentMethod, e.Description, e.RecordedAt.Format(time.RFC3339), updatedAt)
	if err != nil {
		return fmt.Errorf("upsert expense %d: %w", e.ID, err)
	}
	return nil
}

// DeleteRecord removes one mirrored row.
func (r *Repository) DeleteRecord(ctx context.Context, collection string, id int64) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete %s %d: %w", collection, id, err)
	}
	return nil
}

// Snapshot replaces the whole archive with the given store snapshots
// in one transaction.
func (r *Repository) Snapshot(ctx context.Context, members []core.Member, donations []core.Donation, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"members", "donations", "expenses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, m := range members {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO members (id, name, phone, address, memo, registered_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, m.Name, m.Phone, m.Address, m.Memo, m.RegisteredAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert member %d: %w", m.ID, err)
		}
	}
	for _, d := range donations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO donations (id, type, member_id, amount_won, date, memo, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.Type, d.MemberID, d.Amount, d.Date.String(), d.Memo,
			d.RecordedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert donation %d: %w", d.ID, err)
		}
	}
	for _, e := range expenses {
		var updatedAt any
		if !e.UpdatedAt.IsZero() {
			updatedAt = e.UpdatedAt.Format(time.RFC3339)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (id, category, amount_won, date, vendor, approver, payment_method, description, recorded_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Category, e.Amount, e.Date.String(), e.Vendor, e.Approver,
			e.PaymentMethod, e.Description, e.RecordedAt.Format(time.RFC3339), updatedAt)
		if err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Counts reports the mirrored row counts, for drift checks and logs.
func (r *Repository) Counts(ctx context.Context) (members, donations, expenses int, err error) {
	if err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members").Scan(&members); err != nil {
		return 0, 0, 0, fmt.Errorf("count members: %w", err)
	}
	if err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donations").Scan(&donations); err != nil {
		return 0, 0, 0, fmt.Errorf("count donations: %w", err)
	}
	if err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses").Scan(&expenses); err != nil {
		return 0, 0, 0, fmt.Errorf("count expenses: %w", err)
	}
	return members, donations, expenses, nil
}

// MonthlyNet returns income, expense and net totals per month of one
// year, for reporting tools that query the archive directly.
func (r *Repository) MonthlyNet(ctx context.Context, year int) (map[int][3]int64, error) {
	out := make(map[int][3]int64)
	prefix := fmt.Sprintf("%04d-", year)

	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(substr(date, 6, 2) AS INTEGER) AS month, SUM(amount_won)
		FROM donations WHERE date LIKE ? || '%' GROUP BY month`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query donation months: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var month int
		var total int64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("scan donation month: %w", err)
		}
		v := out[month]
		v[0] = total
		out[month] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("donation months: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT CAST(substr(date, 6, 2) AS INTEGER) AS month, SUM(amount_won)
		FROM expenses WHERE date LIKE ? || '%' GROUP BY month`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query expense months: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var month int
		var total int64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("scan expense month: %w", err)
		}
		v := out[month]
		v[1] = total
		out[month] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expense months: %w", err)
	}

	for month, v := range out {
		v[2] = v[0] - v[1]
		out[month] = v
	}
	return out, nil
}

func tableFor(collection string) (string, error) {
	switch collection {
	case store.CollectionMembers:
		return "members", nil
	case store.CollectionDonations:
		return "donations", nil
	case store.CollectionExpenses:
		return "expenses", nil
	default:
		return "", fmt.Errorf("unknown collection %q", collection)
	}
}
