package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
)

// accountTx is the transactional view handed to engine callbacks. All
// statements run on the enclosing *sql.Tx, so either every mutation in
// the callback commits or none do.
type accountTx struct {
	ctx     context.Context
	tx      *sql.Tx
	account domain.Account
}

// Account returns the snapshot read when the transaction began.
func (t *accountTx) Account() domain.Account {
	return t.account
}

// SetBalance persists a new cached balance for the account.
func (t *accountTx) SetBalance(balance int64) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE accounts SET balance = ? WHERE id = ?
	`, balance, t.account.ID)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return requireOneRow(res, "update balance")
}

// SetDailyClaim persists the last successful daily-claim day.
func (t *accountTx) SetDailyClaim(day string) error {
	if strings.TrimSpace(day) == "" {
		return fmt.Errorf("claim day is required")
	}
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE accounts SET last_daily_claim = ? WHERE id = ?
	`, day, t.account.ID)
	if err != nil {
		return fmt.Errorf("update daily claim: %w", err)
	}
	return requireOneRow(res, "update daily claim")
}

// AppendEntry appends an immutable ledger entry for the locked account.
func (t *accountTx) AppendEntry(entry domain.Entry) (domain.Entry, error) {
	if entry.AccountID != t.account.ID {
		return domain.Entry{}, fmt.Errorf("entry account %q does not match transaction account %q", entry.AccountID, t.account.ID)
	}
	if !entry.Reason.Valid() {
		return domain.Entry{}, fmt.Errorf("entry reason is required")
	}

	var metadata any
	if len(entry.Metadata) > 0 {
		metadata = string(entry.Metadata)
	}

	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO ledger_entries (account_id, amount, reason, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.AccountID, entry.Amount, string(entry.Reason), metadata, toMillis(entry.CreatedAt))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Entry{}, fmt.Errorf("ledger entry id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

func requireOneRow(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected != 1 {
		return fmt.Errorf("%s affected %d rows, expected 1", op, affected)
	}
	return nil
}

// RecentEntries returns up to limit entries for the account, newest first.
func (s *Store) RecentEntries(ctx context.Context, accountID string, limit int) ([]domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("account id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, account_id, amount, reason, metadata, created_at
		FROM ledger_entries
		WHERE account_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Entry, 0, limit)
	for rows.Next() {
		var entry domain.Entry
		var reason string
		var metadata sql.NullString
		var createdAt int64
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &reason, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.Reason = domain.Reason(reason)
		if metadata.Valid {
			entry.Metadata = json.RawMessage(metadata.String)
		}
		entry.CreatedAt = fromMillis(createdAt)
		result = append(result, entry)
	}
	return result, rows.Err()
}

// SumEntries recomputes the signed amount sum for one account's entries.
func (s *Store) SumEntries(ctx context.Context, accountID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(accountID) == "" {
		return 0, fmt.Errorf("account id is required")
	}

	var sum int64
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_id = ?
	`, accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	return sum, nil
}
