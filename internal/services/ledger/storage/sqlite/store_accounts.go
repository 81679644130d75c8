package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/louisbranch/bitarcade/internal/platform/timeouts"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage"
)

const accountColumns = "id, balance, role, last_daily_claim, created_at"

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var account domain.Account
	var role string
	var lastClaim sql.NullString
	var createdAt int64

	if err := row.Scan(&account.ID, &account.Balance, &role, &lastClaim, &createdAt); err != nil {
		return domain.Account{}, err
	}

	account.Role = domain.Role(role)
	if lastClaim.Valid {
		account.LastDailyClaim = lastClaim.String
	}
	account.CreatedAt = fromMillis(createdAt)
	return account, nil
}

// CreateAccount inserts a new account record with its cached balance.
func (s *Store) CreateAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("account id is required")
	}

	var lastClaim any
	if account.LastDailyClaim != "" {
		lastClaim = account.LastDailyClaim
	}

	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO accounts (id, balance, role, last_daily_claim, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.Balance, string(account.Role), lastClaim, toMillis(account.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// ProvisionAccount inserts the account row and its opening ledger entry
// under one transaction, so a crash mid-provision leaves no account to
// strand. The opening entry amount must match the account balance.
func (s *Store) ProvisionAccount(ctx context.Context, account domain.Account, opening domain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("account id is required")
	}
	if opening.AccountID != account.ID {
		return fmt.Errorf("opening entry account %q does not match account %q", opening.AccountID, account.ID)
	}
	if opening.Amount != account.Balance {
		return fmt.Errorf("opening entry amount %d does not match balance %d", opening.Amount, account.Balance)
	}
	if !opening.Reason.Valid() {
		return fmt.Errorf("opening entry reason is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin provision transaction: %w", err)
	}

	var lastClaim any
	if account.LastDailyClaim != "" {
		lastClaim = account.LastDailyClaim
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, balance, role, last_daily_claim, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.Balance, string(account.Role), lastClaim, toMillis(account.CreatedAt)); err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return storage.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}

	var metadata any
	if len(opening.Metadata) > 0 {
		metadata = string(opening.Metadata)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (account_id, amount, reason, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, opening.AccountID, opening.Amount, string(opening.Reason), metadata, toMillis(opening.CreatedAt)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert opening entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit provision transaction: %w", err)
	}
	return nil
}

// GetAccount returns one account by id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Account{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(accountID) == "" {
		return domain.Account{}, fmt.Errorf("account id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ?
	`, accountID)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, storage.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// WithAccountTx runs fn under the account's exclusive lock, inside one
// SQLite transaction. The lock spans the whole sequence so the snapshot
// fn sees cannot go stale before commit; the transaction makes the
// sequence all-or-nothing.
func (s *Store) WithAccountTx(ctx context.Context, accountID string, fn func(storage.AccountTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("account id is required")
	}
	if fn == nil {
		return fmt.Errorf("transaction func is required")
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.AccountTx)
	defer cancel()

	unlock := s.locks.lock(accountID)
	defer unlock()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin account transaction: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ?
	`, accountID)
	account, err := scanAccount(row)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("read account: %w", err)
	}

	atx := &accountTx{ctx: ctx, tx: tx, account: account}
	if err := fn(atx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account transaction: %w", err)
	}
	return nil
}

// Leaderboard returns accounts ordered by balance descending, creation
// order breaking ties.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, balance, role FROM accounts
		ORDER BY balance DESC, seq ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	result := make([]storage.LeaderboardRow, 0, limit)
	for rows.Next() {
		var row storage.LeaderboardRow
		var role string
		if err := rows.Scan(&row.AccountID, &row.Balance, &role); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		row.Role = domain.Role(role)
		result = append(result, row)
	}
	return result, rows.Err()
}

// isUniqueViolation detects SQLite unique-constraint failures, checking
// the driver error code first and falling back to the message text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
