package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sharein/sharein/internal/apperr"
	"github.com/sharein/sharein/internal/models"
)

const expenseColumns = `
	id, cost, description, group_id, split_equally, created_at, updated_at, version,
	created_by_user_id, created_by_first_name, created_by_last_name, created_by_email,
	updated_by_user_id, updated_by_first_name, updated_by_last_name, updated_by_email`

// CreateExpense persists a new expense and its participant shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = now
	}
	expense.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.Cost.String(),
		expense.Description,
		nullable(expense.GroupID),
		boolToInt(expense.SplitEqually),
		expense.CreatedAt,
		expense.UpdatedAt,
		expense.Version,
		expense.CreatedBy.UserID,
		expense.CreatedBy.FirstName,
		expense.CreatedBy.LastName,
		expense.CreatedBy.Email,
		expense.UpdatedBy.UserID,
		expense.UpdatedBy.FirstName,
		expense.UpdatedBy.LastName,
		expense.UpdatedBy.Email,
	)
	if err != nil {
		return storeErr("insert expense", err)
	}

	if err := insertShares(ctx, tx, expense.ID, expense.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID with its shares in insertion order.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("expense not found")
	}
	if err != nil {
		return nil, err
	}

	if expense.Participants, err = s.loadShares(ctx, id); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense writes the expense back, replacing its share list.
// The write only lands if the caller's version still matches; on success
// the version stamp is bumped in place.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE expenses
		SET cost = ?, description = ?, split_equally = ?, updated_at = ?,
		    updated_by_user_id = ?, updated_by_first_name = ?,
		    updated_by_last_name = ?, updated_by_email = ?,
		    version = version + 1
		WHERE id = ? AND version = ?`,
		expense.Cost.String(),
		expense.Description,
		boolToInt(expense.SplitEqually),
		expense.UpdatedAt,
		expense.UpdatedBy.UserID,
		expense.UpdatedBy.FirstName,
		expense.UpdatedBy.LastName,
		expense.UpdatedBy.Email,
		expense.ID,
		expense.Version,
	)
	if err != nil {
		return storeErr("update expense", err)
	}
	if err := requireVersionedWrite(ctx, tx, res, "expenses", expense.ID, "expense"); err != nil {
		return err
	}

	// Replace the share list wholesale; shares have no identity outside
	// their owning expense.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return storeErr("delete shares", err)
	}
	if err := insertShares(ctx, tx, expense.ID, expense.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	expense.Version++
	return nil
}

// DeleteExpense removes the expense; its shares cascade with it.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return storeErr("delete expense", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete expense", err)
	}
	if n == 0 {
		return apperr.NotFound("expense not found")
	}
	return nil
}

// ListExpensesByGroup returns a group's expenses, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID)
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate expenses", err)
	}

	for _, expense := range expenses {
		if expense.Participants, err = s.loadShares(ctx, expense.ID); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	var (
		expense      models.Expense
		cost         string
		groupID      sql.NullString
		splitEqually int
	)
	err := row.Scan(
		&expense.ID,
		&cost,
		&expense.Description,
		&groupID,
		&splitEqually,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.Version,
		&expense.CreatedBy.UserID,
		&expense.CreatedBy.FirstName,
		&expense.CreatedBy.LastName,
		&expense.CreatedBy.Email,
		&expense.UpdatedBy.UserID,
		&expense.UpdatedBy.FirstName,
		&expense.UpdatedBy.LastName,
		&expense.UpdatedBy.Email,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, storeErr("scan expense", err)
	}

	if expense.Cost, err = scanDecimal("scan cost", cost); err != nil {
		return nil, err
	}
	expense.GroupID = groupID.String
	expense.SplitEqually = splitEqually != 0
	return &expense, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, expenseID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, first_name, last_name, email, paid_share, owed_share, net_balance
		FROM expense_shares
		WHERE expense_id = ?
		ORDER BY position`,
		expenseID)
	if err != nil {
		return nil, storeErr("get shares", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var (
			share           models.Share
			paid, owed, net string
		)
		if err := rows.Scan(
			&share.User.UserID,
			&share.User.FirstName,
			&share.User.LastName,
			&share.User.Email,
			&paid,
			&owed,
			&net,
		); err != nil {
			return nil, storeErr("scan share", err)
		}
		share.UserID = share.User.UserID
		if share.PaidShare, err = scanDecimal("scan paid share", paid); err != nil {
			return nil, err
		}
		if share.OwedShare, err = scanDecimal("scan owed share", owed); err != nil {
			return nil, err
		}
		if share.NetBalance, err = scanDecimal("scan net balance", net); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate shares", err)
	}
	return shares, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expenseID string, shares []models.Share) error {
	for i, share := range shares {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expense_shares
				(expense_id, position, user_id, first_name, last_name, email,
				 paid_share, owed_share, net_balance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expenseID,
			i,
			share.UserID,
			share.User.FirstName,
			share.User.LastName,
			share.User.Email,
			share.PaidShare.String(),
			share.OwedShare.String(),
			share.NetBalance.String(),
		)
		if err != nil {
			return storeErr("insert share", err)
		}
	}
	return nil
}

// requireVersionedWrite checks the outcome of a version-guarded UPDATE:
// zero rows means either the record vanished or a concurrent writer bumped
// the version first.
func requireVersionedWrite(ctx context.Context, tx *sql.Tx, res sql.Result, table, id, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("update "+what, err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return storeErr("update "+what, err)
	}
	if exists == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Conflict("%s was modified concurrently", what)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
