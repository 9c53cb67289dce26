package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sharein/sharein/internal/apperr"
	"github.com/sharein/sharein/internal/models"
)

const groupColumns = `
	id, name, group_type, updated_at, version,
	creator_user_id, creator_first_name, creator_last_name, creator_email`

// CreateGroup persists a new group and its member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = time.Now().Unix()
	}
	group.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (`+groupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID,
		group.Name,
		group.GroupType,
		group.UpdatedAt,
		group.Version,
		group.Creator.UserID,
		group.Creator.FirstName,
		group.Creator.LastName,
		group.Creator.Email,
	)
	if err != nil {
		return storeErr("insert group", err)
	}

	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

// GetGroup retrieves a group by ID with members in insertion order.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, id)

	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("group not found")
	}
	if err != nil {
		return nil, err
	}

	if group.Members, err = s.loadMembers(ctx, id); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroupMembers replaces the group's member list, guarded by the
// version stamp like expense updates.
func (s *SQLiteStore) UpdateGroupMembers(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE groups
		SET updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		group.UpdatedAt,
		group.ID,
		group.Version,
	)
	if err != nil {
		return storeErr("update group", err)
	}
	if err := requireVersionedWrite(ctx, tx, res, "groups", group.ID, "group"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
		return storeErr("delete members", err)
	}
	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	group.Version++
	return nil
}

// DeleteGroup removes the group; its member list cascades with it.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return storeErr("delete group", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete group", err)
	}
	if n == 0 {
		return apperr.NotFound("group not found")
	}
	return nil
}

// ListGroupsByCreator returns the groups created by the given user,
// oldest first. Membership alone does not surface a group here.
func (s *SQLiteStore) ListGroupsByCreator(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE creator_user_id = ? ORDER BY updated_at, id`,
		userID)
	if err != nil {
		return nil, storeErr("list groups", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate groups", err)
	}

	for _, group := range groups {
		if group.Members, err = s.loadMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func scanGroup(row scanner) (*models.Group, error) {
	var group models.Group
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.GroupType,
		&group.UpdatedAt,
		&group.Version,
		&group.Creator.UserID,
		&group.Creator.FirstName,
		&group.Creator.LastName,
		&group.Creator.Email,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, storeErr("scan group", err)
	}
	return &group, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, first_name, last_name, email
		FROM group_members
		WHERE group_id = ?
		ORDER BY position`,
		groupID)
	if err != nil {
		return nil, storeErr("get members", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.FirstName, &m.LastName, &m.Email); err != nil {
			return nil, storeErr("scan member", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate members", err)
	}
	return members, nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, members []models.Member) error {
	for i, m := range members {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, position, user_id, first_name, last_name, email)
			VALUES (?, ?, ?, ?, ?, ?)`,
			groupID, i, m.UserID, m.FirstName, m.LastName, m.Email,
		)
		if err != nil {
			return storeErr("insert member", err)
		}
	}
	return nil
}
