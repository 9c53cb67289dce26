// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/sharein/sharein/internal/models"
)

// Store defines the persistence adapter the ledger core runs against.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// a document store, etc.) without changing the service layer.
//
// Lookup methods return an error of kind apperr.KindNotFound when the
// requested document is absent; any underlying driver failure surfaces as
// apperr.KindStore and is never retried here. Update and delete methods on
// versioned records compare the caller's version stamp and report
// apperr.KindConflict when another writer got there first.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID resolves a user id to the live account record. This is
	// the identity resolver used to build identity snapshots.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by their unique email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateExpense persists a new expense with its participant shares.
	// ID, timestamps, and version are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by id, shares in insertion order.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// UpdateExpense writes the expense back, replacing its share list.
	// The write succeeds only if expense.Version still matches the stored
	// row; on success the version is bumped in place.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes the expense and its shares.
	DeleteExpense(ctx context.Context, id string) error

	// ListExpensesByGroup returns a group's expenses, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateGroup persists a new group with its member list.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by id, members in insertion order.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// UpdateGroupMembers replaces the group's member list, version-checked
	// like UpdateExpense.
	UpdateGroupMembers(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group and its member list.
	DeleteGroup(ctx context.Context, id string) error

	// ListGroupsByCreator returns the groups created by the given user.
	// Membership alone does not make a group visible here.
	ListGroupsByCreator(ctx context.Context, userID string) ([]*models.Group, error)

	// Close releases any resources held by the store.
	Close() error
}
