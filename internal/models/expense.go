package models

import "github.com/shopspring/decimal"

// Share represents one user's stake in one expense: how much they paid,
// how much they owe, and the resulting net balance. A share's lifetime is
// bound to its owning expense.
type Share struct {
	// User is the identity snapshot taken when the share was created.
	User Identity `json:"user"`

	// UserID duplicates User.UserID for direct lookups.
	UserID string `json:"userId"`

	// PaidShare is the amount this user paid toward the expense.
	PaidShare decimal.Decimal `json:"paidShare"`

	// OwedShare is the amount this user owes of the expense.
	OwedShare decimal.Decimal `json:"owedShare"`

	// NetBalance is paid minus owed. Positive means the user is owed
	// money, negative means they owe money.
	NetBalance decimal.Decimal `json:"netBalance"`
}

// Expense represents a single shared cost and the ordered list of
// participant shares it decomposes into.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Cost is the total amount of the expense. Always positive.
	Cost decimal.Decimal `json:"cost"`

	Description string `json:"description"`

	// GroupID scopes the expense to a group. Empty for personal expenses.
	GroupID string `json:"groupId,omitempty"`

	// SplitEqually selects the equal two-way split policy. When false the
	// creator carries the full cost and owes nothing.
	SplitEqually bool `json:"splitEqually"`

	// CreatedBy is the snapshot of the creator taken at creation time.
	// Only this user may update or delete the expense.
	CreatedBy Identity `json:"createdBy"`

	// UpdatedBy is refreshed from the user store on every update, not
	// copied from the possibly stale CreatedBy snapshot.
	UpdatedBy Identity `json:"updatedBy"`

	// Participants holds the shares in participant-addition order.
	// Exactly one share, the creator's, exists at creation time.
	Participants []Share `json:"participants"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`

	// Version is the optimistic-concurrency stamp compared on write.
	Version int64 `json:"version"`
}

// CreatorShare returns the share belonging to the expense creator,
// or nil if it is absent.
func (e *Expense) CreatorShare() *Share {
	for i := range e.Participants {
		if e.Participants[i].UserID == e.CreatedBy.UserID {
			return &e.Participants[i]
		}
	}
	return nil
}
