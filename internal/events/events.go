// Package events defines the ledger's outbound event side-channel.
// Publishing is best-effort: a failed publish is logged by the caller and
// never fails the originating request.
package events

import "context"

// Topics the ledger emits on.
const (
	TopicExpenseCreated   = "expense.created"
	TopicExpenseDeleted   = "expense.deleted"
	TopicGroupMemberAdded = "group.member_added"
)

// ExpenseEvent is the payload for expense lifecycle events.
type ExpenseEvent struct {
	ExpenseID   string `json:"expenseId"`
	GroupID     string `json:"groupId,omitempty"`
	Cost        string `json:"cost"`
	Description string `json:"description"`
	ActorID     string `json:"actorId"`
	OccurredAt  int64  `json:"occurredAt"`
}

// MemberEvent is the payload for group membership events.
type MemberEvent struct {
	GroupID    string `json:"groupId"`
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	OccurredAt int64  `json:"occurredAt"`
}

// Publisher emits domain events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// NopPublisher discards every event. Used when no broker is configured
// and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }
