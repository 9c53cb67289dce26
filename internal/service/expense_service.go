package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sharein/sharein/internal/apperr"
	"github.com/sharein/sharein/internal/calculator"
	"github.com/sharein/sharein/internal/events"
	"github.com/sharein/sharein/internal/models"
	"github.com/sharein/sharein/internal/storage"
)

// ExpenseService implements the expense side of the ledger: creating a
// shared cost, revising it under creator-only authorization, and removing
// it together with its shares.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewExpenseService creates an ExpenseService with the given backends.
func NewExpenseService(store storage.Store, publisher events.Publisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// CreateExpenseInput carries the fields of an expense-creation request.
type CreateExpenseInput struct {
	Cost         decimal.Decimal
	Description  string
	SplitEqually bool
	GroupID      string
}

// UpdateExpenseInput carries an expense patch. Nil fields keep their
// prior values.
type UpdateExpenseInput struct {
	Cost         *decimal.Decimal
	Description  *string
	SplitEqually *bool
}

// Create records a new expense for the acting user. The creator pays the
// full cost and, under an equal split, owes half of it; the expense starts
// with exactly the creator's share.
func (s *ExpenseService) Create(ctx context.Context, actorID string, in CreateExpenseInput) (*models.Expense, error) {
	var fields []apperr.FieldError
	if !in.Cost.IsPositive() {
		fields = append(fields, apperr.FieldError{Field: "cost", Message: "cost cannot be zero or negative"})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, apperr.FieldError{Field: "description", Message: "description cannot be empty"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	creator, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	amounts := calculator.CreatorShare(in.Cost, in.SplitEqually)
	snapshot := creator.Snapshot()

	expense := &models.Expense{
		Cost:         in.Cost,
		Description:  in.Description,
		GroupID:      in.GroupID,
		SplitEqually: in.SplitEqually,
		CreatedBy:    snapshot,
		UpdatedBy:    snapshot,
		Participants: []models.Share{{
			User:       snapshot,
			UserID:     creator.ID,
			PaidShare:  amounts.Paid,
			OwedShare:  amounts.Owed,
			NetBalance: amounts.Net,
		}},
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicExpenseCreated, expenseEvent(expense, actorID))
	return expense, nil
}

// Get retrieves an expense by id.
func (s *ExpenseService) Get(ctx context.Context, id string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// Update merges the supplied fields into the expense. Only the original
// creator may update. While the creator's share is the only one on the
// expense, cost and split-policy edits re-derive it from the new values;
// once other participants hold shares those two fields are frozen.
func (s *ExpenseService) Update(ctx context.Context, actorID, id string, in UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy.UserID != actorID {
		return nil, apperr.Forbidden("you are not authorized to perform this task")
	}

	costChanged := in.Cost != nil && !in.Cost.Equal(expense.Cost)
	splitChanged := in.SplitEqually != nil && *in.SplitEqually != expense.SplitEqually

	var fields []apperr.FieldError
	if in.Cost != nil && !in.Cost.IsPositive() {
		fields = append(fields, apperr.FieldError{Field: "cost", Message: "cost cannot be zero or negative"})
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		fields = append(fields, apperr.FieldError{Field: "description", Message: "description cannot be empty"})
	}
	if (costChanged || splitChanged) && len(expense.Participants) > 1 {
		field := "cost"
		if !costChanged {
			field = "splitEqually"
		}
		fields = append(fields, apperr.FieldError{
			Field:   field,
			Message: "cannot change the amount split once other participants hold shares",
		})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	// Merge only what was supplied.
	if in.Cost != nil {
		expense.Cost = *in.Cost
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.SplitEqually != nil {
		expense.SplitEqually = *in.SplitEqually
	}

	// Snapshot the actor fresh from the user store, not from the stale
	// creator field.
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	expense.UpdatedBy = actor.Snapshot()
	expense.UpdatedAt = time.Now().Unix()

	if costChanged || splitChanged {
		amounts := calculator.CreatorShare(expense.Cost, expense.SplitEqually)
		if share := expense.CreatorShare(); share != nil {
			share.PaidShare = amounts.Paid
			share.OwedShare = amounts.Owed
			share.NetBalance = amounts.Net
		}
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense and its shares. Only the original creator may
// delete; the removal is a hard delete.
func (s *ExpenseService) Delete(ctx context.Context, actorID, id string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy.UserID != actorID {
		return nil, apperr.Forbidden("you are not authorized to perform this task")
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicExpenseDeleted, expenseEvent(expense, actorID))
	return expense, nil
}

// publish emits an event without ever failing the request.
func (s *ExpenseService) publish(ctx context.Context, topic string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

func expenseEvent(e *models.Expense, actorID string) events.ExpenseEvent {
	return events.ExpenseEvent{
		ExpenseID:   e.ID,
		GroupID:     e.GroupID,
		Cost:        e.Cost.String(),
		Description: e.Description,
		ActorID:     actorID,
		OccurredAt:  time.Now().Unix(),
	}
}
