package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sharein/sharein/internal/apperr"
	"github.com/sharein/sharein/internal/calculator"
	"github.com/sharein/sharein/internal/events"
	"github.com/sharein/sharein/internal/models"
	"github.com/sharein/sharein/internal/storage"
)

// GroupService implements group lifecycle and membership mutation.
// Membership is keyed by email: no two members of a group share one.
type GroupService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewGroupService creates a GroupService with the given backends.
func NewGroupService(store storage.Store, publisher events.Publisher) *GroupService {
	return &GroupService{store: store, publisher: publisher}
}

// Create makes a new group with the acting user as creator and sole
// initial member.
func (s *GroupService) Create(ctx context.Context, actorID, name, groupType string) (*models.Group, error) {
	var fields []apperr.FieldError
	if strings.TrimSpace(name) == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "group name cannot be empty"})
	}
	if strings.TrimSpace(groupType) == "" {
		fields = append(fields, apperr.FieldError{Field: "groupType", Message: "group type cannot be empty"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	creator, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	member := models.Member{Identity: creator.Snapshot()}
	group := &models.Group{
		Name:      name,
		GroupType: groupType,
		Members:   []models.Member{member},
		Creator:   member,
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Get retrieves a group by id.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListForUser returns the groups the user created. Being a member of a
// group someone else created does not surface it here.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByCreator(ctx, userID)
}

// Delete removes a group. Only its creator may delete it.
func (s *GroupService) Delete(ctx context.Context, actorID, id string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.Creator.UserID != actorID {
		return nil, apperr.Forbidden("you are not authorized to perform this action")
	}

	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return nil, err
	}
	return group, nil
}

// AddMember appends a snapshot of the user to the group's member list.
// Fails with a conflict if the user's email is already a member.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID string) (*models.Group, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.MemberByEmail(user.Email) >= 0 {
		return nil, apperr.Conflict("user is already a member of the group")
	}

	group.Members = append(group.Members, models.Member{Identity: user.Snapshot()})
	group.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateGroupMembers(ctx, group); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicGroupMemberAdded, events.MemberEvent{
		GroupID:    group.ID,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now().Unix(),
	})
	return group, nil
}

// RemoveMember removes the user's snapshot from the group, preserving the
// relative order of the remaining members. Returns the removed entry
// alongside the updated group.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID string) (*models.Member, *models.Group, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	i := group.MemberByEmail(user.Email)
	if i < 0 {
		return nil, nil, apperr.NotFound("user is not a member of the group")
	}

	removed := group.Members[i]
	group.Members = append(group.Members[:i], group.Members[i+1:]...)
	group.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateGroupMembers(ctx, group); err != nil {
		return nil, nil, err
	}
	return &removed, group, nil
}

// Balances aggregates the recorded shares of the group's expenses into a
// per-member paid/owed/net summary.
func (s *GroupService) Balances(ctx context.Context, groupID string) ([]calculator.MemberBalance, error) {
	// Resolve the group first so an unknown id is a not-found, not an
	// empty balance sheet.
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.GroupBalances(expenses), nil
}

func (s *GroupService) publish(ctx context.Context, topic string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
