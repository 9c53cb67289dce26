package service

import (
	"context"
	"testing"

	"github.com/sharein/sharein/internal/apperr"
)

func TestCreateGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")

	group, err := env.groups.Create(context.Background(), alice.ID, "Trip", "Travel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Trip" || group.GroupType != "Travel" {
		t.Errorf("got %q/%q, want Trip/Travel", group.Name, group.GroupType)
	}
	if group.Creator.Email != alice.Email {
		t.Errorf("creator email = %s, want %s", group.Creator.Email, alice.Email)
	}
	if len(group.Members) != 1 {
		t.Fatalf("members = %d, want 1", len(group.Members))
	}
	if group.Members[0].Email != alice.Email {
		t.Errorf("sole member = %s, want creator", group.Members[0].Email)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")

	tests := []struct {
		name      string
		groupName string
		groupType string
	}{
		{"empty name", "", "Travel"},
		{"empty type", "Trip", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.groups.Create(context.Background(), alice.ID, tt.groupName, tt.groupType)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddMember(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")
	bob := env.createUser(t, "Bob", "Ray", "b@x.com")

	group, err := env.groups.Create(context.Background(), alice.ID, "Trip", "Travel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := env.groups.AddMember(context.Background(), bob.ID, group.ID)
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if len(updated.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(updated.Members))
	}
	if updated.Members[1].Email != "b@x.com" {
		t.Errorf("new member appended out of order: %s", updated.Members[1].Email)
	}

	// Adding the same user again is a conflict and leaves the list alone.
	_, err = env.groups.AddMember(context.Background(), bob.ID, group.ID)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	got, err := env.groups.Get(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Errorf("members = %d after conflict, want 2", len(got.Members))
	}
}

func TestAddMemberMissingRecords(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")

	group, err := env.groups.Create(context.Background(), alice.ID, "Trip", "Travel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := env.groups.AddMember(context.Background(), "missing", group.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found for unknown user, got %v", err)
	}
	if _, err := env.groups.AddMember(context.Background(), alice.ID, "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found for unknown group, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")
	bob := env.createUser(t, "Bob", "Ray", "b@x.com")
	carol := env.createUser(t, "Carol", "Lee", "carol@x.com")

	group, err := env.groups.Create(context.Background(), alice.ID, "Trip", "Travel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.groups.AddMember(context.Background(), bob.ID, group.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if _, err := env.groups.AddMember(context.Background(), carol.ID, group.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	removed, updated, err := env.groups.RemoveMember(context.Background(), bob.ID, group.ID)
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if removed.Email != "b@x.com" {
		t.Errorf("removed email = %s, want b@x.com", removed.Email)
	}
	if len(updated.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(updated.Members))
	}

	// Relative order of the survivors is preserved.
	if updated.Members[0].Email != alice.Email || updated.Members[1].Email != carol.Email {
		t.Errorf("unexpected member order: %s, %s", updated.Members[0].Email, updated.Members[1].Email)
	}

	// Removing again is a not-found; list unchanged.
	if _, _, err := env.groups.RemoveMember(context.Background(), bob.ID, group.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
	got, err := env.groups.Get(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Errorf("members = %d, want 2", len(got.Members))
	}

	// A removed user can be added back.
	if _, err := env.groups.AddMember(context.Background(), bob.ID, group.ID); err != nil {
		t.Fatalf("re-adding removed member should succeed: %v", err)
	}
}

func TestDeleteGroupOnlyCreator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")
	bob := env.createUser(t, "Bob", "Ray", "b@x.com")

	group, err := env.groups.Create(context.Background(), alice.ID, "Trip", "Travel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.groups.AddMember(context.Background(), bob.ID, group.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Members who are not the creator cannot delete.
	if _, err := env.groups.Delete(context.Background(), bob.ID, group.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	deleted, err := env.groups.Delete(context.Background(), alice.ID, group.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != group.ID {
		t.Errorf("deleted id = %s, want %s", deleted.ID, group.ID)
	}
	if _, err := env.groups.Get(context.Background(), group.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestListForUserIsCreatorScoped(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")
	bob := env.createUser(t, "Bob", "Ray", "b@x.com")

	mine, err := env.groups.Create(context.Background(), alice.ID, "Mine", "General")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Bob creates a group and adds Alice as a member.
	theirs, err := env.groups.Create(context.Background(), bob.ID, "Theirs", "General")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.groups.AddMember(context.Background(), alice.ID, theirs.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	groups, err := env.groups.ListForUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}

	// Membership alone is insufficient; only created groups show up.
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].ID != mine.ID {
		t.Errorf("listed group = %s, want %s", groups[0].ID, mine.ID)
	}
}

func TestGroupBalancesEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "Alice", "Doe", "alice@x.com")

	group, err := env.groups.Create(context.Background(), alice.ID, "Trip", "Travel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := env.expenses.Create(context.Background(), alice.ID, CreateExpenseInput{
		Cost:         dec(t, "100"),
		Description:  "dinner",
		SplitEqually: true,
		GroupID:      group.ID,
	}); err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	balances, err := env.groups.Balances(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if len(balances) != 1 {
		t.Fatalf("balances = %d, want 1", len(balances))
	}
	if !balances[0].NetBalance.Equal(dec(t, "50")) {
		t.Errorf("net = %s, want 50", balances[0].NetBalance)
	}

	if _, err := env.groups.Balances(context.Background(), "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found for unknown group, got %v", err)
	}
}
