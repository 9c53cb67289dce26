package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sharein/sharein/internal/models"
)

func share(userID, paid, owed string) models.Share {
	p := decimal.RequireFromString(paid)
	o := decimal.RequireFromString(owed)
	return models.Share{
		User:       models.Identity{UserID: userID, Email: userID + "@x.com"},
		UserID:     userID,
		PaidShare:  p,
		OwedShare:  o,
		NetBalance: p.Sub(o),
	}
}

func TestGroupBalances(t *testing.T) {
	expenses := []*models.Expense{
		{Participants: []models.Share{
			share("alice", "100", "50"),
			share("bob", "0", "50"),
		}},
		{Participants: []models.Share{
			share("bob", "40", "20"),
			share("alice", "0", "20"),
		}},
	}

	balances := GroupBalances(expenses)

	if len(balances) != 2 {
		t.Fatalf("expected 2 members, got %d", len(balances))
	}

	// First-seen order: alice then bob.
	alice, bob := balances[0], balances[1]
	if alice.User.UserID != "alice" || bob.User.UserID != "bob" {
		t.Fatalf("unexpected member order: %s, %s", alice.User.UserID, bob.User.UserID)
	}

	if !alice.TotalPaid.Equal(decimal.RequireFromString("100")) {
		t.Errorf("alice paid = %s, want 100", alice.TotalPaid)
	}
	if !alice.TotalOwed.Equal(decimal.RequireFromString("70")) {
		t.Errorf("alice owed = %s, want 70", alice.TotalOwed)
	}
	if !alice.NetBalance.Equal(decimal.RequireFromString("30")) {
		t.Errorf("alice net = %s, want 30", alice.NetBalance)
	}

	if !bob.NetBalance.Equal(decimal.RequireFromString("-30")) {
		t.Errorf("bob net = %s, want -30", bob.NetBalance)
	}

	// Positions must always reconcile to zero across the group.
	sum := alice.NetBalance.Add(bob.NetBalance)
	if !sum.IsZero() {
		t.Errorf("net balances sum to %s, want 0", sum)
	}
}

func TestGroupBalancesEmpty(t *testing.T) {
	if got := GroupBalances(nil); len(got) != 0 {
		t.Errorf("expected no balances, got %d", len(got))
	}
}
