package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/sharein/sharein/internal/models"
)

// MemberBalance aggregates one member's position across a set of expenses.
type MemberBalance struct {
	User       models.Identity `json:"user"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
	NetBalance decimal.Decimal `json:"netBalance"`
}

// GroupBalances sums the recorded shares of the given expenses per member.
// It works purely from persisted shares, never re-deriving splits, so the
// result always reflects what the ledger actually recorded.
//
// Members appear in first-seen order across the expense list.
func GroupBalances(expenses []*models.Expense) []MemberBalance {
	index := make(map[string]int)
	var balances []MemberBalance

	for _, exp := range expenses {
		for _, share := range exp.Participants {
			i, ok := index[share.UserID]
			if !ok {
				i = len(balances)
				index[share.UserID] = i
				balances = append(balances, MemberBalance{
					User:       share.User,
					TotalPaid:  decimal.Zero,
					TotalOwed:  decimal.Zero,
					NetBalance: decimal.Zero,
				})
			}
			balances[i].TotalPaid = balances[i].TotalPaid.Add(share.PaidShare)
			balances[i].TotalOwed = balances[i].TotalOwed.Add(share.OwedShare)
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid.Sub(balances[i].TotalOwed)
	}
	return balances
}
