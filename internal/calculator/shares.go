// Package calculator holds the stateless share and balance arithmetic of
// the ledger. It knows nothing about storage or transport.
package calculator

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// ShareAmounts is the computed financial stake for one participant.
type ShareAmounts struct {
	Paid decimal.Decimal
	Owed decimal.Decimal
	Net  decimal.Decimal
}

// CreatorShare derives the expense creator's own share from the cost and
// split policy. The creator pays the full cost; with an equal split they
// owe half of it, otherwise nothing.
//
//	paid = cost
//	owed = splitEqually ? cost / 2 : 0
//	net  = splitEqually ? paid - owed : 0
func CreatorShare(cost decimal.Decimal, splitEqually bool) ShareAmounts {
	s := ShareAmounts{
		Paid: cost,
		Owed: decimal.Zero,
		Net:  decimal.Zero,
	}
	if splitEqually {
		s.Owed = cost.Div(two)
		s.Net = s.Paid.Sub(s.Owed)
	}
	return s
}
