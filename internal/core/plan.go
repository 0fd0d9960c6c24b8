package core

import (
	"strings"
	"time"
)

type (
	// Plan is a named recurring investment plan. Transactions belong to a
	// plan when their description contains the plan name; there is no
	// foreign key, matching is by substring.
	Plan struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		FundSymbol  string       `json:"fundSymbol,omitempty"`
		TotalAmount float64      `json:"totalAmount"`
		SplitType   string       `json:"splitType"`
		DayOfMonth  int          `json:"dayOfMonth"`
		GoalTarget  float64      `json:"goalTarget,omitempty"`
		CurrentNav  float64      `json:"currentNav,omitempty"`
		Active      bool         `json:"active"`
		Members     []PlanMember `json:"members,omitempty"`
	}

	// PlanMember is one participant in a plan's monthly split.
	PlanMember struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// PlanStats is the derived valuation of a plan against the current
	// transaction snapshot.
	PlanStats struct {
		Invested   float64 `json:"invested"`
		LiveValue  float64 `json:"liveValue"`
		Growth     float64 `json:"growth"`
		GrowthPct  float64 `json:"growthPct"`
		TxCount    int     `json:"txCount"`
		GoalPct    float64 `json:"goalPct,omitempty"`
	}
)

// defaultNav stands in when a plan carries no NAV; units are estimated at
// a 10% haircut on the quoted NAV, same rule the dashboard always used.
const defaultNav = 100

// PlanTransactions returns the transactions associated with the plan by
// description substring match, preserving input order.
func PlanTransactions(txs []Transaction, p Plan) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if strings.Contains(t.Description, p.Name) {
			out = append(out, t)
		}
	}
	return out
}

// ComputePlanStats values a plan against the snapshot. Invested is the sum
// of matched transaction amounts; live value is estimated from units
// bought at 90% of NAV unless a current value override is given (>0).
func ComputePlanStats(txs []Transaction, p Plan, currentValue float64) PlanStats {
	matched := PlanTransactions(txs, p)

	var invested float64
	for _, t := range matched {
		invested += t.Amount
	}

	nav := p.CurrentNav
	if nav <= 0 {
		nav = defaultNav
	}
	units := invested / (nav * 0.9)
	live := currentValue
	if live <= 0 {
		live = units * nav
	}

	stats := PlanStats{
		Invested:  invested,
		LiveValue: live,
		Growth:    live - invested,
		TxCount:   len(matched),
	}
	if invested > 0 {
		stats.GrowthPct = stats.Growth / invested * 100
	}
	if p.GoalTarget > 0 {
		stats.GoalPct = invested / p.GoalTarget * 100
		if stats.GoalPct > 100 {
			stats.GoalPct = 100
		}
	}
	return stats
}

// InstallmentPaid reports whether the member has already paid the plan's
// installment for the cycle containing asOf. A payment counts when its
// description mentions the plan (case-insensitive), it names the member as
// investor or creator, and it falls in the current cycle's month.
func InstallmentPaid(txs []Transaction, p Plan, member string, asOf time.Time) bool {
	year, month := asOf.Year(), asOf.Month()
	needle := strings.ToLower(p.Name)
	for _, t := range txs {
		if !strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		if !t.Date.InMonth(year, month) {
			continue
		}
		if t.UserName == member {
			return true
		}
		for _, inv := range t.Investors {
			if inv == member {
				return true
			}
		}
	}
	return false
}

// NextDueDate returns the plan's next installment date on or after asOf.
func NextDueDate(p Plan, asOf time.Time) time.Time {
	due := time.Date(asOf.Year(), asOf.Month(), p.DayOfMonth, 0, 0, 0, 0, time.UTC)
	if asOf.Day() > p.DayOfMonth {
		due = due.AddDate(0, 1, 0)
	}
	return due
}
