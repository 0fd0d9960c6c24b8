package core

import (
	"sort"
	"time"
)

// The aggregation functions in this file are pure: they read a snapshot of
// transactions (plus the user roster) and produce dashboard-ready values.
// They never fail: malformed records degrade per view instead of aborting
// the whole computation. A record with an unknown date is excluded from
// every date-bucketed figure but still counts toward lifetime totals.

const maxCategories = 6

type (
	// DashboardStats holds the headline totals for the dashboard cards.
	// Balance is lifetime income minus lifetime expense, unbounded by period.
	DashboardStats struct {
		TotalIncome  float64 `json:"totalIncome"`
		TotalExpense float64 `json:"totalExpense"`
		Balance      float64 `json:"balance"`
		TodayIncome  float64 `json:"todayIncome"`
		TodayExpense float64 `json:"todayExpense"`
		MonthIncome  float64 `json:"monthIncome"`
		MonthExpense float64 `json:"monthExpense"`
		YearIncome   float64 `json:"yearIncome"`
		YearExpense  float64 `json:"yearExpense"`
	}

	// MonthPoint is one slot of the annual cashflow chart.
	MonthPoint struct {
		Month   time.Month `json:"month"`
		Label   string     `json:"label"`
		Income  float64    `json:"income"`
		Expense float64    `json:"expense"`
	}

	// CategoryAmount is one slice of the expense category breakdown.
	CategoryAmount struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// MemberSpend is one bar of the team contribution chart.
	MemberSpend struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// ChannelFlow is the signed net cash flow through one payment channel.
	ChannelFlow struct {
		Method PaymentMethod `json:"method"`
		Net    float64       `json:"net"`
	}
)

// PeriodTotals classifies every transaction against asOf into today / this
// month / this year buckets and accumulates income and expense per bucket.
// A single transaction may land in several buckets at once; it is never
// counted twice within the same bucket.
func PeriodTotals(txs []Transaction, asOf time.Time) DashboardStats {
	var s DashboardStats
	for _, t := range txs {
		today := t.Date.SameDay(asOf)
		month := t.Date.SameMonth(asOf)
		year := t.Date.SameYear(asOf)

		switch t.Type {
		case Income:
			s.TotalIncome += t.Amount
			if today {
				s.TodayIncome += t.Amount
			}
			if month {
				s.MonthIncome += t.Amount
			}
			if year {
				s.YearIncome += t.Amount
			}
		case Expense:
			s.TotalExpense += t.Amount
			if today {
				s.TodayExpense += t.Amount
			}
			if month {
				s.MonthExpense += t.Amount
			}
			if year {
				s.YearExpense += t.Amount
			}
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// MonthlySeries produces exactly twelve entries, January through December,
// zero-initialized so every month renders even with no data. Only
// transactions dated in the given year contribute.
func MonthlySeries(txs []Transaction, year int) []MonthPoint {
	series := make([]MonthPoint, 12)
	for i := range series {
		m := time.Month(i + 1)
		series[i] = MonthPoint{Month: m, Label: m.String()[:3]}
	}
	for _, t := range txs {
		if !t.Date.InYear(year) {
			continue
		}
		p := &series[int(t.Date.Month())-1]
		switch t.Type {
		case Income:
			p.Income += t.Amount
		case Expense:
			p.Expense += t.Amount
		}
	}
	return series
}

// CategoryBreakdown sums expenses per exact category string, without any
// trimming or case folding, and returns the top entries sorted descending.
// Ties keep first-encountered order. Income is ignored; an all-income
// snapshot yields an empty slice.
func CategoryBreakdown(txs []Transaction) []CategoryAmount {
	totals := make(map[string]float64)
	var order []string
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	if len(out) > maxCategories {
		out = out[:maxCategories]
	}
	return out
}

// TeamContribution attributes every expense to the people who carried it.
// The roster seeds a zero entry per user name so members with no spending
// still appear. A transaction with named investors is split evenly among
// them; otherwise the full amount goes to the creator, or to "Unknown"
// when the creator name is missing. Investor names absent from the roster
// (renamed or deleted users) get their own entries on first occurrence.
// Income is excluded: this measures spending only.
//
// The sum of all returned amounts equals the sum of all expense amounts,
// up to floating-point representation error.
func TeamContribution(txs []Transaction, users []User) []MemberSpend {
	totals := make(map[string]float64, len(users))
	var order []string
	add := func(name string, amount float64) {
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += amount
	}

	for _, u := range users {
		add(u.Name, 0)
	}

	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		if len(t.Investors) > 0 {
			share := t.Amount / float64(len(t.Investors))
			for _, name := range t.Investors {
				add(name, share)
			}
			continue
		}
		name := t.UserName
		if name == "" {
			name = "Unknown"
		}
		add(name, t.Amount)
	}

	out := make([]MemberSpend, 0, len(order))
	for _, name := range order {
		out = append(out, MemberSpend{Name: name, Amount: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// MonthRange returns a predicate matching dates in the given year+month.
func MonthRange(year int, month time.Month) func(Date) bool {
	return func(d Date) bool { return d.InMonth(year, month) }
}

// YearRange returns a predicate matching dates in the given year.
func YearRange(year int) func(Date) bool {
	return func(d Date) bool { return d.InYear(year) }
}

// ChannelSummary nets the cash flow per payment channel for the
// transactions selected by inRange and, when method is non-empty, by exact
// payment-method match. Income adds, expense subtracts. Channels with no
// matching transactions are omitted rather than zero-seeded, and rows come
// out in PaymentMethods order: the same snapshot and filter always yield
// the same figures, which statement generation relies on.
func ChannelSummary(txs []Transaction, inRange func(Date) bool, method PaymentMethod) []ChannelFlow {
	nets := make(map[PaymentMethod]float64)
	for _, t := range txs {
		if inRange != nil && !inRange(t.Date) {
			continue
		}
		if method != "" && t.PaymentMethod != method {
			continue
		}
		switch t.Type {
		case Income:
			nets[t.PaymentMethod] += t.Amount
		case Expense:
			nets[t.PaymentMethod] -= t.Amount
		}
	}

	out := make([]ChannelFlow, 0, len(nets))
	for _, m := range PaymentMethods {
		if net, ok := nets[m]; ok {
			out = append(out, ChannelFlow{Method: m, Net: net})
		}
	}
	// Unknown channel values from upstream still show up, after the known
	// ones, ordered by name to keep the output deterministic.
	var unknown []PaymentMethod
	for m := range nets {
		if !m.Valid() {
			unknown = append(unknown, m)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, m := range unknown {
		out = append(out, ChannelFlow{Method: m, Net: nets[m]})
	}
	return out
}
