package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crewfin/internal/backend"
	"crewfin/internal/core"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanService manages the named investment plans and values them against
// the live transaction snapshot. Installments are recorded through the
// transaction service so they flow into the dashboard and the change feed
// like any other expense.
type PlanService struct {
	plans backend.PlanStore
	txs   *TransactionService
	now   func() time.Time
}

func NewPlanService(plans backend.PlanStore, txs *TransactionService) *PlanService {
	return &PlanService{plans: plans, txs: txs, now: time.Now}
}

func (s *PlanService) List(ctx context.Context) ([]core.Plan, error) {
	return s.plans.ListPlans(ctx)
}

func (s *PlanService) Create(ctx context.Context, p core.Plan) (core.Plan, error) {
	if strings.TrimSpace(p.Name) == "" {
		return core.Plan{}, core.ErrEmptyName
	}
	if p.DayOfMonth < 1 || p.DayOfMonth > 28 {
		return core.Plan{}, fmt.Errorf("day of month %d out of range 1-28", p.DayOfMonth)
	}
	p.Active = true
	return s.plans.CreatePlan(ctx, p)
}

func (s *PlanService) Delete(ctx context.Context, id string) error {
	return s.plans.DeletePlan(ctx, id)
}

func (s *PlanService) get(ctx context.Context, id string) (core.Plan, error) {
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return core.Plan{}, fmt.Errorf("list plans: %w", err)
	}
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Plan{}, ErrPlanNotFound
}

// Stats values one plan. currentValue > 0 overrides the NAV estimate with
// a live quote the caller already has.
func (s *PlanService) Stats(ctx context.Context, id string, currentValue float64) (core.Plan, core.PlanStats, error) {
	plan, err := s.get(ctx, id)
	if err != nil {
		return core.Plan{}, core.PlanStats{}, err
	}
	txs, err := s.txs.List(ctx, backend.TxFilter{})
	if err != nil {
		return core.Plan{}, core.PlanStats{}, fmt.Errorf("list transactions: %w", err)
	}
	return plan, core.ComputePlanStats(txs, plan, currentValue), nil
}

// MemberStatus is one member's standing for the current cycle.
type MemberStatus struct {
	Name    string    `json:"name"`
	Paid    bool      `json:"paid"`
	NextDue time.Time `json:"nextDue"`
}

// MemberStatuses reports, per plan member, whether this cycle's
// installment is already paid and when the next one is due.
func (s *PlanService) MemberStatuses(ctx context.Context, id string) ([]MemberStatus, error) {
	plan, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.List(ctx, backend.TxFilter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	asOf := s.now()
	due := core.NextDueDate(plan, asOf)
	out := make([]MemberStatus, 0, len(plan.Members))
	for _, m := range plan.Members {
		out = append(out, MemberStatus{
			Name:    m.Name,
			Paid:    core.InstallmentPaid(txs, plan, m.Name, asOf),
			NextDue: due,
		})
	}
	return out, nil
}

// RecordInstallment books one member's installment as a TEAM expense
// attributed to that member alone, so team contribution charges them and
// nobody else.
func (s *PlanService) RecordInstallment(ctx context.Context, id, member string, amount float64, method core.PaymentMethod) (core.Transaction, error) {
	plan, err := s.get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if strings.TrimSpace(member) == "" {
		return core.Transaction{}, core.ErrEmptyName
	}
	if amount <= 0 {
		return core.Transaction{}, core.ErrNegativeAmount
	}
	if method == "" {
		method = core.BankTransfer
	}

	now := s.now()
	tx := core.Transaction{
		UserName:       member,
		Date:           core.NewDate(now.Year(), int(now.Month()), now.Day()),
		Type:           core.Expense,
		Category:       "SIP",
		Amount:         amount,
		PaymentMethod:  method,
		Description:    "SIP Installment: " + plan.Name,
		InvestmentType: core.Team,
		Investors:      []string{member},
	}
	created, err := s.txs.Create(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record installment for %s: %w", plan.Name, err)
	}
	return created, nil
}
