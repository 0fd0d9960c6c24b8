package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"crewfin/internal/amqp"
	"crewfin/internal/backend"
	"crewfin/internal/core"
	"crewfin/internal/storage"
)

// Statement is the full figure set behind a financial statement: headline
// totals, the per-channel breakdown, and the rows themselves. The same
// snapshot and filter always produce the same statement, which is what
// makes the archive auditable.
type Statement struct {
	ID            string             `json:"id"`
	PeriodYear    int                `json:"periodYear"`
	PeriodMonth   time.Month         `json:"periodMonth,omitempty"` // 0 = whole year
	PaymentMethod core.PaymentMethod `json:"paymentMethod,omitempty"`
	TotalIncome   float64            `json:"totalIncome"`
	TotalExpense  float64            `json:"totalExpense"`
	NetBalance    float64            `json:"netBalance"`
	Channels      []core.ChannelFlow `json:"channels"`
	Transactions  []core.Transaction `json:"transactions"`
	GeneratedAt   time.Time          `json:"generatedAt"`
}

// ReportService builds statements and archives their figures locally.
// A nil archive disables archiving; a nil AMQP client disables the
// statement-recorded announcement.
type ReportService struct {
	store   backend.TransactionStore
	archive *storage.SQLiteRepository
	events  *amqp.Client
	now     func() time.Time
}

func NewReportService(store backend.TransactionStore, archive *storage.SQLiteRepository, events *amqp.Client) *ReportService {
	return &ReportService{store: store, archive: archive, events: events, now: time.Now}
}

// BuildStatement computes the statement for a period. month == 0 selects
// the whole year; method == "" keeps all channels.
func (s *ReportService) BuildStatement(ctx context.Context, year int, month time.Month, method core.PaymentMethod) (Statement, error) {
	txs, err := s.store.ListTransactions(ctx, backend.TxFilter{})
	if err != nil {
		return Statement{}, fmt.Errorf("list transactions: %w", err)
	}

	inRange := core.YearRange(year)
	if month != 0 {
		inRange = core.MonthRange(year, month)
	}

	var rows []core.Transaction
	for _, t := range txs {
		if !inRange(t.Date) {
			continue
		}
		if method != "" && t.PaymentMethod != method {
			continue
		}
		rows = append(rows, t)
	}

	st := Statement{
		ID:            uuid.NewString(),
		PeriodYear:    year,
		PeriodMonth:   month,
		PaymentMethod: method,
		Channels:      core.ChannelSummary(txs, inRange, method),
		Transactions:  rows,
		GeneratedAt:   s.now(),
	}
	for _, t := range rows {
		switch t.Type {
		case core.Income:
			st.TotalIncome += t.Amount
		case core.Expense:
			st.TotalExpense += t.Amount
		}
	}
	st.NetBalance = st.TotalIncome - st.TotalExpense

	return st, nil
}

// RecordStatement builds a statement and archives its figures. The rows
// are not persisted, only the numbers the document states.
func (s *ReportService) RecordStatement(ctx context.Context, year int, month time.Month, method core.PaymentMethod) (Statement, error) {
	st, err := s.BuildStatement(ctx, year, month, method)
	if err != nil {
		return Statement{}, err
	}

	if s.archive != nil {
		rec := storage.StatementRecord{
			ID:            st.ID,
			PeriodYear:    st.PeriodYear,
			PeriodMonth:   int(st.PeriodMonth),
			PaymentMethod: st.PaymentMethod,
			TotalIncome:   st.TotalIncome,
			TotalExpense:  st.TotalExpense,
			NetBalance:    st.NetBalance,
			Channels:      st.Channels,
			TxCount:       len(st.Transactions),
			GeneratedAt:   st.GeneratedAt,
		}
		if err := s.archive.SaveStatement(ctx, rec); err != nil {
			return Statement{}, fmt.Errorf("archive statement: %w", err)
		}
	}

	if s.events != nil {
		msg := amqp.NewStatementRecordedMessage(st.ID, st.PeriodYear, int(st.PeriodMonth))
		if err := s.events.PublishStatementRecorded(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish statement record",
				"statement_id", st.ID,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Statement recorded",
		"statement_id", st.ID,
		"year", st.PeriodYear,
		"month", int(st.PeriodMonth),
		"payment_method", string(st.PaymentMethod),
		"rows", len(st.Transactions))

	return st, nil
}

// ArchivedStatements lists previously recorded statement figures.
func (s *ReportService) ArchivedStatements(ctx context.Context, limit int) ([]storage.StatementRecord, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.ListStatements(ctx, limit)
}
