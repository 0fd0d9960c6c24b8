// Package storage is the local SQLite archive: statement figures kept for
// audit, and the change-event trail written by the worker. The remote
// store stays the system of record for transactions themselves.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crewfin/internal/core"

	_ "modernc.org/sqlite"
)

type (
	// StatementRecord is an archived statement's figures. ChannelFlows is
	// stored as JSON so the exact reported breakdown survives verbatim.
	StatementRecord struct {
		ID            string
		PeriodYear    int
		PeriodMonth   int // 0 = whole year
		PaymentMethod core.PaymentMethod
		TotalIncome   float64
		TotalExpense  float64
		NetBalance    float64
		Channels      []core.ChannelFlow
		TxCount       int
		GeneratedAt   time.Time
	}

	// AuditEvent is one row of the change trail.
	AuditEvent struct {
		ID         int64
		Kind       string
		Op         string
		RefIDs     []string
		OccurredAt time.Time
	}
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveStatement archives a statement's figures.
func (r *SQLiteRepository) SaveStatement(ctx context.Context, rec StatementRecord) error {
	channels, err := json.Marshal(rec.Channels)
	if err != nil {
		return fmt.Errorf("encode channel breakdown: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO statements
			(id, period_year, period_month, payment_method,
			 total_income, total_expense, net_balance, channel_json, tx_count, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PeriodYear, rec.PeriodMonth, string(rec.PaymentMethod),
		rec.TotalIncome, rec.TotalExpense, rec.NetBalance, string(channels),
		rec.TxCount, rec.GeneratedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

// ListStatements returns archived statements, newest first.
func (r *SQLiteRepository) ListStatements(ctx context.Context, limit int) ([]StatementRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, period_year, period_month, payment_method,
		       total_income, total_expense, net_balance, channel_json, tx_count, generated_at
		FROM statements
		ORDER BY generated_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var out []StatementRecord
	for rows.Next() {
		var rec StatementRecord
		var method, channels string
		if err := rows.Scan(
			&rec.ID, &rec.PeriodYear, &rec.PeriodMonth, &method,
			&rec.TotalIncome, &rec.TotalExpense, &rec.NetBalance,
			&channels, &rec.TxCount, &rec.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		rec.PaymentMethod = core.PaymentMethod(method)
		if err := json.Unmarshal([]byte(channels), &rec.Channels); err != nil {
			return nil, fmt.Errorf("decode channel breakdown for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetStatement fetches one archived statement by id.
func (r *SQLiteRepository) GetStatement(ctx context.Context, id string) (StatementRecord, error) {
	var rec StatementRecord
	var method, channels string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, period_year, period_month, payment_method,
		       total_income, total_expense, net_balance, channel_json, tx_count, generated_at
		FROM statements WHERE id = ?`, id).Scan(
		&rec.ID, &rec.PeriodYear, &rec.PeriodMonth, &method,
		&rec.TotalIncome, &rec.TotalExpense, &rec.NetBalance,
		&channels, &rec.TxCount, &rec.GeneratedAt,
	)
	if err != nil {
		return StatementRecord{}, fmt.Errorf("get statement %s: %w", id, err)
	}
	rec.PaymentMethod = core.PaymentMethod(method)
	if err := json.Unmarshal([]byte(channels), &rec.Channels); err != nil {
		return StatementRecord{}, fmt.Errorf("decode channel breakdown for %s: %w", id, err)
	}
	return rec, nil
}

// RecordAuditEvent appends one row to the change trail.
func (r *SQLiteRepository) RecordAuditEvent(ctx context.Context, kind, op string, refIDs []string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (kind, op, ref_ids, occurred_at)
		VALUES (?, ?, ?, ?)`,
		kind, op, strings.Join(refIDs, ","), occurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the most recent audit rows, newest first.
func (r *SQLiteRepository) ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, op, ref_ids, occurred_at
		FROM audit_events
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []AuditEvent
	for rows.Next() {
		var ev AuditEvent
		var refs string
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.Op, &refs, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if refs != "" {
			ev.RefIDs = strings.Split(refs, ",")
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
