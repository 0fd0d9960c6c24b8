package worker

import (
	"context"
	"fmt"
	"log/slog"

	"crewfin/internal/amqp"
	"crewfin/internal/storage"
)

// Event kinds written to the audit trail.
const (
	AuditKindTransaction = "transaction"
	AuditKindStatement   = "statement"
)

// AuditWorker consumes change and statement messages and writes them to
// the local audit trail. The trail records what happened and when, never
// amounts, so it stays useful even if the remote backend rewrites history.
type AuditWorker struct {
	archive *storage.SQLiteRepository
}

func NewAuditWorker(archive *storage.SQLiteRepository) *AuditWorker {
	return &AuditWorker{archive: archive}
}

// Handle records one message. Exactly one of tx and st is set per call,
// matching what the queue consumer decodes.
func (w *AuditWorker) Handle(ctx context.Context, tx *amqp.TransactionChangedMessage, st *amqp.StatementRecordedMessage) error {
	switch {
	case tx != nil:
		slog.InfoContext(ctx, "Recording transaction change",
			"op", tx.Op,
			"ids", len(tx.IDs))
		if err := w.archive.RecordAuditEvent(ctx, AuditKindTransaction, tx.Op, tx.IDs, tx.Timestamp); err != nil {
			return fmt.Errorf("record transaction audit event: %w", err)
		}
	case st != nil:
		slog.InfoContext(ctx, "Recording statement event",
			"statement_id", st.StatementID,
			"year", st.Year,
			"month", st.Month)
		if err := w.archive.RecordAuditEvent(ctx, AuditKindStatement, "recorded", []string{st.StatementID}, st.Timestamp); err != nil {
			return fmt.Errorf("record statement audit event: %w", err)
		}
	default:
		slog.WarnContext(ctx, "Empty message delivered, nothing to record")
	}
	return nil
}
