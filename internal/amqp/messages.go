package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried by TransactionChangedMessage.
const (
	OpCreated         = "created"
	OpUpdated         = "updated"
	OpDeleted         = "deleted"
	OpBulkDeleted     = "bulk_deleted"
	OpCategoryChanged = "category_changed"
)

// TransactionChangedMessage announces that the remote transaction set
// changed. Consumers re-fetch the snapshot; the message carries only
// identifiers, never amounts.
type TransactionChangedMessage struct {
	Op        string    `json:"op"`
	IDs       []string  `json:"ids"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionChangedMessage(op string, ids ...string) *TransactionChangedMessage {
	return &TransactionChangedMessage{Op: op, IDs: ids, Timestamp: time.Now()}
}

func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionChangedFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// StatementRecordedMessage announces that a statement's figures were
// archived, so the audit trail can reference them.
type StatementRecordedMessage struct {
	StatementID string    `json:"statementId"`
	Year        int       `json:"year"`
	Month       int       `json:"month,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewStatementRecordedMessage(id string, year, month int) *StatementRecordedMessage {
	return &StatementRecordedMessage{StatementID: id, Year: year, Month: month, Timestamp: time.Now()}
}

func (m *StatementRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatementRecordedFromJSON(data []byte) (*StatementRecordedMessage, error) {
	var msg StatementRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Envelope wraps either message kind on the wire so a single queue serves
// both.
type Envelope struct {
	Kind    string          `json:"kind"` // "transaction_changed" | "statement_recorded"
	Payload json.RawMessage `json:"payload"`
}

const (
	KindTransactionChanged = "transaction_changed"
	KindStatementRecorded  = "statement_recorded"
)
