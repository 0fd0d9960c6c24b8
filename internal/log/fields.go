package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldTxID        = "transaction_id"
	FieldTxType      = "transaction_type"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldChannel     = "payment_method"
	FieldStatementID = "statement_id"
	FieldPlan        = "plan"
	FieldCount       = "count"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentDashboard = "dashboard"
	ComponentTx        = "transactions"
	ComponentReports   = "reports"
	ComponentPlans     = "plans"
	ComponentBackend   = "backend"
	ComponentArchive   = "archive"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpBulk     = "bulk"
	OpRefresh  = "refresh"
	OpRecord   = "record"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
