package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldRunID        = "run_id"
	FieldCategory     = "category"
	FieldMonth        = "month"
	FieldWindowMonths = "window_months"
	FieldThreshold    = "threshold"
	FieldZScore       = "z_score"
	FieldSeverity     = "severity"
	FieldAmountCents  = "amount_cents"
	FieldTxCount      = "transaction_count"
	FieldScore        = "score"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpAggregate = "aggregate"
	OpDetect    = "detect"
	OpProject   = "project"
	OpScore     = "score"
	OpReport    = "report"
	OpAppend    = "append"
	OpList      = "list"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)
