package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldDescription   = "description"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldDate          = "date"
	FieldBackend       = "backend"
	FieldKey           = "key"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentStore  = "store"
	ComponentKV     = "kv"
	ComponentEvents = "events"
	ComponentImport = "import"
	ComponentAudit  = "audit"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpReplace  = "replace"
	OpPersist  = "persist"
	OpLoad     = "load"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
