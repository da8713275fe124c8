package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldPropertyID = "property_id"
	FieldUnitID     = "unit_id"
	FieldReceiptID  = "receipt_id"
	FieldIndexKind  = "index_kind"
)

// Components defines standard component names
const (
	ComponentAPI       = "api"
	ComponentWorker    = "worker"
	ComponentIndexSync = "index_sync"
)
