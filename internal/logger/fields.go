package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldRecordID is the screenshot record ID
	FieldRecordID = "record_id"

	// FieldRenderID is the provider-side render job ID
	FieldRenderID = "render_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldProvider is the external service identifier (screenshot provider, vision backend)
	FieldProvider = "provider"

	// FieldBrand is the brand name or slug attached to a capture
	FieldBrand = "brand"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
