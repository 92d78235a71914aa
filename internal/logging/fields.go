package logging

// Field names shared across packages so log lines stay greppable.
const (
	FieldComponent  = "component"
	FieldStage      = "stage"
	FieldRole       = "role"
	FieldFunction   = "function"
	FieldLocator    = "locator"
	FieldError      = "error"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldMode       = "mode"
)
