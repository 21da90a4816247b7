package logging

// Structured keys shared across packages.
const (
	FieldComponent      = "component"
	FieldEventType      = "event_type"
	FieldErrorHint      = "error_hint"
	FieldImpact         = "impact"
	FieldHook           = "hook"
	FieldSessionID      = "session_id"
	FieldItemID         = "item_id"
	FieldPath           = "path"
	FieldDecisionType   = "decision_type"
	FieldDecisionResult = "decision_result"
	FieldDecisionReason = "decision_reason"
)
