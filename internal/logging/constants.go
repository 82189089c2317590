package logging

// Standard field names, so pipeline logs can be filtered consistently.
const (
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldBank          = "bank"
	FieldStatementType = "statement_type"
	FieldMethod        = "method"
	FieldProvider      = "provider"
	FieldTier          = "tier"
	FieldBatch         = "batch"
	FieldCount         = "count"
	FieldConfidence    = "confidence"
	FieldDuration      = "duration_ms"
	FieldCategory      = "category"
	FieldDescription   = "description"
	FieldHolder        = "card_holder"
	FieldCardDigits    = "card_digits"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldError         = "error"
)
