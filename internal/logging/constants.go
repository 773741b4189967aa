package logging

// Standardized field names for structured logging.
// Every stage logs with these keys so a run can be filtered by year or batch.
const (
	FieldFile        = "file_path"
	FieldStage       = "stage"
	FieldYear        = "reference_year"
	FieldBatchID     = "batch_id"
	FieldSource      = "source_tag"
	FieldCustomerID  = "customer_id"
	FieldBeneficiary = "beneficiary"
	FieldMatchKey    = "match_key"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldDelimiter   = "delimiter"
	FieldEncoding    = "encoding"
	FieldEurPerHa    = "eur_per_ha"
	FieldRow         = "row"
	FieldDriver      = "db_driver"
	FieldOutputFile  = "output_file"
)
