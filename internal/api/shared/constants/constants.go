package constants

const (
	MAX_BULK_CANCEL_IDS     = 100
	SERVICE_NAME            = "trait-inventory-api"
	DEFAULT_FAILURE_REASON  = "transaction failed"
	MIN_RETRY_AFTER_SECONDS = 1
)
