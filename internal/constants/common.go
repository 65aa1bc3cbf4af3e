package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"
	TestEnvironment = "test"

	// Environment variable names
	EnvAPIPort           = "API_PORT"
	EnvStage             = "STAGE"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvMaxRecordsPerPair = "MAX_RECORDS_PER_PAIR"

	// Defaults
	DefaultAPIPort = "8000"
)

// DefaultMaxRecordsPerPair is the record-count cap applied to each
// (owner, asset) pair when MAX_RECORDS_PER_PAIR is not configured.
const DefaultMaxRecordsPerPair = 3
