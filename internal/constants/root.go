package constants

const (
	// AppName is used for the keyring service name, log prefix, and config paths
	AppName = "stride"

	// DefaultKeyringUser is the keyring account the bearer token is stored under
	DefaultKeyringUser = "api-token"

	// DateFormat is the canonical YYYY-MM-DD layout for entry dates
	DateFormat = "2006-01-02"

	// DefaultServerURL is used when no config file or flag overrides it
	DefaultServerURL = "http://localhost:3000"

	// DefaultRequestTimeoutSec bounds every API call
	DefaultRequestTimeoutSec = 15

	// WeeklyWindowDays is the length of the trailing aggregate window
	WeeklyWindowDays = 7
)
