package cmd

type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	OverrideTTLMinutes string
	AccountingURL      string
	// SupervisorCredentials holds "userID=argon2idHash" pairs separated by
	// semicolons. Credential provisioning is owned by the identity system;
	// this service only verifies.
	SupervisorCredentials string
	OpenAPIPath           string
}
