package config

// EnvPrefix is passed to envconfig; individual fields carry full variable names.
const EnvPrefix = "openreel"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "OPENREEL_DB_DSN"
	EnvDBHost = "OPENREEL_DB_HOST"
	EnvDBUser = "OPENREEL_DB_USER"
	EnvDBName = "OPENREEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
