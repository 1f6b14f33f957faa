package config

const (
	EnvPrefix = "fieldsale"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvBackendBaseURL = "FIELDSALE_BACKEND_BASE_URL"
	EnvBearerToken    = "FIELDSALE_BEARER_TOKEN"
)
