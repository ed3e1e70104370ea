package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Optional bearer auth. Empty JWKSURL disables verification entirely;
	// the server then relies on network placement, matching the original
	// deployment where only service credentials existed.
	JWKSURL string
	// Zeus memory service
	ZeusAPIURL string
	ZeusAPIKey string
	// Athena knowledge-graph service
	AthenaAPIURL string
	// Nextcloud WebDAV host
	NextcloudURL      string
	NextcloudUsername string
	NextcloudPassword string
	// Agent configuration
	AnthropicAPIKey    string
	AgentModel         string
	AgentMaxTokens     int
	AgentMaxToolRounds int
	// File logging; empty LogDir logs to stdout only
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWKSURL:     getEnv("ATLAS_JWKS_URL", ""),

		ZeusAPIURL: getEnv("ZEUS_API_URL", "https://zeus.aldc.io"),
		ZeusAPIKey: getEnv("ZEUS_API_KEY", ""),

		AthenaAPIURL: getEnv("ATHENA_API_URL", "https://athena.aldc.io"),

		NextcloudURL:      getEnv("NEXTCLOUD_URL", "https://cloud.aldc.io"),
		NextcloudUsername: getEnv("NEXTCLOUD_USERNAME", ""),
		NextcloudPassword: getEnv("NEXTCLOUD_PASSWORD", ""),

		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AgentModel:         getEnv("AGENT_MODEL", "claude-sonnet-4-20250514"),
		AgentMaxTokens:     getEnvInt("AGENT_MAX_TOKENS", 4096),
		AgentMaxToolRounds: getEnvInt("AGENT_MAX_TOOL_ROUNDS", 8),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		// Debug defaults to true outside prod
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
