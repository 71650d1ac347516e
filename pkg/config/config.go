// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken     string
	ClientID     string
	ClientSecret string
	DevGuildID   string
	OwnerIDs     string

	// Storage
	Storage    string
	DataDir    string
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port         string
	DashboardURL string
	RedirectURL  string
	AllowedHosts string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string

	// Sentry
	SentryDSN string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:     getEnv("botToken", ""),
		ClientID:     getEnv("clientId", ""),
		ClientSecret: getEnv("clientSecret", ""),
		DevGuildID:   getEnv("devGuildId", ""),
		OwnerIDs:     getEnv("ownerIds", ""),

		// Storage
		Storage:    getEnv("storage", "file"),
		DataDir:    getEnv("dataDir", "data"),
		MongoDBURL: getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:     getEnv("dbName", "CompanionBot"),

		// MQTT
		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		// Web Server
		Port:         getEnv("PORT", "3000"),
		DashboardURL: getEnv("dashboardUrl", "http://localhost:3000"),
		RedirectURL:  getEnv("redirectUrl", ""),
		AllowedHosts: getEnv("allowedHosts", `^(localhost|127\.0\.0\.1)(:\d+)?$`),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Webhooks
		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),

		SentryDSN: getEnv("sentryDsn", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// UseMongo reports whether documents should be persisted in MongoDB instead of JSON files.
func (c *Config) UseMongo() bool {
	return strings.EqualFold(c.Storage, "mongo")
}

// OwnerIDList returns the bot owners parsed from the comma separated ownerIds variable.
func (c *Config) OwnerIDList() []string {
	var ids []string
	for _, id := range strings.Split(c.OwnerIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsOwner reports whether the given user id belongs to a bot owner.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerIDList() {
		if id == userID {
			return true
		}
	}
	return false
}

// OAuthRedirectURL returns the OAuth2 callback URL, derived from the dashboard URL when unset.
func (c *Config) OAuthRedirectURL() string {
	if c.RedirectURL != "" {
		return c.RedirectURL
	}
	return strings.TrimRight(c.DashboardURL, "/") + "/callback"
}
