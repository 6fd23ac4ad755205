// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for WorkHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: WORKHUB_MONGO_URI, WORKHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "work_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "workhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Base URL for OAuth callbacks and links in LINE messages
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL of this deployment"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// LINE Login channel (identity linking)
	{Name: "line_login_channel_id", Default: "", Desc: "LINE Login channel ID"},
	{Name: "line_login_channel_secret", Default: "", Desc: "LINE Login channel secret"},

	// LINE Messaging API channel (webhook + push messages)
	{Name: "line_channel_secret", Default: "", Desc: "LINE Messaging API channel secret (webhook signature)"},
	{Name: "line_channel_access_token", Default: "", Desc: "LINE Messaging API channel access token"},

	// Scheduler auth
	{Name: "cron_secret", Default: "", Desc: "Bearer secret for the reminder cron endpoint (blank disables the check)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the initial admin user (promotes/creates on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, WORKHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WORKHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		LineLoginChannelID:     appValues.String("line_login_channel_id"),
		LineLoginChannelSecret: appValues.String("line_login_channel_secret"),

		LineChannelSecret:      appValues.String("line_channel_secret"),
		LineChannelAccessToken: appValues.String("line_channel_access_token"),

		CronSecret: appValues.String("cron_secret"),
		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// WorkHub validates the MongoDB URI format to catch configuration errors
// early, and requires OAuth credentials to come in complete pairs; a
// half-configured provider fails at startup instead of at first login.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}
	if (appCfg.LineLoginChannelID == "") != (appCfg.LineLoginChannelSecret == "") {
		return fmt.Errorf("line_login_channel_id and line_login_channel_secret must be set together")
	}

	if appCfg.LineChannelSecret == "" {
		logger.Warn("line_channel_secret is not set; the LINE webhook will reject all deliveries")
	}
	if appCfg.CronSecret == "" {
		logger.Warn("cron_secret is not set; the reminder endpoint accepts unauthenticated calls")
	}

	return nil
}
