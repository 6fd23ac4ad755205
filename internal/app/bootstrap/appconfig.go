// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request limits. AppConfig is where
// everything specific to WorkHub lives: backend connection strings, OAuth
// credentials, and the shared secrets for the LINE webhook and the cron
// endpoint. The struct is passed to most lifecycle hooks, so anything
// needed during startup, request handling, or shutdown belongs here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: workhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks and links embedded in LINE messages
	BaseURL string // e.g., "https://workhub.example.com" or "http://localhost:3000"

	// Google OAuth (sign-in and Sheets export)
	GoogleClientID     string
	GoogleClientSecret string

	// LINE Login channel (OAuth identity linking)
	LineLoginChannelID     string
	LineLoginChannelSecret string

	// LINE Messaging API channel (webhook, reminders, admin notifications)
	LineChannelSecret      string // Validates x-line-signature on webhook deliveries
	LineChannelAccessToken string // Bearer token for push/multicast/reply

	// Shared secret for the reminder cron endpoint. Blank disables the check.
	CronSecret string

	// Initial admin bootstrap: promotes (or creates) this account on startup.
	AdminEmail string
}
