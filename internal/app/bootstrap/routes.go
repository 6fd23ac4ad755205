// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminusersfeature "github.com/workhubhq/workhub/internal/app/features/adminusers"
	authgooglefeature "github.com/workhubhq/workhub/internal/app/features/authgoogle"
	authlinefeature "github.com/workhubhq/workhub/internal/app/features/authline"
	dashboardfeature "github.com/workhubhq/workhub/internal/app/features/dashboard"
	exportfeature "github.com/workhubhq/workhub/internal/app/features/export"
	healthfeature "github.com/workhubhq/workhub/internal/app/features/health"
	linewebhookfeature "github.com/workhubhq/workhub/internal/app/features/linewebhook"
	linkingfeature "github.com/workhubhq/workhub/internal/app/features/linking"
	loginfeature "github.com/workhubhq/workhub/internal/app/features/login"
	profilefeature "github.com/workhubhq/workhub/internal/app/features/profile"
	reminderfeature "github.com/workhubhq/workhub/internal/app/features/reminder"
	reportsfeature "github.com/workhubhq/workhub/internal/app/features/reports"
	"github.com/workhubhq/workhub/internal/app/identitylink"
	identitystore "github.com/workhubhq/workhub/internal/app/store/identities"
	"github.com/workhubhq/workhub/internal/app/store/oauthstate"
	profilestore "github.com/workhubhq/workhub/internal/app/store/profiles"
	reportstore "github.com/workhubhq/workhub/internal/app/store/reports"
	"github.com/workhubhq/workhub/internal/app/system/auth"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/app/system/sheets"
	"github.com/workhubhq/workhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. WorkHub is a JSON API: it wires the
// session manager, the store layer, the LINE and Sheets clients, and mounts
// one feature router per surface. Admin routes sit behind a role gate;
// the LINE webhook and the cron endpoint authenticate themselves (signature
// and bearer secret respectively) and skip the session middleware's guards.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Session manager; secure cookies in production.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request so role changes and deactivated
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(profilestore.NewFetcher(deps.WorkHubMongoDatabase))

	// Store layer.
	profiles := profilestore.New(deps.WorkHubMongoDatabase)
	reports := reportstore.New(deps.WorkHubMongoDatabase)
	identities := identitystore.New(deps.WorkHubMongoDatabase)
	states := oauthstate.New(deps.WorkHubMongoDatabase)

	// External clients.
	lineClient := line.NewClient(appCfg.LineChannelAccessToken, logger)
	lineLogin := line.NewLoginClient(appCfg.LineLoginChannelID, appCfg.LineLoginChannelSecret,
		appCfg.BaseURL+"/auth/line/callback")
	resolver := identitylink.New(profiles, identities, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.WorkHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(profiles, sessionMgr, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	googleHandler := authgooglefeature.NewHandler(profiles, states, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	lineAuthHandler := authlinefeature.NewHandler(lineLogin, resolver, states, sessionMgr, logger)
	r.Mount("/auth/line", authlinefeature.Routes(lineAuthHandler))

	// LINE webhook: authenticated by channel-secret signature, not session.
	webhookHandler := linewebhookfeature.NewHandler(lineClient, profiles, identities,
		appCfg.LineChannelSecret, appCfg.BaseURL, logger)
	r.Mount("/api/line/webhook", linewebhookfeature.Routes(webhookHandler))

	// Reminder sweep: authenticated by the cron bearer secret.
	reminderHandler := reminderfeature.NewHandler(profiles, reports, lineClient,
		appCfg.CronSecret, appCfg.BaseURL, logger)
	r.Mount("/api/cron/reminder", reminderfeature.Routes(reminderHandler))

	// Signed-in surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		profileHandler := profilefeature.NewHandler(profiles, logger)
		r.Mount("/me", profilefeature.Routes(profileHandler))

		linkingHandler := linkingfeature.NewHandler(profiles, identities, logger)
		r.Mount("/api/line/link", linkingfeature.Routes(linkingHandler))

		reportsHandler := reportsfeature.NewHandler(reports, profiles, lineClient, appCfg.BaseURL, logger)
		r.Mount("/reports", reportsfeature.Routes(reportsHandler))

		dashboardHandler := dashboardfeature.NewHandler(profiles, reports, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
	})

	// Admin surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Use(auth.RequireRole(models.RoleAdmin))

		usersHandler := adminusersfeature.NewHandler(profiles, reports, identities, logger)
		r.Mount("/admin/users", adminusersfeature.Routes(usersHandler))

		exportHandler := exportfeature.NewHandler(profiles, reports, sessionMgr, sheets.NewClient(), logger)
		r.Mount("/admin", exportfeature.Routes(exportHandler))
	})

	return r, nil
}
