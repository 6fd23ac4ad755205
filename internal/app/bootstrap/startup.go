// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/workhubhq/workhub/internal/app/store/oauthstate"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/system/workers"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stateCleanup runs for the life of the process; stopped in Shutdown.
var stateCleanup *workers.StateCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	stateCleanup = workers.NewStateCleanup(
		oauthstate.New(deps.WorkHubMongoDatabase), logger, 10*time.Minute)
	stateCleanup.Start()

	return nil
}

// ensureAdmin promotes the configured account to admin, creating it first if
// it does not exist yet. A created account has no password; its owner signs
// in with Google (matched by email) and inherits the admin role.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	store := profilestore.New(deps.WorkHubMongoDatabase)

	existing, err := store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			logger.Info("admin account already in place", zap.String("email", email))
			return nil
		}
		if err := store.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin %s: %w", email, err)
		}
		logger.Info("promoted existing account to admin",
			zap.String("email", email),
			zap.String("previous_role", existing.Role))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		created, err := store.Create(ctx, models.Profile{
			Email:    email,
			Name:     name,
			Role:     models.RoleAdmin,
			IsActive: true,
		})
		if err != nil {
			return fmt.Errorf("create admin %s: %w", email, err)
		}
		logger.Info("created admin account",
			zap.String("email", email),
			zap.String("id", created.ID.Hex()))
		return nil

	default:
		return fmt.Errorf("look up admin %s: %w", email, err)
	}
}
