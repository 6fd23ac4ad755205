// Package identitylink resolves external provider accounts (LINE) to
// application profiles. It owns the identity mapping rules for both auth
// modes: "login" signs a provider account in, creating or recovering a
// profile as needed, and "link" binds a provider account to the already
// signed-in profile.
package identitylink

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/app/system/normalize"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrAlreadyLinked means the provider account is already bound to the
	// signed-in profile. Treated as success by callers.
	ErrAlreadyLinked = errors.New("this line account is already linked to your profile")

	// ErrLinkedToOther means the provider account belongs to a different
	// profile. No writes happen when this is returned.
	ErrLinkedToOther = errors.New("this line account is already linked to another profile")

	errIdentityOrphaned = errors.New("identity mapping points at a missing profile")
)

// ProfileDirectory is the slice of the profile store the resolver needs.
// Lookups signal absence with mongo.ErrNoDocuments.
type ProfileDirectory interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, p models.Profile) (models.Profile, error)
	CompleteLineLink(ctx context.Context, id primitive.ObjectID, lineUserID string) error
}

// IdentityDirectory is the slice of the identity store the resolver needs.
type IdentityDirectory interface {
	GetByProviderUID(ctx context.Context, provider, providerUID string) (*models.UserIdentity, error)
	Insert(ctx context.Context, ident models.UserIdentity) (models.UserIdentity, error)
}

// Resolver maps LINE accounts to profiles.
type Resolver struct {
	profiles   ProfileDirectory
	identities IdentityDirectory
	log        *zap.Logger
}

func New(profiles ProfileDirectory, identities IdentityDirectory, logger *zap.Logger) *Resolver {
	return &Resolver{profiles: profiles, identities: identities, log: logger}
}

// SyntheticEmail is the deterministic placeholder email for a LINE-only
// profile. The fixed format is what makes the email-collision recovery path
// work: a half-created profile from an earlier attempt is found again by
// the same address.
func SyntheticEmail(providerUID string) string {
	return "line_" + normalize.ProviderUID(providerUID) + "@line.local"
}

// ResolveLogin resolves a LINE profile to an application profile for sign
// in, creating one on first contact. The returned bool reports whether the
// identity mapping already existed.
func (r *Resolver) ResolveLogin(ctx context.Context, lp *line.Profile) (*models.Profile, bool, error) {
	uid := normalize.ProviderUID(lp.UserID)

	ident, err := r.identities.GetByProviderUID(ctx, models.ProviderLINE, uid)
	switch {
	case err == nil:
		p, err := r.profiles.GetByID(ctx, ident.UserID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Error("identity resolves to missing profile",
				zap.String("provider_uid", abbrev(uid)),
				zap.String("user_id", ident.UserID.Hex()))
			return nil, false, errIdentityOrphaned
		}
		if err != nil {
			return nil, false, err
		}
		r.refreshLineLink(ctx, p.ID, uid)
		return p, true, nil

	case errors.Is(err, mongo.ErrNoDocuments):
		// First contact from this LINE account.
	default:
		return nil, false, err
	}

	p, err := r.createLineProfile(ctx, uid, lp.DisplayName)
	if err != nil {
		return nil, false, err
	}

	if _, err := r.identities.Insert(ctx, models.UserIdentity{
		Provider:    models.ProviderLINE,
		ProviderUID: uid,
		UserID:      p.ID,
	}); err != nil {
		// A concurrent login for the same LINE account may have won the
		// unique index. Re-read the mapping and defer to the winner.
		if winner, lookupErr := r.identities.GetByProviderUID(ctx, models.ProviderLINE, uid); lookupErr == nil {
			if wp, err := r.profiles.GetByID(ctx, winner.UserID); err == nil {
				return wp, true, nil
			}
		}
		r.log.Error("identity insert failed", zap.String("provider_uid", abbrev(uid)), zap.Error(err))
	}

	r.refreshLineLink(ctx, p.ID, uid)
	return p, false, nil
}

// ResolveLink binds a LINE account to the signed-in profile. Returns
// ErrAlreadyLinked when the binding already exists for this profile and
// ErrLinkedToOther, writing nothing, when it belongs to someone else.
func (r *Resolver) ResolveLink(ctx context.Context, currentUserID primitive.ObjectID, lp *line.Profile) error {
	uid := normalize.ProviderUID(lp.UserID)

	ident, err := r.identities.GetByProviderUID(ctx, models.ProviderLINE, uid)
	switch {
	case err == nil:
		if ident.UserID == currentUserID {
			return ErrAlreadyLinked
		}
		return ErrLinkedToOther
	case errors.Is(err, mongo.ErrNoDocuments):
		// Free to bind.
	default:
		return err
	}

	if _, err := r.identities.Insert(ctx, models.UserIdentity{
		Provider:    models.ProviderLINE,
		ProviderUID: uid,
		UserID:      currentUserID,
	}); err != nil {
		return err
	}

	r.refreshLineLink(ctx, currentUserID, uid)
	return nil
}

// createLineProfile inserts a profile for a first-time LINE login. When the
// synthetic email already exists (a prior attempt created the profile but
// crashed before the identity mapping landed), the existing profile is
// recovered instead.
func (r *Resolver) createLineProfile(ctx context.Context, uid, displayName string) (*models.Profile, error) {
	name := normalize.Name(displayName)
	if name == "" {
		name = "LINE User"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("LINE_"+uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := r.profiles.Create(ctx, models.Profile{
		Email:        SyntheticEmail(uid),
		Name:         name,
		Role:         models.RoleMember,
		PasswordHash: string(hash),
	})
	if err == nil {
		return &created, nil
	}

	if !isEmailCollision(err) {
		return nil, err
	}

	r.log.Info("recovering profile by synthetic email", zap.String("provider_uid", abbrev(uid)))
	existing, lookupErr := r.profiles.GetByEmail(ctx, SyntheticEmail(uid))
	if lookupErr != nil {
		return nil, lookupErr
	}
	return existing, nil
}

// refreshLineLink stamps the LINE binding onto the profile document. The
// identity collection stays the source of truth, so failures here only get
// logged.
func (r *Resolver) refreshLineLink(ctx context.Context, id primitive.ObjectID, uid string) {
	if err := r.profiles.CompleteLineLink(ctx, id, uid); err != nil {
		r.log.Error("profile line-link update failed",
			zap.String("user_id", id.Hex()), zap.Error(err))
	}
}

// isEmailCollision recognizes a duplicate-email failure from Create. The
// typed sentinel is checked first; the message probe covers stores that
// surface the raw driver error.
func isEmailCollision(err error) bool {
	if errors.Is(err, profilestore.ErrDuplicateEmail) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already") ||
		strings.Contains(msg, "exists") ||
		strings.Contains(msg, "registered")
}

func abbrev(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8] + "..."
}

// LinkCodeTTL is how long a chat-based linking code stays valid.
const LinkCodeTTL = 10 * time.Minute
