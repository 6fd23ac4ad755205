// internal/domain/models/identity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderLINE is the only external identity provider currently wired.
const ProviderLINE = "line"

// UserIdentity maps an external provider identity to an internal profile.
// Exactly one document per (provider, provider_uid); repeated logins for the
// same external identity resolve to the same profile through this mapping.
type UserIdentity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Provider    string             `bson:"provider" json:"provider"`
	ProviderUID string             `bson:"provider_uid" json:"provider_uid"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
