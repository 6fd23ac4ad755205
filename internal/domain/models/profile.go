// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized on a profile.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Profile represents an internal account: admins and members.
//
// NOTE:
//   - Email is unique across the collection and doubles as the login ID.
//   - LINE-provisioned accounts carry a synthetic email of the form
//     line_<provider_uid>@line.local and a random throwaway credential.
//   - At most one profile may reference a given LineUserID (sparse unique
//     index); the user_identities collection is the authoritative mapping.
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Role         string             `bson:"role" json:"role"` // admin | member
	IsActive     bool               `bson:"is_active" json:"is_active"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	// Messaging-platform link. The linking code is transient: issued for
	// ten minutes and cleared once consumed.
	LineUserID               *string    `bson:"line_user_id,omitempty" json:"line_user_id,omitempty"`
	LineLinkedAt             *time.Time `bson:"line_linked_at,omitempty" json:"line_linked_at,omitempty"`
	LineLinkingCode          *string    `bson:"line_linking_code,omitempty" json:"-"`
	LineLinkingCodeExpiresAt *time.Time `bson:"line_linking_code_expires_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidRole checks if a value is a recognized profile role.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
