// Package identitystore persists external-provider identity bindings. Each
// document maps a (provider, provider_uid) pair to exactly one profile.
package identitystore

import (
	"context"
	"errors"
	"time"

	"github.com/workhubhq/workhub/internal/app/system/normalize"
	"github.com/workhubhq/workhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_identities")}
}

// ErrDuplicateIdentity is returned when the (provider, provider_uid) pair is
// already bound to a profile.
var ErrDuplicateIdentity = errors.New("this provider identity is already linked")

// GetByProviderUID looks up the identity for a provider account. Returns
// mongo.ErrNoDocuments if the account has never been linked.
func (s *Store) GetByProviderUID(ctx context.Context, provider, providerUID string) (*models.UserIdentity, error) {
	var ident models.UserIdentity
	err := s.c.FindOne(ctx, bson.M{
		"provider":     provider,
		"provider_uid": normalize.ProviderUID(providerUID),
	}).Decode(&ident)
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

// Insert records a new identity binding. The provider UID is lowercased so
// lookups are case-insensitive.
func (s *Store) Insert(ctx context.Context, ident models.UserIdentity) (models.UserIdentity, error) {
	ident.ID = primitive.NewObjectID()
	ident.ProviderUID = normalize.ProviderUID(ident.ProviderUID)
	ident.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, ident); err != nil {
		if wafflemongo.IsDup(err) {
			return models.UserIdentity{}, ErrDuplicateIdentity
		}
		return models.UserIdentity{}, err
	}
	return ident, nil
}

// ListByUserID returns all provider bindings for a profile.
func (s *Store) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.UserIdentity, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserIdentity
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByUserAndProvider removes a profile's binding for one provider.
// Used when the user unlinks their LINE account.
func (s *Store) DeleteByUserAndProvider(ctx context.Context, userID primitive.ObjectID, provider string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID, "provider": provider})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUserID removes every identity binding for a profile. Used by the
// admin cascade delete.
func (s *Store) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
