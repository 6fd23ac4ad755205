// Package reportstore persists daily work reports. Each document is the
// single report for one (user, report date) pair; resubmitting replaces the
// tasks and notes wholesale.
package reportstore

import (
	"context"
	"time"

	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

// GetByUserAndDate loads the report a user submitted for a date. Returns
// mongo.ErrNoDocuments when nothing was submitted.
func (s *Store) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Report, error) {
	var rep models.Report
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "report_date": date}).Decode(&rep)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Upsert stores a report for (user, date), replacing tasks and notes if one
// already exists. The first submission sets submitted_at; later submissions
// keep it and bump updated_at.
func (s *Store) Upsert(ctx context.Context, userID primitive.ObjectID, date string, yesterday, today []models.Task, notes string) (*models.Report, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"yesterday_tasks": yesterday,
			"today_tasks":     today,
			"notes":           notes,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"user_id":      userID,
			"report_date":  date,
			"submitted_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var rep models.Report
	err := s.c.FindOneAndUpdate(ctx, bson.M{"user_id": userID, "report_date": date}, update, opts).Decode(&rep)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListByDate returns every report submitted for a date, newest first.
func (s *Store) ListByDate(ctx context.Context, date string) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"report_date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns a user's most recent reports, newest date first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Report, error) {
	if limit <= 0 {
		limit = 30
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "report_date", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUserRange returns a user's reports with report_date in [start, end],
// newest first. Dates compare lexicographically because of the fixed layout.
func (s *Store) ListByUserRange(ctx context.Context, userID primitive.ObjectID, start, end string) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "report_date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{
		"user_id":     userID,
		"report_date": bson.M{"$gte": start, "$lte": end},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRange returns all users' reports with report_date in [start, end].
// The monthly aggregation feeds this to the hours roll-up.
func (s *Store) ListByRange(ctx context.Context, start, end string) ([]models.Report, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"report_date": bson.M{"$gte": start, "$lte": end},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned removes a report only if it belongs to the given user.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUserID removes all of a user's reports. Used by the admin cascade
// delete.
func (s *Store) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
